package main

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/pmont/chime/synth"
)

// midiWatcher connects the first available MIDI input to the engine.
// Incoming note and control-change messages become engine commands; when the
// command queue is momentarily full the message is dropped, never the
// listener blocked.
type midiWatcher struct {
	drv    *rtmididrv.Driver
	inPort drivers.In
	stopFn func()
}

func newMIDIWatcher(engine *synth.Engine) (*midiWatcher, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	w := &midiWatcher{drv: drv}
	if err := w.connect(engine); err != nil {
		drv.Close()
		return nil, err
	}
	return w, nil
}

func (w *midiWatcher) connect(engine *synth.Engine) error {
	ins, err := w.drv.Ins()
	if err != nil {
		return fmt.Errorf("list inputs: %w", err)
	}
	if len(ins) == 0 {
		return errors.New("no MIDI inputs available")
	}
	in := ins[0]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", in.String(), err)
	}

	push := func(cmd synth.Command) {
		if err := engine.Push(cmd); err != nil {
			logger.Warn("midi: command dropped", "err", err)
		}
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel, ctrl, val uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			logger.Debug("midi: note on", "key", key, "vel", vel)
			push(synth.NoteOn{Note: key, Velocity: vel * 2})
		case msg.GetNoteEnd(&ch, &key):
			logger.Debug("midi: note off", "key", key)
			push(synth.NoteOff{Note: key})
		case msg.GetControlChange(&ch, &ctrl, &val):
			logger.Debug("midi: control change", "controller", ctrl, "value", val)
			push(synth.ControlChange{Controller: ctrl, Value: val})
		}
	}, midi.HandleError(func(listenErr error) {
		logger.Warn("midi: listener error", "err", listenErr)
	}))
	if err != nil {
		in.Close()
		return fmt.Errorf("listen %q: %w", in.String(), err)
	}

	w.inPort = in
	w.stopFn = stop
	logger.Info("midi: connected", "device", in.String())
	return nil
}

func (w *midiWatcher) Close() {
	if w.stopFn != nil {
		w.stopFn()
	}
	if w.inPort != nil {
		w.inPort.Close()
	}
	w.drv.Close()
}
