package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pmont/chime/synth"
)

type env struct {
	engine   *synth.Engine
	recorder *recorder

	// sequences handed to the engine; kept here so they stay alive for as
	// long as playback might reference them.
	seqs []*synth.Sequence
}

func (e *env) hold(seq *synth.Sequence) {
	e.seqs = append(e.seqs, seq)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Println(err)
		}
	}
}

func (e *env) eval(input string) error {
	parts := strings.Fields(input)
	name, args := parts[0], parts[1:]
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(args) < cmd.minArgs {
			return fmt.Errorf("%s: not enough arguments: want %v, got %v", cmd.name, cmd.minArgs, len(args))
		}
		if err := cmd.run(e, args); err != nil {
			return fmt.Errorf("%s: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

type command struct {
	name    string
	help    string
	run     func(e *env, args []string) error
	minArgs int
}

var commands = []command{
	{name: "play", help: "play NOTE [VELOCITY]: start a note (velocity 0 releases)", run: play, minArgs: 1},
	{name: "stop", help: "stop NOTE: release a note", run: stop, minArgs: 1},
	{name: "cc", help: "cc CONTROLLER VALUE: send a control change", run: cc, minArgs: 2},
	{name: "cutoff", help: "cutoff HZ: set the filter cutoff", run: cutoff, minArgs: 1},
	{name: "osc", help: "osc naive|additive|polyblep: switch oscillator", run: osc, minArgs: 1},
	{name: "set", help: "set PARAM VALUE: patch an instrument parameter", run: set, minArgs: 2},
	{name: "seq", help: "seq FILE [TRACK]: play a MIDI file", run: seq, minArgs: 1},
	{name: "stopseq", help: "stopseq: stop sequence playback", run: stopseq},
	{name: "rec", help: "rec start | rec stop FILE: capture output to a WAV file", run: rec, minArgs: 1},
	{name: "help", help: "help: list commands", run: help},
}

func play(e *env, args []string) error {
	note, err := parseByte(args[0], 127)
	if err != nil {
		return err
	}
	velocity := uint8(127)
	if len(args) > 1 {
		if velocity, err = parseByte(args[1], 255); err != nil {
			return err
		}
	}
	return e.engine.PlayNote(note, velocity)
}

func stop(e *env, args []string) error {
	note, err := parseByte(args[0], 127)
	if err != nil {
		return err
	}
	return e.engine.PlayNote(note, 0)
}

func cc(e *env, args []string) error {
	controller, err := parseByte(args[0], 127)
	if err != nil {
		return err
	}
	value, err := parseByte(args[1], 127)
	if err != nil {
		return err
	}
	return e.engine.Push(synth.ControlChange{Controller: controller, Value: value})
}

func cutoff(e *env, args []string) error {
	hz, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	return e.engine.SetFilterCutoff(hz)
}

func osc(e *env, args []string) error {
	kind, err := synth.ParseOscKind(args[0])
	if err != nil {
		return err
	}
	return e.engine.SetOscillator(kind)
}

var params = map[string]synth.Param{
	"attack":   synth.ParamAttack,
	"decay":    synth.ParamDecay,
	"sustain":  synth.ParamSustain,
	"release":  synth.ParamRelease,
	"volume":   synth.ParamVolume,
	"pw":       synth.ParamPulseWidth,
	"fmul":     synth.ParamFreqMultiplier,
	"vibrate":  synth.ParamVibratoRate,
	"vibdepth": synth.ParamVibratoDepth,
}

func set(e *env, args []string) error {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	switch args[0] {
	case "delay.time":
		return e.engine.Push(synth.SetDelayTime{Seconds: value})
	case "delay.feedback":
		return e.engine.Push(synth.SetDelayFeedback{Amount: value})
	}
	param, ok := params[args[0]]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", args[0])
	}
	return e.engine.SetParam(param, value)
}

func seq(e *env, args []string) error {
	track := 0
	if len(args) > 1 {
		t, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		track = t
	}
	sequence, err := loadSequence(args[0], track)
	if err != nil {
		return err
	}
	e.hold(sequence)
	return e.engine.StartSequence(sequence)
}

func stopseq(e *env, args []string) error {
	return e.engine.StopSequence()
}

func rec(e *env, args []string) error {
	switch args[0] {
	case "start":
		e.recorder.Start()
		return nil
	case "stop":
		if len(args) < 2 {
			return fmt.Errorf("rec stop needs a file name")
		}
		return e.recorder.Stop(args[1])
	}
	return fmt.Errorf("unknown rec action: %s", args[0])
}

func help(e *env, args []string) error {
	for _, cmd := range commands {
		fmt.Println(cmd.help)
	}
	return nil
}

func parseByte(s string, max uint8) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > int(max) {
		return 0, fmt.Errorf("out of range 0-%d: %v", max, v)
	}
	return uint8(v), nil
}
