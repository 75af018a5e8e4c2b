package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	wav "github.com/youpy/go-wav"

	"github.com/pmont/chime/synth"
)

// recorder drains the engine's readback stream in the background and, while
// armed, collects frames for writing to a WAV file. Draining is lossy by
// design: if this goroutine falls behind, the renderer drops frames instead
// of waiting.
type recorder struct {
	engine *synth.Engine

	mu        sync.Mutex
	recording bool
	frames    []synth.Frame

	quit chan struct{}
	done chan struct{}
}

func newRecorder(engine *synth.Engine) *recorder {
	r := &recorder{
		engine: engine,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

func (r *recorder) drain() {
	defer close(r.done)
	buf := make([]synth.Frame, 4096)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			got := r.engine.DrainFrames(buf)
			r.mu.Lock()
			if r.recording {
				r.frames = append(r.frames, got...)
			}
			r.mu.Unlock()
		}
	}
}

// Start arms the recorder. Frames already sitting in the readback ring are
// from before the recording, so they are discarded by the draining loop
// before the flag flips.
func (r *recorder) Start() {
	r.mu.Lock()
	r.recording = true
	r.frames = r.frames[:0]
	r.mu.Unlock()
	logger.Info("recording started")
}

// Stop disarms the recorder and writes the captured frames as a 16-bit
// stereo WAV file.
func (r *recorder) Stop(path string) error {
	r.mu.Lock()
	frames := r.frames
	r.frames = nil
	r.recording = false
	r.mu.Unlock()

	if len(frames) == 0 {
		return fmt.Errorf("nothing recorded")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const scale = 1<<15 - 1
	w := wav.NewWriter(f, uint32(len(frames)), 2, uint32(r.engine.SampleRate()), 16)
	samples := make([]wav.Sample, len(frames))
	for i, frame := range frames {
		samples[i].Values[0] = int(clamp(frame[0]) * scale)
		samples[i].Values[1] = int(clamp(frame[1]) * scale)
	}
	if err := w.WriteSamples(samples); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("recording written", "file", path, "frames", len(frames))
	return nil
}

func (r *recorder) Close() {
	close(r.quit)
	<-r.done
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
