package synth

import (
	"math"
	"testing"
)

func TestSamplesPerTick(t *testing.T) {
	// 120 BPM at 480 ticks per quarter and 48kHz: one quarter note is half
	// a second, so a tick is 50 samples
	if want, got := 50.0, samplesPerTick(defaultTempo, 480, 48000); math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
	// doubling the tempo halves the tick
	if want, got := 25.0, samplesPerTick(250000, 480, 48000); math.Abs(want-got) > 1e-9 {
		t.Errorf("want %v, got %v", want, got)
	}
	// a zero division falls back to a sane resolution instead of dividing
	// by zero
	got := samplesPerTick(defaultTempo, 0, 48000)
	if math.IsInf(got, 0) || math.IsNaN(got) || got <= 0 {
		t.Errorf("bad fallback for zero division: %v", got)
	}
}
