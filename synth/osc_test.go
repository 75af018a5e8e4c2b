package synth

import (
	"math"
	"testing"
)

func TestOscNaive(t *testing.T) {
	inst := DefaultInstrument()
	if want, got := 1.0, oscSample(OscNaive, &inst, 0.25, 0.01); want != got {
		t.Errorf("phase 0.25: want %v, got %v", want, got)
	}
	if want, got := -1.0, oscSample(OscNaive, &inst, 0.75, 0.01); want != got {
		t.Errorf("phase 0.75: want %v, got %v", want, got)
	}

	inst.PulseWidth = 0.25
	if want, got := -1.0, oscSample(OscNaive, &inst, 0.5, 0.01); want != got {
		t.Errorf("pw 0.25, phase 0.5: want %v, got %v", want, got)
	}
}

func TestPolyBLEPCorrectionWindow(t *testing.T) {
	const dt = 0.01
	if got := polyBLEP(0.5, dt); got != 0 {
		t.Errorf("correction away from edges should be zero: got %v", got)
	}
	if got := polyBLEP(0, dt); got != -1 {
		t.Errorf("correction at the edge should be -1: got %v", got)
	}
	if got := polyBLEP(1-dt/2, dt); got <= 0 || got > 1 {
		t.Errorf("trailing correction out of range: %v", got)
	}
}

func TestPolyBLEPBounded(t *testing.T) {
	inst := DefaultInstrument()
	const inc = 2000.0 / testSampleRate
	phase := 0.0
	for n := 0; n < testSampleRate; n++ {
		s := oscSample(OscPolyBLEP, &inst, phase, inc)
		if math.Abs(s) > 2 {
			t.Fatalf("sample out of range at %d: %v", n, s)
		}
		phase += inc
		if phase >= 1 {
			phase--
		}
	}
}

func TestAdditiveHarmonicCap(t *testing.T) {
	inst := DefaultInstrument()

	// at this frequency only the fundamental fits below Nyquist, so the
	// output is a pure sine scaled by 4/pi
	const inc = 10000.0 / testSampleRate
	for _, phase := range []float64{0.1, 0.25, 0.7} {
		want := 4 / math.Pi * math.Sin(2*math.Pi*phase)
		got := oscSample(OscAdditive, &inst, phase, inc)
		if math.Abs(want-got) > 1e-9 {
			t.Errorf("phase %v: want %v, got %v", phase, want, got)
		}
	}
}

func TestAdditiveBandLimit(t *testing.T) {
	inst := DefaultInstrument()

	// at a low pitch the series is capped at maxHarmonics terms, all below
	// Nyquist; output must stay bounded
	const inc = 55.0 / testSampleRate
	phase := 0.0
	for n := 0; n < 4096; n++ {
		s := oscSample(OscAdditive, &inst, phase, inc)
		if math.Abs(s) > 2.5 {
			t.Fatalf("additive sample out of range at %d: %v", n, s)
		}
		phase += inc
	}
}

func TestLutSin(t *testing.T) {
	for _, phase := range []float64{0, 0.125, 0.25, 0.5, 0.75, 0.999} {
		want := math.Sin(2 * math.Pi * phase)
		got := lutSin(phase)
		if math.Abs(want-got) > 1e-4 {
			t.Errorf("phase %v: want %v, got %v", phase, want, got)
		}
	}
	// out-of-range phases wrap
	if want, got := lutSin(0.25), lutSin(1.25); math.Abs(want-got) > 1e-12 {
		t.Errorf("wrap: want %v, got %v", want, got)
	}
}

func TestParseOscKind(t *testing.T) {
	for _, kind := range []OscKind{OscNaive, OscAdditive, OscPolyBLEP} {
		got, err := ParseOscKind(kind.String())
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		if got != kind {
			t.Errorf("round trip: want %v, got %v", kind, got)
		}
	}
	if _, err := ParseOscKind("triangle"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
