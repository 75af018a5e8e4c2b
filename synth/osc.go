package synth

import (
	"fmt"
	"math"
)

// OscKind selects the oscillator algorithm shared by all voices.
type OscKind int

const (
	// OscNaive is a phase-threshold pulse. Cheapest, aliases strongly above
	// a few kHz.
	OscNaive OscKind = iota
	// OscAdditive sums odd harmonics below Nyquist, weighted 1/harmonic.
	// Cost scales inversely with pitch.
	OscAdditive
	// OscPolyBLEP is a naive pulse with polynomial band-limited step
	// corrections at each polarity transition. O(1) per sample; the default.
	OscPolyBLEP
)

func (k OscKind) String() string {
	switch k {
	case OscNaive:
		return "naive"
	case OscAdditive:
		return "additive"
	case OscPolyBLEP:
		return "polyblep"
	}
	return fmt.Sprintf("OscKind(%d)", int(k))
}

func ParseOscKind(s string) (OscKind, error) {
	switch s {
	case "naive":
		return OscNaive, nil
	case "additive":
		return OscAdditive, nil
	case "polyblep":
		return OscPolyBLEP, nil
	}
	return 0, fmt.Errorf("unknown oscillator: %q", s)
}

const maxHarmonics = 50

// oscSample evaluates one oscillator sample at the given phase in [0,1).
// inc is the per-sample phase increment, needed by the PolyBLEP corrections.
func oscSample(kind OscKind, inst *Instrument, phase, inc float64) float64 {
	switch kind {
	case OscNaive:
		if phase < inst.PulseWidth {
			return 1
		}
		return -1

	case OscAdditive:
		// Fourier series of a square wave, truncated below Nyquist. inc is
		// frequency/sampleRate, so harmonic h stays band-limited while
		// h*inc < 0.5.
		var sum float64
		for h := 1; h <= maxHarmonics*2; h += 2 {
			if float64(h)*inc >= 0.5 {
				break
			}
			sum += math.Sin(2*math.Pi*float64(h)*phase) / float64(h)
		}
		return sum * 4 / math.Pi

	case OscPolyBLEP:
		s := -1.0
		if phase < inst.PulseWidth {
			s = 1.0
		}
		s += polyBLEP(phase, inc)
		fall := phase - inst.PulseWidth
		if fall < 0 {
			fall++
		}
		return s - polyBLEP(fall, inc)
	}
	return 0
}

// polyBLEP returns the band-limited step correction for a rising edge at
// phase 0. t is the phase in [0,1), dt the phase increment per sample; the
// correction is nonzero only within one sample of the edge.
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// sineLUT backs the vibrato phase perturbation. Linear interpolation between
// entries is plenty at vibrato rates.
const sineLUTSize = 1024

var sineLUT [sineLUTSize + 1]float64

func init() {
	for i := range sineLUT {
		sineLUT[i] = math.Sin(2 * math.Pi * float64(i) / sineLUTSize)
	}
}

func lutSin(phase float64) float64 {
	phase -= math.Floor(phase)
	pos := phase * sineLUTSize
	i := int(pos)
	frac := pos - float64(i)
	return sineLUT[i] + frac*(sineLUT[i+1]-sineLUT[i])
}
