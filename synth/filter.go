package synth

import "math"

// valp1 is a trapezoidal (zero-delay-feedback) one-pole low-pass.
type valp1 struct {
	gain   float64
	memory float64
}

// setCutoff precomputes the integrator gain for a cutoff in Hz using
// bilinear-transform prewarping. Cutoffs at or above Nyquist are clamped;
// past it the prewarped tan goes negative and the filter diverges.
func (f *valp1) setCutoff(hz, sampleRate float64) {
	if max := 0.49 * sampleRate; hz > max {
		hz = max
	}
	g := math.Tan(math.Pi * hz / sampleRate)
	f.gain = g / (1 + g)
}

func (f *valp1) tick(in float64) float64 {
	v := (in - f.memory) * f.gain
	out := v + f.memory
	f.memory = out + v
	return out
}

func (f *valp1) reset() {
	f.memory = 0
}

// dcBlockR is the fixed pole of the DC-blocking high-pass. Close to 1 keeps
// the corner frequency low enough to leave audible content untouched.
const dcBlockR = 0.99

// dcBlocker removes the net offset that synthesis and mixing accumulate:
// y[n] = x[n] - x[n-1] + R*y[n-1].
type dcBlocker struct {
	prevIn  float64
	prevOut float64
}

func (f *dcBlocker) tick(in float64) float64 {
	out := in - f.prevIn + dcBlockR*f.prevOut
	f.prevIn = in
	f.prevOut = out
	return out
}
