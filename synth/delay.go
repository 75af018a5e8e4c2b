package synth

import "math"

const maxDelaySeconds = 4

// delayLine is a feedback send-effect over stereo frames. The read position
// sits a fractional number of samples behind the write cursor; the output is
// reconstructed with 4-point cubic interpolation so the delay time can be
// changed smoothly without zipper noise.
type delayLine struct {
	buf        []Frame
	pos        int
	prev       Frame
	seconds    float64
	feedback   float64
	sampleRate float64
}

func newDelayLine(sampleRate float64) *delayLine {
	return &delayLine{
		buf:        make([]Frame, int(maxDelaySeconds*sampleRate)),
		seconds:    0.25,
		feedback:   0.35,
		sampleRate: sampleRate,
	}
}

func (d *delayLine) setTime(seconds float64) {
	d.seconds = math.Max(0, math.Min(seconds, maxDelaySeconds-1.0/d.sampleRate))
}

func (d *delayLine) setFeedback(amount float64) {
	d.feedback = math.Max(0, math.Min(amount, 0.99))
}

// at reads the buffer at an arbitrary offset, wrapping both directions.
func (d *delayLine) at(i int) Frame {
	n := len(d.buf)
	i %= n
	if i < 0 {
		i += n
	}
	return d.buf[i]
}

// tick writes one input frame (plus feedback from the previous output) and
// returns the delayed frame.
func (d *delayLine) tick(in Frame) Frame {
	for c := 0; c < 2; c++ {
		d.buf[d.pos][c] = in[c] + d.feedback*d.prev[c]
	}

	readPos := float64(d.pos) - d.seconds*d.sampleRate
	i := int(math.Floor(readPos))
	t := readPos - float64(i)

	xm1 := d.at(i - 1)
	x0 := d.at(i)
	x1 := d.at(i + 1)
	x2 := d.at(i + 2)

	var out Frame
	for c := 0; c < 2; c++ {
		out[c] = hermite4(t, xm1[c], x0[c], x1[c], x2[c])
	}

	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
	d.prev = out
	return out
}

// hermite4 is 4-point, 3rd-order Hermite interpolation between x0 and x1 at
// fraction t.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
