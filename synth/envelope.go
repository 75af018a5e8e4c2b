package synth

import "math"

type envMode int

const (
	envIdle envMode = iota
	envAttack
	envDecay
	envRelease
)

// envelope is a one-pole ADSR. Each stage filters a target value (1 during
// attack, the sustain level during decay, 0 during release) through a pole
// derived from that stage's time constant, giving the usual exponential
// curves from a single smoother.
type envelope struct {
	mode     envMode
	pole     float64
	out      float64
	prevGate float64
}

// envPole computes the smoothing pole for a time constant in seconds.
func envPole(tau, sampleRate float64) float64 {
	if tau <= 0 {
		return 0
	}
	return math.Exp(-1 / (tau * sampleRate))
}

// tick advances the envelope one sample against the gate (1 held, 0
// released) and returns the amplitude in [0,1]. Output is exactly 0 while
// idle.
func (e *envelope) tick(inst *Instrument, gate, sampleRate float64) float64 {
	if gate > e.prevGate && e.mode != envDecay {
		e.mode = envAttack
		// The 0.6 scale compensates for the one-pole's asymptotic approach,
		// so the curve reaches full scale near the nominal attack time.
		e.pole = envPole(inst.Attack*0.6, sampleRate)
	} else if gate < e.prevGate {
		e.mode = envRelease
		e.pole = envPole(inst.Release, sampleRate)
	}
	e.prevGate = gate

	switch e.mode {
	case envIdle:
		return 0
	case envAttack:
		e.out = 1 + (e.out-1)*e.pole
		if e.out > 0.99 {
			e.mode = envDecay
			e.pole = envPole(inst.Decay, sampleRate)
		}
	case envDecay:
		e.out = inst.Sustain + (e.out-inst.Sustain)*e.pole
		if e.out < 0.01 {
			e.mode = envIdle
			e.out = 0
		}
	case envRelease:
		e.out *= e.pole
		if e.out < 0.01 {
			e.mode = envIdle
			e.out = 0
		}
	}
	return e.out
}

func (e *envelope) idle() bool {
	return e.mode == envIdle
}

// trigger enters the attack stage directly. Used at note-on so a freshly
// allocated voice is never mistaken for a decayed one before its first tick.
func (e *envelope) trigger(inst *Instrument, sampleRate float64) {
	e.mode = envAttack
	e.pole = envPole(inst.Attack*0.6, sampleRate)
	e.out = 0
	e.prevGate = 1
}

