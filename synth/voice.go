package synth

import "math"

// Instrument is the patch a voice is started with. Parameters are copied at
// note-on, so later edits to the engine's base instrument don't retroactively
// change sounding notes except through an explicit SetParam command.
type Instrument struct {
	Attack  float64 // seconds
	Decay   float64 // seconds
	Sustain float64 // level 0-1
	Release float64 // seconds
	Volume  float64

	PulseWidth     float64 // fraction of the cycle spent high, 0-1
	FreqMultiplier float64

	VibratoRate  float64 // Hz
	VibratoDepth float64 // phase perturbation amount
}

// DefaultInstrument returns the patch the engine boots with.
func DefaultInstrument() Instrument {
	return Instrument{
		Attack:         0.0001,
		Decay:          0.2,
		Sustain:        0.5,
		Release:        0.2,
		Volume:         1,
		PulseWidth:     0.5,
		FreqMultiplier: 1,
		VibratoRate:    5,
		VibratoDepth:   0,
	}
}

func (inst *Instrument) set(p Param, v float64) {
	switch p {
	case ParamAttack:
		inst.Attack = v
	case ParamDecay:
		inst.Decay = v
	case ParamSustain:
		inst.Sustain = v
	case ParamRelease:
		inst.Release = v
	case ParamVolume:
		inst.Volume = v
	case ParamPulseWidth:
		inst.PulseWidth = v
	case ParamFreqMultiplier:
		inst.FreqMultiplier = v
	case ParamVibratoRate:
		inst.VibratoRate = v
	case ParamVibratoDepth:
		inst.VibratoDepth = v
	}
}

// voice is one sounding note. Voices live in a fixed array owned by the
// engine; allocation just reinitializes a slot.
type voice struct {
	active bool
	note   uint8
	freq   float64 // target frequency in Hz, before FreqMultiplier
	amp    float64 // velocity-derived amplitude
	gate   float64 // 1 while held, 0 after release

	phase    float64
	vibPhase float64

	// playingTime counts render calls since allocation, saturating, and
	// drives the stealing policy.
	playingTime uint32

	env      envelope
	filter   valp1
	filterOn bool

	inst Instrument
}

const lowestNote = 9

// noteFreq converts a MIDI-style note number to an equal-tempered frequency.
// Notes below 9 are clamped; 69 is concert A at 440 Hz.
func noteFreq(note uint8) float64 {
	if note < lowestNote {
		note = lowestNote
	}
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// start (re)initializes the slot for a new note. velocity runs 0-255.
func (v *voice) start(note uint8, velocity uint8, inst Instrument, cutoff, sampleRate float64) {
	v.active = true
	v.note = note
	v.freq = noteFreq(note)
	v.amp = float64(velocity) / 255
	v.gate = 1
	v.phase = 0
	v.vibPhase = 0
	v.playingTime = 0
	v.inst = inst
	v.env.trigger(&v.inst, sampleRate)
	v.filter.reset()
	v.setCutoff(cutoff, sampleRate)
}

func (v *voice) release() {
	v.gate = 0
}

func (v *voice) setCutoff(hz, sampleRate float64) {
	v.filterOn = hz > 0
	if v.filterOn {
		v.filter.setCutoff(hz, sampleRate)
	}
}

// render adds the voice's next len(dst) samples into dst. The slot frees
// itself once the envelope has fully died away after release.
func (v *voice) render(kind OscKind, dst []float64, sampleRate float64) {
	inc := v.freq * v.inst.FreqMultiplier / sampleRate
	vibInc := v.inst.VibratoRate / sampleRate

	for i := range dst {
		phase := v.phase
		if v.inst.VibratoDepth > 0 {
			phase += v.inst.VibratoDepth * lutSin(v.vibPhase)
			phase -= math.Floor(phase)
		}

		s := oscSample(kind, &v.inst, phase, inc)
		s *= v.env.tick(&v.inst, v.gate, sampleRate) * v.amp * v.inst.Volume
		if v.filterOn {
			s = v.filter.tick(s)
		}
		dst[i] += s

		v.phase += inc
		if v.phase >= 1 {
			v.phase -= math.Floor(v.phase)
		}
		v.vibPhase += vibInc
		if v.vibPhase >= 1 {
			v.vibPhase--
		}
	}

	if v.gate == 0 && v.env.idle() {
		v.active = false
	}
}
