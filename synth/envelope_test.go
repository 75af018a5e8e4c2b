package synth

import (
	"math"
	"testing"
)

const testSampleRate = 48000

func TestEnvelopeAttackDecaySustain(t *testing.T) {
	inst := DefaultInstrument()
	var env envelope

	// the default attack is 0.1ms, so full scale must be reached within a
	// handful of samples
	attackWindow := int(inst.Attack*testSampleRate) + 32
	reached := false
	for n := 0; n < attackWindow; n++ {
		if env.tick(&inst, 1, testSampleRate) > 0.99 {
			reached = true
			break
		}
	}
	if !reached {
		t.Fatalf("envelope did not reach full scale within %d samples", attackWindow)
	}
	if want, got := envDecay, env.mode; want != got {
		t.Fatalf("want decay mode after attack, got %v", got)
	}

	// after 1s, output has settled at the sustain level
	var out float64
	for n := 0; n < testSampleRate; n++ {
		out = env.tick(&inst, 1, testSampleRate)
	}
	if math.Abs(out-inst.Sustain) > 0.05 {
		t.Errorf("want output near sustain %v, got %v", inst.Sustain, out)
	}

	// holding the gate forever keeps it there
	for n := 0; n < testSampleRate; n++ {
		out = env.tick(&inst, 1, testSampleRate)
	}
	if math.Abs(out-inst.Sustain) > 0.001 {
		t.Errorf("sustain drifted: want %v, got %v", inst.Sustain, out)
	}
}

func TestEnvelopeRelease(t *testing.T) {
	inst := DefaultInstrument()
	var env envelope

	for n := 0; n < testSampleRate; n++ {
		env.tick(&inst, 1, testSampleRate)
	}

	// release time bounds how long the tail may take to fall below 0.01:
	// ln(sustain/0.01) time constants, padded by one block
	bound := int(inst.Release*math.Log(inst.Sustain/0.01)*testSampleRate) + 512
	silent := -1
	for n := 0; n < bound; n++ {
		if env.tick(&inst, 0, testSampleRate) == 0 {
			silent = n
			break
		}
	}
	if silent < 0 {
		t.Fatalf("envelope still audible after %d release samples", bound)
	}

	// idle output is exactly zero from then on
	for n := 0; n < 1000; n++ {
		if got := env.tick(&inst, 0, testSampleRate); got != 0 {
			t.Fatalf("idle envelope output not zero: %v", got)
		}
	}
}

func TestEnvelopeRetrigger(t *testing.T) {
	inst := DefaultInstrument()
	var env envelope

	for n := 0; n < testSampleRate/2; n++ {
		env.tick(&inst, 1, testSampleRate)
	}
	for n := 0; n < 100; n++ {
		env.tick(&inst, 0, testSampleRate)
	}
	if want, got := envRelease, env.mode; want != got {
		t.Fatalf("want release mode, got %v", got)
	}

	// a fresh gate rise during release restarts the attack
	env.tick(&inst, 1, testSampleRate)
	if want, got := envAttack, env.mode; want != got {
		t.Errorf("want attack mode after retrigger, got %v", got)
	}
}
