// Package synth is a real-time polyphonic synthesizer. A control thread
// pushes Commands through a lock-free queue; the audio thread drains them at
// block boundaries, schedules timeline events sample-accurately, and renders
// a fixed pool of voices through a delay and DC-blocking post chain. The
// render path never blocks, locks, or allocates.
package synth

import (
	"math"
	"sync"
)

// Frame is one stereo sample.
type Frame [2]float64

const (
	numVoices        = 24
	commandQueueSize = 256
	readbackSize     = 1 << 14
	chunkSize        = 1024

	// mixVolume leaves headroom for the full voice pool.
	mixVolume = 0.2
)

// Engine owns the voice pool and all render-path state. Construct one with
// NewEngine and call Render from the audio callback; the command API may be
// used from any number of control goroutines.
type Engine struct {
	sampleRate float64

	commands *Ring[Command]
	pushMu   sync.Mutex // serializes producers onto the SPSC command ring
	readback *Ring[Frame]
	cmdBuf   []Command

	voices  [numVoices]voice
	inst    Instrument
	osc     OscKind
	cutoff  float64 // per-voice low-pass cutoff in Hz, 0 bypasses
	scratch []float64

	delay *delayLine
	dc    [2]dcBlocker

	// timeline playback state
	seq       *Sequence
	seqPos    int
	untilNext float64 // samples until the event at seqPos is due
	sptick    float64 // samples per timeline tick at the current tempo
}

func NewEngine(sampleRate float64) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		commands:   NewRing[Command](commandQueueSize),
		readback:   NewRing[Frame](readbackSize),
		cmdBuf:     make([]Command, commandQueueSize),
		inst:       DefaultInstrument(),
		osc:        OscPolyBLEP,
		scratch:    make([]float64, chunkSize),
		delay:      newDelayLine(sampleRate),
	}
	return e
}

func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Push enqueues a command for the audio thread. It fails with ErrQueueFull
// when the audio thread is behind; the caller may drop or retry. Concurrent
// callers are serialized here so the ring keeps a single producer.
func (e *Engine) Push(cmd Command) error {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()
	return e.commands.Push(cmd)
}

// PlayNote starts a note at the given velocity (0-255); velocity 0 releases
// every voice sounding the note.
func (e *Engine) PlayNote(note, velocity uint8) error {
	return e.Push(NoteOn{Note: note, Velocity: velocity})
}

func (e *Engine) SetFilterCutoff(hz float64) error {
	return e.Push(SetFilterCutoff{Hz: hz})
}

func (e *Engine) SetOscillator(kind OscKind) error {
	return e.Push(SetOscillator{Kind: kind})
}

func (e *Engine) SetParam(p Param, value float64) error {
	return e.Push(SetParam{Param: p, Value: value})
}

// StartSequence begins playback of seq. The engine only reads seq; the
// caller must keep it alive until playback stops.
func (e *Engine) StartSequence(seq *Sequence) error {
	return e.Push(StartSequence{Seq: seq})
}

func (e *Engine) StopSequence() error {
	return e.Push(StopSequence{})
}

// DrainFrames moves rendered frames from the readback ring into out and
// returns the filled prefix. Frames the consumer doesn't collect in time are
// dropped by the renderer, never buffered against it.
func (e *Engine) DrainFrames(out []Frame) []Frame {
	return e.readback.PopAll(out)
}

// Render fills one output block. It runs on the audio thread and must return
// before the host's deadline: no blocking, no locks, no allocation.
func (e *Engine) Render(out []Frame) {
	e.drainCommands()

	for i := range out {
		out[i] = Frame{}
	}

	pos := 0
	for pos < len(out) {
		n := min(len(out)-pos, chunkSize)
		if e.seq != nil {
			if wait := int(math.Ceil(e.untilNext)); wait < n {
				n = wait
			}
			// Always make progress, even when an event is due right now.
			if n < 1 {
				n = 1
			}
		}

		e.renderChunk(out[pos : pos+n])

		if e.seq != nil {
			e.untilNext -= float64(n)
			for e.seq != nil && e.untilNext <= 0 {
				e.applySeqEvent()
			}
		}
		pos += n
	}

	for i := range out {
		out[i][0] = e.dc[0].tick(out[i][0])
		out[i][1] = e.dc[1].tick(out[i][1])
	}

	for i := range e.voices {
		if e.voices[i].active && e.voices[i].playingTime < math.MaxUint32 {
			e.voices[i].playingTime++
		}
	}

	// Readback is lossy: if the visualization side is behind, the block is
	// simply dropped.
	_ = e.readback.PushAll(out)
}

// renderChunk renders every active voice into the scratch buffer, mixes the
// result into out, and runs the delay send.
func (e *Engine) renderChunk(out []Frame) {
	scratch := e.scratch[:len(out)]
	for i := range scratch {
		scratch[i] = 0
	}
	for i := range e.voices {
		if e.voices[i].active {
			e.voices[i].render(e.osc, scratch, e.sampleRate)
		}
	}
	for i := range out {
		mixed := scratch[i] * mixVolume
		out[i][0] += mixed
		out[i][1] += mixed
		wet := e.delay.tick(out[i])
		out[i][0] += wet[0]
		out[i][1] += wet[1]
	}
}

func (e *Engine) drainCommands() {
	for {
		cmds := e.commands.PopAll(e.cmdBuf)
		for _, cmd := range cmds {
			e.apply(cmd)
		}
		if len(cmds) < len(e.cmdBuf) {
			return
		}
	}
}

func (e *Engine) apply(cmd Command) {
	switch c := cmd.(type) {
	case NoteOn:
		e.noteOn(c.Note, c.Velocity)
	case NoteOff:
		e.releaseNote(c.Note)
	case ControlChange:
		e.controlChange(c.Controller, c.Value)
	case SetFilterCutoff:
		e.setCutoff(c.Hz)
	case SetParam:
		e.inst.set(c.Param, c.Value)
		for i := range e.voices {
			if e.voices[i].active {
				e.voices[i].inst.set(c.Param, c.Value)
			}
		}
	case SetOscillator:
		e.osc = c.Kind
	case StartSequence:
		e.startSequence(c.Seq)
	case StopSequence:
		e.endSequence()
	case SetDelayTime:
		e.delay.setTime(c.Seconds)
	case SetDelayFeedback:
		e.delay.setFeedback(c.Amount)
	}
}

// noteOn allocates a voice, stealing one if the pool is exhausted. Velocity
// zero is a release, the same convention as the live command API.
func (e *Engine) noteOn(note, velocity uint8) {
	if velocity == 0 {
		e.releaseNote(note)
		return
	}
	idx := e.allocVoice()
	e.voices[idx].start(note, velocity, e.inst, e.cutoff, e.sampleRate)
}

// releaseNote opens the gate on every voice sounding note, not just the most
// recent: overlapping retriggers of the same pitch are all released together.
func (e *Engine) releaseNote(note uint8) {
	for i := range e.voices {
		if e.voices[i].active && e.voices[i].note == note {
			e.voices[i].release()
		}
	}
}

// allocVoice picks the slot for a new note. Voices whose envelope has died
// away win, longest-playing first; under pressure the longest-playing voice
// is stolen regardless of its gate. This protects freshly triggered notes
// and recycles long-idle or long-sustained ones.
func (e *Engine) allocVoice() int {
	best := -1
	bestTime := int64(-1)
	for i := range e.voices {
		v := &e.voices[i]
		if (!v.active || v.env.idle()) && int64(v.playingTime) > bestTime {
			best, bestTime = i, int64(v.playingTime)
		}
	}
	if best >= 0 {
		return best
	}
	for i := range e.voices {
		if int64(e.voices[i].playingTime) > bestTime {
			best, bestTime = i, int64(e.voices[i].playingTime)
		}
	}
	if best < 0 {
		// Unreachable with a non-empty pool; degrade to a fixed slot rather
		// than aborting the render.
		best = 0
	}
	return best
}

func (e *Engine) setCutoff(hz float64) {
	e.cutoff = hz
	for i := range e.voices {
		if e.voices[i].active {
			e.voices[i].setCutoff(hz, e.sampleRate)
		}
	}
}

// Controllers understood by controlChange. 11 is expression, 7 channel
// volume; both are mapped onto the filter cutoff here.
const (
	ccVolume     = 7
	ccExpression = 11
)

const (
	ccCutoffMin = 20.0
	ccCutoffMax = 24000.0
)

func (e *Engine) controlChange(controller, value uint8) {
	switch controller {
	case ccVolume, ccExpression:
		if value > 127 {
			value = 127
		}
		hz := ccCutoffMin * math.Pow(ccCutoffMax/ccCutoffMin, float64(value)/127)
		e.setCutoff(hz)
	}
}

func (e *Engine) startSequence(seq *Sequence) {
	if seq == nil || len(seq.Events) == 0 {
		e.endSequence()
		return
	}
	// notes gated by a previous timeline would never see their note-offs
	e.releaseAll()
	e.seq = seq
	e.seqPos = 0
	e.sptick = samplesPerTick(defaultTempo, seq.Division, e.sampleRate)
	e.untilNext = float64(seq.Events[0].Delta) * e.sptick
}

// endSequence stops playback: all voices are released and the timeline
// reference is dropped.
func (e *Engine) endSequence() {
	e.seq = nil
	e.seqPos = 0
	e.untilNext = 0
	e.releaseAll()
}

func (e *Engine) releaseAll() {
	for i := range e.voices {
		if e.voices[i].active {
			e.voices[i].release()
		}
	}
}

// applySeqEvent applies the due event at seqPos and advances the cursor. An
// out-of-range cursor is an implicit end of track.
func (e *Engine) applySeqEvent() {
	if e.seqPos >= len(e.seq.Events) {
		e.endSequence()
		return
	}
	ev := e.seq.Events[e.seqPos]
	switch ev.Kind {
	case SeqNoteOn:
		e.noteOn(ev.Note, ev.Velocity)
	case SeqNoteOff:
		e.releaseNote(ev.Note)
	case SeqTempo:
		e.sptick = samplesPerTick(ev.Tempo, e.seq.Division, e.sampleRate)
	case SeqTimeSignature:
		// informational only
	case SeqEndOfTrack:
		e.endSequence()
		return
	}
	e.seqPos++
	if e.seqPos >= len(e.seq.Events) {
		e.endSequence()
		return
	}
	e.untilNext += float64(e.seq.Events[e.seqPos].Delta) * e.sptick
}
