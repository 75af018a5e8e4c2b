package synth

// SeqEventKind discriminates timeline event payloads.
type SeqEventKind int

const (
	// SeqNoteOn starts a note; velocity 0 means release, mirroring the live
	// command path.
	SeqNoteOn SeqEventKind = iota
	// SeqNoteOff releases every voice sounding the note.
	SeqNoteOff
	// SeqTempo changes the tempo; Tempo holds microseconds per quarter note.
	SeqTempo
	// SeqTimeSignature is informational only; playback just advances past it.
	SeqTimeSignature
	// SeqEndOfTrack stops playback and releases all voices.
	SeqEndOfTrack
)

// SeqEvent is one timeline entry. Delta is the event's distance from the
// previous event in ticks; it is never negative.
type SeqEvent struct {
	Delta uint32
	Kind  SeqEventKind

	Note     uint8   // SeqNoteOn, SeqNoteOff
	Velocity uint8   // SeqNoteOn
	Tempo    float64 // SeqTempo, microseconds per quarter note
}

// Sequence is a pre-parsed, read-only event timeline for one track. The
// engine borrows it for the duration of playback and never mutates it; the
// caller guarantees it outlives the playback.
type Sequence struct {
	// Division is the file's ticks-per-quarter-note resolution.
	Division uint16
	Events   []SeqEvent
}

// defaultTempo is the bootstrap tempo before any SeqTempo event: 500000
// microseconds per quarter note, i.e. 120 BPM.
const defaultTempo = 500000

// samplesPerTick converts the current tempo into the sample count of one
// timeline tick.
func samplesPerTick(tempo float64, division uint16, sampleRate float64) float64 {
	if division == 0 {
		division = 960
	}
	return sampleRate * tempo / 1e6 / float64(division)
}
