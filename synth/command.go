package synth

// Command is a control message for the engine. Commands are plain values
// produced on the control thread and consumed exactly once by the audio
// thread at the next block boundary. The one exception to plain data is
// StartSequence, which borrows a read-only Sequence the caller keeps alive.
type Command interface {
	isCommand()
}

// NoteOn starts a note, or releases it when Velocity is zero. Velocity runs
// 0-255 and scales the voice amplitude.
type NoteOn struct {
	Note     uint8
	Velocity uint8
}

// NoteOff releases every active voice sounding Note.
type NoteOff struct {
	Note uint8
}

// ControlChange carries an external controller event. Controllers 7 and 11
// set the filter cutoff, mapping [0,127] exponentially onto [20 Hz, 24 kHz].
type ControlChange struct {
	Controller uint8
	Value      uint8
}

// SetFilterCutoff sets the low-pass cutoff on the base instrument and every
// active voice.
type SetFilterCutoff struct {
	Hz float64
}

// Param identifies one instrument parameter for live patching.
type Param int

const (
	ParamAttack Param = iota
	ParamDecay
	ParamSustain
	ParamRelease
	ParamVolume
	ParamPulseWidth
	ParamFreqMultiplier
	ParamVibratoRate
	ParamVibratoDepth
)

// SetParam patches one parameter on the base instrument and on every voice
// currently playing it.
type SetParam struct {
	Param Param
	Value float64
}

// SetOscillator switches the oscillator algorithm used from the next block on.
type SetOscillator struct {
	Kind OscKind
}

// StartSequence begins sample-accurate playback of a parsed event timeline.
// The engine reads Seq but never writes it; the caller must keep it alive
// until playback ends.
type StartSequence struct {
	Seq *Sequence
}

// StopSequence clears the active timeline and releases all voices.
type StopSequence struct{}

// SetDelayTime sets the delay line's time in seconds.
type SetDelayTime struct {
	Seconds float64
}

// SetDelayFeedback sets the delay line's feedback amount.
type SetDelayFeedback struct {
	Amount float64
}

func (NoteOn) isCommand()           {}
func (NoteOff) isCommand()          {}
func (ControlChange) isCommand()    {}
func (SetFilterCutoff) isCommand()  {}
func (SetParam) isCommand()         {}
func (SetOscillator) isCommand()    {}
func (StartSequence) isCommand()    {}
func (StopSequence) isCommand()     {}
func (SetDelayTime) isCommand()     {}
func (SetDelayFeedback) isCommand() {}
