package main

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/pmont/chime/synth"
)

// loadSequence parses a standard MIDI file and converts one track into the
// engine's timeline form. Only the events the engine understands are kept;
// everything else still contributes its delta time so timing stays intact.
func loadSequence(path string, track int) (*synth.Sequence, error) {
	file, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if track < 0 || track >= len(file.Tracks) {
		return nil, fmt.Errorf("%s has no track %d (%d tracks)", path, track, len(file.Tracks))
	}
	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%s: SMPTE time format is not supported", path)
	}

	seq := &synth.Sequence{Division: ticks.Resolution()}

	// delta ticks owed by skipped events, folded into the next kept one
	var carry uint32

	for _, ev := range file.Tracks[track] {
		out := synth.SeqEvent{Delta: carry + ev.Delta}

		var ch, key, vel uint8
		var bpm float64
		var num, denom, clocks, dsq uint8
		msg := ev.Message
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			out.Kind = synth.SeqNoteOn
			out.Note = key
			// MIDI velocity is 0-127, the engine's range is 0-255
			out.Velocity = vel * 2
		case msg.GetNoteEnd(&ch, &key):
			out.Kind = synth.SeqNoteOff
			out.Note = key
		case msg.GetMetaTempo(&bpm):
			out.Kind = synth.SeqTempo
			out.Tempo = 60e6 / bpm
		case msg.GetMetaTimeSig(&num, &denom, &clocks, &dsq):
			out.Kind = synth.SeqTimeSignature
		case msg.Is(smf.MetaEndOfTrackMsg):
			out.Kind = synth.SeqEndOfTrack
		default:
			carry += ev.Delta
			continue
		}
		carry = 0
		seq.Events = append(seq.Events, out)
	}

	logger.Info("loaded sequence", "file", path, "track", track,
		"events", len(seq.Events), "division", seq.Division)
	return seq, nil
}
