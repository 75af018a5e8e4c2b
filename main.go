package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/pmont/chime/synth"
)

// logger is the process-wide structured logger, configured in initLogger.
var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	var (
		sampleRate = flag.Float64("rate", 48000, "sample rate in Hz")
		bufferSize = flag.Int("buffer", 256, "frames per audio callback")
		midiIn     = flag.Bool("midi", false, "listen for MIDI input")
		seqFile    = flag.String("seq", "", "MIDI file to start playing")
		seqTrack   = flag.Int("track", 0, "track index to play from the MIDI file")
		run        = flag.String("run", "", "command script to run before the prompt")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	initLogger(*debug)

	engine := synth.NewEngine(*sampleRate)

	var commands []string
	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			commands = append(commands, strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			fatal(err)
		}
		f.Close()
	}

	if err := portaudio.Initialize(); err != nil {
		fatal(err)
	}
	defer portaudio.Terminate()

	frames := make([]synth.Frame, *bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, 2, *sampleRate, *bufferSize, func(out [][]float32) {
		engine.Render(frames)
		for i, frame := range frames {
			out[0][i] = float32(frame[0])
			out[1][i] = float32(frame[1])
		}
	})
	if err != nil {
		fatal(err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		fatal(err)
	}

	if *midiIn {
		watcher, err := newMIDIWatcher(engine)
		if err != nil {
			fatal(err)
		}
		defer watcher.Close()
	}

	env := &env{
		engine:   engine,
		recorder: newRecorder(engine),
	}
	defer env.recorder.Close()

	if *seqFile != "" {
		seq, err := loadSequence(*seqFile, *seqTrack)
		if err != nil {
			fatal(err)
		}
		env.hold(seq)
		if err := engine.StartSequence(seq); err != nil {
			fatal(err)
		}
	}

	for _, line := range commands {
		if line == "" {
			continue
		}
		if err := env.eval(line); err != nil {
			fatal(fmt.Errorf("%s: %w", line, err))
		}
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func fatal(err error) {
	logger.Error(err.Error())
	os.Exit(1)
}
