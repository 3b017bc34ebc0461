package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cellux/garden"
	"github.com/cellux/garden/internal/audio"
	"github.com/mitchellh/go-homedir"
)

// cmdRender renders a program offline into a wave file.
func cmdRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	expr := fs.String("e", "", "program text")
	output := fs.String("o", "", "output .wav file")
	seconds := fs.Float64("d", 5, "length in seconds")
	fs.Parse(args)

	if *output == "" || !(*seconds > 0) {
		fmt.Fprintf(os.Stderr, "%s: render needs -o and a positive -d\n", appName)
		return 2
	}
	text, filename, err := programSource(fs, *expr, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}
	s, err := newSession(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	defer s.engine.Close()
	s.load(text, filename)

	sr := s.engine.SampleRate()
	frames := make([]garden.Frame, int(math.Round(*seconds*float64(sr))))
	for done := 0; done < len(frames); done += s.cfg.BufferFrames {
		s.engine.Render(frames[done:min(done+s.cfg.BufferFrames, len(frames))])
	}

	path, err := homedir.Expand(*output)
	if err != nil {
		s.logger.Error("render", "err", err)
		return 1
	}
	f, err := os.Create(path)
	if err != nil {
		s.logger.Error("render", "err", err)
		return 1
	}
	if err := audio.WriteWAV(f, frames, sr); err != nil {
		f.Close()
		s.logger.Error("render", "file", path, "err", err)
		return 1
	}
	if err := f.Close(); err != nil {
		s.logger.Error("render", "file", path, "err", err)
		return 1
	}
	fmt.Printf("%s: %d frames, peak %.3f, dominant %.1f Hz\n",
		path, len(frames), audio.Peak(frames), audio.DominantFrequency(frames, sr))
	return 0
}
