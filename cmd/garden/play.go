package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mitchellh/go-homedir"
)

const watchInterval = 250 * time.Millisecond

// programSource resolves the program text of play and render.
func programSource(fs *flag.FlagSet, expr string, fromClipboard bool) (text, filename string, err error) {
	switch {
	case expr != "":
		return expr, "<expr>", nil
	case fromClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", "", fmt.Errorf("clipboard: %w", err)
		}
		return text, "<clipboard>", nil
	case fs.NArg() == 1:
		path, err := homedir.Expand(fs.Arg(0))
		if err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	}
	return "", "", errors.New("expected a program file, -e or -clip")
}

func cmdPlay(args []string) int {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	expr := fs.String("e", "", "program text")
	fromClipboard := fs.Bool("clip", false, "read the program from the clipboard")
	watch := fs.Bool("watch", false, "reload the program file when it changes")
	seconds := fs.Float64("d", 0, "stop after this many seconds, 0 plays until interrupted")
	fs.Parse(args)

	text, filename, err := programSource(fs, *expr, *fromClipboard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}
	s, err := newSession(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	defer s.close()
	s.load(text, filename)

	sink, err := s.openSink()
	if err != nil {
		s.logger.Error("audio", "err", err)
		return 1
	}
	defer sink.Close()
	if err := sink.Start(); err != nil {
		s.logger.Error("audio", "err", err)
		return 1
	}
	s.logger.Info("playing", "source", filename, "backend", s.cfg.Backend, "sample-rate", s.engine.SampleRate())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*seconds*float64(time.Second)))
		defer cancel()
	}
	if *watch && fs.NArg() == 1 && *expr == "" && !*fromClipboard {
		go watchFile(ctx, filename, watchInterval, func(data []byte) {
			p := s.load(string(data), filename)
			s.logger.Info("reloaded", "file", filename, "instrs", p.Len(), "diagnostics", len(p.Diagnostics))
		}, func(err error) {
			s.logger.Warn("watch", "file", filename, "err", err)
		})
	}
	<-ctx.Done()
	return 0
}
