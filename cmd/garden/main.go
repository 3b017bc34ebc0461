package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cellux/garden"
	"github.com/cellux/garden/internal/audio"
	"github.com/cellux/garden/internal/config"
	"github.com/cellux/garden/internal/snapshot"
)

const (
	appName           = "garden"
	defaultConfigPath = "~/.garden.toml"
)

const usageText = `usage: garden <command> [flags]

commands:
  play [-config f] [-watch] [-d seconds] FILE | -e TEXT | -clip
  repl [-config f]
  render [-config f] -o out.wav [-d seconds] FILE | -e TEXT
  words
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch cmd := os.Args[1]; cmd {
	case "play":
		os.Exit(cmdPlay(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "render":
		os.Exit(cmdRender(os.Args[2:]))
	case "words":
		fmt.Println(strings.Join(garden.Words(), " "))
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

// session is an engine set up from a config file.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *garden.Engine
}

func newSession(configPath, logLevel string) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, err := garden.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	engine, err := garden.New(garden.Options{
		SampleRate:   cfg.SampleRate,
		BufferFrames: cfg.BufferFrames,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, engine: engine}
	if err := s.loadTables(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadTables restores the snapshot and preloads the configured files.
// Files take precedence over snapshot contents.
func (s *session) loadTables() error {
	tables := s.engine.Tables()
	sr := s.engine.SampleRate()
	for _, t := range s.cfg.Tables {
		frames, err := audio.LoadFile(t.File, sr)
		if err != nil {
			return err
		}
		if _, err := tables.Load(t.Name, frames); err != nil {
			return err
		}
		s.logger.Info("loaded table", "name", t.Name, "file", t.File, "frames", len(frames))
	}
	if s.cfg.Snapshot == "" {
		return nil
	}
	snap, err := snapshot.Load(s.cfg.Snapshot)
	if err != nil || snap == nil {
		return err
	}
	if err := snap.Restore(tables, sr); err != nil {
		if errors.Is(err, snapshot.ErrSampleRate) {
			return err
		}
		s.logger.Warn("snapshot", "err", err)
	}
	s.logger.Info("restored snapshot", "path", s.cfg.Snapshot, "tables", len(snap.Tables))
	return nil
}

// openSink creates the configured audio backend.
func (s *session) openSink() (audio.Sink, error) {
	switch s.cfg.Backend {
	case config.BackendPortaudio:
		return audio.NewPortaudioSink(s.engine, s.cfg.BufferFrames)
	default:
		return audio.NewOtoSink(s.engine, s.cfg.BufferFrames)
	}
}

// close stops the engine and saves the snapshot. The sink must be
// closed already.
func (s *session) close() {
	s.engine.Close()
	if s.cfg.Snapshot == "" {
		return
	}
	snap := snapshot.Capture(s.engine.Tables(), s.engine.SampleRate())
	if err := snapshot.Save(s.cfg.Snapshot, snap); err != nil {
		s.logger.Error("snapshot", "err", err)
		return
	}
	s.logger.Info("saved snapshot", "path", s.cfg.Snapshot, "tables", len(snap.Tables))
}

// load compiles text and submits it. Diagnostics are logged by the
// compiler.
func (s *session) load(text, filename string) *garden.Program {
	p := s.engine.CompileFile(text, filename)
	s.engine.Submit(p)
	return p
}
