package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/peterh/liner"

	"github.com/cellux/garden"
)

const (
	historyFile = ".garden_history"
	prompt      = "garden> "
)

const replHelp = `Each line replaces the running program.
  :words    list operations
  :tables   list tables
  :stats    show swap counters
  :quit     exit
`

// lineReader yields input lines until io.EOF.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type linerReader struct {
	ln       *liner.State
	histPath string
}

func newLinerReader() *linerReader {
	r := &linerReader{ln: liner.NewLiner()}
	r.ln.SetCtrlCAborts(true)
	if home, err := homedir.Dir(); err == nil {
		r.histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(r.histPath); err == nil {
			_, _ = r.ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return r
}

func (r *linerReader) ReadLine() (string, error) {
	line, err := r.ln.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err == nil && strings.TrimSpace(line) != "" {
		r.ln.AppendHistory(line)
	}
	return line, err
}

func (r *linerReader) Close() error {
	if r.histPath != "" {
		if f, err := os.Create(r.histPath); err == nil {
			_, _ = r.ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.ln.Close()
}

type scanReader struct {
	sc *bufio.Scanner
}

func (r scanReader) ReadLine() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r scanReader) Close() error { return nil }

func newLineReader() lineReader {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return newLinerReader()
	}
	return scanReader{sc: bufio.NewScanner(os.Stdin)}
}

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	fs.Parse(args)

	s, err := newSession(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	defer s.close()
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

	r := newLineReader()
	defer r.Close()
	if err := repl(s, r, os.Stdout); err != nil {
		s.logger.Error("repl", "err", err)
		return 1
	}
	return 0
}

// repl reads lines from r until EOF or :quit. Every line that is not a
// command is compiled and replaces the running program.
func repl(s *session, r lineReader, w io.Writer) error {
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case line == ":quit":
			return nil
		case line == ":help":
			fmt.Fprint(w, replHelp)
		case line == ":words":
			fmt.Fprintln(w, strings.Join(garden.Words(), " "))
		case line == ":tables":
			for _, name := range s.engine.Tables().Names() {
				fmt.Fprintln(w, s.engine.Tables().Get(name))
			}
		case line == ":stats":
			ctl := s.engine.Controller()
			fmt.Fprintf(w, "swaps %d dropped %d\n", ctl.Swaps(), ctl.Dropped())
		case strings.HasPrefix(line, ":"):
			fmt.Fprintf(w, "unknown command %s, try :help\n", line)
		default:
			p := s.load(line, "")
			fmt.Fprintf(w, "%d instructions, %d diagnostics\n", p.Len(), len(p.Diagnostics))
		}
	}
}
