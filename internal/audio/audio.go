// Package audio connects an engine to sound devices and audio files.
package audio

import (
	"io"

	"github.com/cellux/garden"
)

// Source is what the sinks play: *garden.Engine implements it.
type Source interface {
	io.Reader
	Render(buf []garden.Frame)
	SampleRate() int
}

// Sink plays a Source until closed.
type Sink interface {
	Start() error
	Close() error
}
