package audio

import (
	"fmt"

	"github.com/cellux/garden"
	pa "github.com/gordonklaus/portaudio"
)

// PortaudioSink renders from a Source inside the portaudio callback.
type PortaudioSink struct {
	src    Source
	buf    []garden.Frame
	stream *pa.Stream
}

func NewPortaudioSink(src Source, bufferFrames int) (*PortaudioSink, error) {
	if bufferFrames <= 0 {
		bufferFrames = garden.DefaultBufferFrames
	}
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s := &PortaudioSink{
		src: src,
		buf: make([]garden.Frame, bufferFrames),
	}
	stream, err := pa.OpenDefaultStream(0, 2, float64(src.SampleRate()), bufferFrames, s.process)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s.stream = stream
	return s, nil
}

// process fills the non-interleaved output buffers.
func (s *PortaudioSink) process(out [][]float32) {
	left, right := out[0], out[1]
	for done := 0; done < len(left); {
		n := min(len(left)-done, len(s.buf))
		buf := s.buf[:n]
		s.src.Render(buf)
		for i, f := range buf {
			left[done+i] = float32(f[0])
			right[done+i] = float32(f[1])
		}
		done += n
	}
}

func (s *PortaudioSink) Start() error {
	return s.stream.Start()
}

func (s *PortaudioSink) Close() error {
	err := s.stream.Stop()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	if terr := pa.Terminate(); err == nil {
		err = terr
	}
	return err
}
