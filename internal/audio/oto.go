package audio

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoContext is created once per process, as oto allows no more.
var otoContext *oto.Context

func initOtoContext(sampleRate, bufferFrames int) error {
	if otoContext != nil {
		return nil
	}
	otoContextOptions := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
	}
	ctx, readyChan, err := oto.NewContext(otoContextOptions)
	if err != nil {
		return err
	}
	<-readyChan
	otoContext = ctx
	return nil
}

// OtoSink pulls float32 frames from a Source through an oto player.
type OtoSink struct {
	player *oto.Player
}

func NewOtoSink(src Source, bufferFrames int) (*OtoSink, error) {
	if err := initOtoContext(src.SampleRate(), bufferFrames); err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	player := otoContext.NewPlayer(src)
	player.SetBufferSize(bufferFrames * 8)
	return &OtoSink{player: player}, nil
}

func (s *OtoSink) Start() error {
	s.player.Play()
	return s.player.Err()
}

func (s *OtoSink) Close() error {
	s.player.Pause()
	return s.player.Close()
}
