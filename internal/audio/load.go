package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cellux/garden"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mitchellh/go-homedir"
)

// LoadFile decodes a .wav or .mp3 file into stereo frames at sampleRate.
// Mono files are duplicated to both channels, extra channels dropped.
func LoadFile(path string, sampleRate int) ([]garden.Frame, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var (
		samples   []float32
		nchannels int
		srcRate   int
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		samples, nchannels, srcRate, err = decodeWAV(bytes.NewReader(data))
	case ".mp3":
		samples, nchannels, srcRate, err = decodeMP3(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if nchannels < 1 {
		return nil, fmt.Errorf("%s: no channels", path)
	}
	stereo := toStereo(samples, nchannels)
	stereo, err = resample(stereo, 2, srcRate, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	frames := make([]garden.Frame, len(stereo)/2)
	for i := range frames {
		frames[i] = garden.Frame{garden.Smp(stereo[2*i]), garden.Smp(stereo[2*i+1])}
	}
	return frames, nil
}

// toStereo converts interleaved samples to two interleaved channels.
func toStereo(samples []float32, nchannels int) []float32 {
	if nchannels == 2 {
		return samples
	}
	nframes := len(samples) / nchannels
	out := make([]float32, 2*nframes)
	for i := range nframes {
		l := samples[i*nchannels]
		r := l
		if nchannels > 1 {
			r = samples[i*nchannels+1]
		}
		out[2*i], out[2*i+1] = l, r
	}
	return out
}

// decodeMP3 reads the 16-bit stereo stream go-mp3 produces.
func decodeMP3(r io.Reader) ([]float32, int, int, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("mp3: %w", err)
	}
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		samples[i] = float32(v) / 32768
	}
	return samples, 2, d.SampleRate(), nil
}
