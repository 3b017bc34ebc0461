package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/cellux/garden"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

// WriteWAV encodes frames as a 16-bit stereo PCM wave file.
func WriteWAV(w io.WriteSeeker, frames []garden.Frame, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 2, 1)
	const scale = 1<<(wavBitDepth-1) - 1
	data := make([]int, 0, 2*len(frames))
	for _, f := range frames {
		for c := range 2 {
			v := math.Max(-1, math.Min(1, f[c]))
			data = append(data, int(math.Round(v*scale)))
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return enc.Close()
}

// decodeWAV returns the interleaved samples of a PCM wave file scaled
// to [-1,1], with its channel count and sample rate.
func decodeWAV(r io.ReadSeeker) ([]float32, int, int, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("wav: invalid file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("wav: %w", err)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		bitDepth = wavBitDepth
	}
	scale := float32(int(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			v -= 128
		}
		samples[i] = float32(v) / scale
	}
	return samples, int(d.NumChans), int(d.SampleRate), nil
}
