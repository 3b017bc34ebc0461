package audio

import (
	"fmt"

	"github.com/dh1tw/gosamplerate"
)

const (
	resampleMaxRatio = 1.0 * 16
	resampleMinRatio = 1.0 / 16

	// ResampleConverter is the libsamplerate converter used on import.
	ResampleConverter = gosamplerate.SRC_SINC_MEDIUM_QUALITY
)

func isValidRatio(ratio float64) bool {
	if !gosamplerate.IsValidRatio(ratio) {
		return false
	}
	if ratio < resampleMinRatio || ratio > resampleMaxRatio {
		return false
	}
	return true
}

// resample converts interleaved samples from srcRate to dstRate.
func resample(samples []float32, nchannels, srcRate, dstRate int) ([]float32, error) {
	if srcRate == dstRate || len(samples) == 0 {
		return samples, nil
	}
	if srcRate <= 0 {
		return nil, fmt.Errorf("resample: invalid source rate: %d", srcRate)
	}
	ratio := float64(dstRate) / float64(srcRate)
	if !isValidRatio(ratio) {
		return nil, fmt.Errorf("resample: invalid ratio: %f", ratio)
	}
	return gosamplerate.Simple(samples, ratio, nchannels, ResampleConverter)
}
