package audio

import (
	"math"
	"math/cmplx"

	"github.com/cellux/garden"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DominantFrequency returns the frequency of the strongest bin in the
// Hann windowed spectrum of the mono sum of frames.
func DominantFrequency(frames []garden.Frame, sampleRate int) float64 {
	n := len(frames)
	if n < 2 {
		return 0
	}
	x := make([]float64, n)
	for i, f := range frames {
		x[i] = (f[0] + f[1]) / 2
	}
	window.Apply(x, window.Hann)
	spectrum := fft.FFTReal(x)
	best, bestMag := 0, 0.0
	for k := 1; k <= n/2; k++ {
		if mag := cmplx.Abs(spectrum[k]); mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if best == 0 {
		return 0
	}
	// parabolic interpolation on the log magnitudes
	freq := float64(best)
	if best > 1 && best < n/2 {
		a := math.Log(cmplx.Abs(spectrum[best-1]) + 1e-12)
		b := math.Log(bestMag + 1e-12)
		c := math.Log(cmplx.Abs(spectrum[best+1]) + 1e-12)
		if denom := a - 2*b + c; denom != 0 {
			freq += 0.5 * (a - c) / denom
		}
	}
	return freq * float64(sampleRate) / float64(n)
}

// Peak returns the largest absolute sample value of frames.
func Peak(frames []garden.Frame) float64 {
	peak := 0.0
	for _, f := range frames {
		peak = math.Max(peak, math.Max(math.Abs(f[0]), math.Abs(f[1])))
	}
	return peak
}
