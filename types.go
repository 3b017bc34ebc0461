package garden

import "math"

// Smp is a single sample value.
type Smp = float64

// Frame is one stereo sample: left and right amplitude.
type Frame [2]Smp

// Mono returns a frame with both channels set to x.
func Mono(x Smp) Frame {
	return Frame{x, x}
}

func finite(x Smp) Smp {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func clamp(value float64, lo float64, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// rising reports a trigger edge: prev was non-positive and cur is positive.
func rising(prev, cur Smp) bool {
	return prev <= 0 && cur > 0
}
