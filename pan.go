package garden

import "math"

// equalPowerPan returns gains for left/right given pan in [-1,1].
func equalPowerPan(p float64) (float64, float64) {
	if p < -1 {
		p = -1
	}
	if p > 1 {
		p = 1
	}
	// map p=-1..1 -> theta in [0..pi/2]
	theta := (p + 1) * math.Pi / 4
	return math.Cos(theta), math.Sin(theta)
}

// pan1 places the mono sum of x in the stereo field with equal power.
func pan1(x, pan Frame) Frame {
	m := (x[0] + x[1]) / 2
	l, r := equalPowerPan(pan[0])
	return Frame{m * l, m * r}
}

// pan2 is a stereo balance: one side is attenuated, the other left alone.
func pan2(x, pan Frame) Frame {
	p := clamp(pan[0], -1, 1)
	if p < 0 {
		return Frame{x[0], x[1] * (1 + p)}
	}
	return Frame{x[0] * (1 - p), x[1]}
}

// panx crossfades between the input (-1), the mono sum (0) and
// the input with swapped channels (1).
func panx(x, pan Frame) Frame {
	a := (clamp(pan[0], -1, 1) + 1) / 2
	return Frame{
		x[0]*(1-a) + x[1]*a,
		x[1]*(1-a) + x[0]*a,
	}
}
