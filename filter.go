package garden

import "math"

// cutoffToAlpha converts cutoff Hz to one-pole smoothing coefficient.
// Higher cutoff => smaller alpha (less smoothing).
func cutoffToAlpha(cutoff, sr float64) float64 {
	if cutoff < 0 || math.IsNaN(cutoff) {
		cutoff = 0
	}
	// a = exp(-2*pi*fc/sr)
	return clamp(math.Exp(-2*math.Pi*cutoff/sr), 0, 1)
}

// onePoleState holds the lowpass memory of lpf and hpf.
type onePoleState struct {
	lp [2]Smp
}

// lowpass: y[n] = a*y[n-1] + (1-a)*x[n]
func (s *onePoleState) lowpass(x, freq Frame, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		alpha := cutoffToAlpha(freq[c], sr)
		s.lp[c] = finite(alpha*s.lp[c] + (1-alpha)*x[c])
		out[c] = s.lp[c]
	}
	return out
}

// highpass subtracts the lowpassed signal from the input.
func (s *onePoleState) highpass(x, freq Frame, sr Smp) Frame {
	lp := s.lowpass(x, freq, sr)
	return Frame{x[0] - lp[0], x[1] - lp[1]}
}

// biquadState is the direct form I history of a two-pole filter.
type biquadState struct {
	x1, x2, y1, y2 [2]Smp
}

// biquadCoefficients computes normalized RBJ cookbook coefficients.
func biquadCoefficients(highpass bool, freq, q, sr Smp) (b0, b1, b2, a1, a2 Smp) {
	freq = clamp(freq, 1e-3, sr*0.4999)
	if !(q > 1e-3) {
		q = 1e-3
	}
	w0 := 2 * math.Pi * freq / sr
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * q)
	a0 := 1 + alpha
	if highpass {
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
	} else {
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
	}
	b2 = b0
	a1 = -2 * cosW0
	a2 = 1 - alpha
	return b0 / a0, b1 / a0, b2 / a0, a1 / a0, a2 / a0
}

func (s *biquadState) step(highpass bool, x, freq, q Frame, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		b0, b1, b2, a1, a2 := biquadCoefficients(highpass, freq[c], q[c], sr)
		y := finite(b0*x[c] + b1*s.x1[c] + b2*s.x2[c] - a1*s.y1[c] - a2*s.y2[c])
		s.x2[c], s.x1[c] = s.x1[c], x[c]
		s.y2[c], s.y1[c] = s.y1[c], y
		out[c] = y
	}
	return out
}

// holdState backs sample&hold and its smooth variant.
type holdState struct {
	held Frame
	prev Frame
}

// sample latches x on each rising edge of trig.
func (s *holdState) sample(x, trig Frame) Frame {
	for c := range 2 {
		if rising(s.prev[c], trig[c]) {
			s.held[c] = x[c]
		}
		s.prev[c] = trig[c]
	}
	return s.held
}

// smooth moves the held value towards x by the trigger amount.
func (s *holdState) smooth(x, trig Frame) Frame {
	for c := range 2 {
		t := clamp(trig[c], 0, 1)
		s.held[c] = finite(s.held[c] + t*(x[c]-s.held[c]))
	}
	return s.held
}
