package garden

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	pitchBlockSize = 1024
	yinThreshold   = 0.2

	spectralWindowSize = 2048
	spectralHop        = 64
)

// pitchState buffers one block per channel and runs YIN when it is full.
type pitchState struct {
	buf  [2][]Smp
	diff []Smp
	pos  int
	freq Frame
}

func newPitchState() *pitchState {
	return &pitchState{
		buf:  [2][]Smp{make([]Smp, pitchBlockSize), make([]Smp, pitchBlockSize)},
		diff: make([]Smp, pitchBlockSize/2),
	}
}

func (s *pitchState) step(x Frame, sr Smp) Frame {
	s.buf[0][s.pos] = x[0]
	s.buf[1][s.pos] = x[1]
	s.pos++
	if s.pos == pitchBlockSize {
		s.pos = 0
		for c := range 2 {
			if f, ok := yin(s.buf[c], s.diff, sr); ok {
				s.freq[c] = f
			}
		}
	}
	return s.freq
}

// yin estimates the fundamental frequency of buf. d is scratch space of
// len(buf)/2 and receives the cumulative mean normalized difference.
func yin(buf, d []Smp, sr Smp) (Smp, bool) {
	w := len(d)
	d[0] = 1
	runningSum := 0.0
	for tau := 1; tau < w; tau++ {
		sum := 0.0
		for j := range w {
			delta := buf[j] - buf[j+tau]
			sum += delta * delta
		}
		runningSum += sum
		if runningSum == 0 {
			d[tau] = 1
		} else {
			d[tau] = sum * float64(tau) / runningSum
		}
	}
	tau := 2
	for ; tau < w; tau++ {
		if d[tau] < yinThreshold {
			for tau+1 < w && d[tau+1] < d[tau] {
				tau++
			}
			break
		}
	}
	if tau >= w {
		return 0, false
	}
	// parabolic interpolation around the minimum
	better := Smp(tau)
	if tau+1 < w {
		s0, s1, s2 := d[tau-1], d[tau], d[tau+1]
		denom := 2 * (2*s1 - s2 - s0)
		if denom != 0 {
			better += (s2 - s0) / denom
		}
	}
	if better <= 0 {
		return 0, false
	}
	return sr / better, true
}

// spectralState runs a windowed FFT every spectralHop samples, lets
// the transform rearrange the bins and overlap-adds the result.
type spectralState struct {
	fft     *fourier.CmplxFFT
	window  []Smp
	in      [2][]Smp
	acc     [2][]Smp
	scratch []complex128
	pos     int
	hop     int
	rng     *noiseState
}

func newSpectralState(key Key) *spectralState {
	n := spectralWindowSize
	s := &spectralState{
		fft:     fourier.NewCmplxFFT(n),
		window:  make([]Smp, n),
		in:      [2][]Smp{make([]Smp, n), make([]Smp, n)},
		acc:     [2][]Smp{make([]Smp, n), make([]Smp, n)},
		scratch: make([]complex128, n),
		rng:     newNoiseState(key),
	}
	for i := range s.window {
		s.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return s
}

func (s *spectralState) step(kind Kind, x Frame) Frame {
	n := len(s.window)
	var out Frame
	for c := range 2 {
		s.in[c][s.pos] = x[c]
		out[c] = s.acc[c][s.pos]
		s.acc[c][s.pos] = 0
	}
	s.pos++
	if s.pos == n {
		s.pos = 0
	}
	s.hop++
	if s.hop == spectralHop {
		s.hop = 0
		for c := range 2 {
			s.frame(kind, c)
		}
	}
	return out
}

// frame transforms the last n input samples of channel c. The oldest
// input sample sits at s.pos, which is also the next output slot.
func (s *spectralState) frame(kind Kind, c int) {
	n := len(s.window)
	for i := range n {
		j := s.pos + i
		if j >= n {
			j -= n
		}
		s.scratch[i] = complex(s.in[c][j]*s.window[i], 0)
	}
	s.fft.Coefficients(s.scratch, s.scratch)
	half := n / 2
	switch kind {
	case KindSpectralShuffle:
		for i := half - 1; i > 1; i-- {
			j := 1 + s.rng.next(i)
			s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
		}
	case KindSpectralReverse:
		for i, j := 1, half-1; i < j; i, j = i+1, j-1 {
			s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
		}
	}
	for k := 1; k < half; k++ {
		s.scratch[n-k] = cmplx.Conj(s.scratch[k])
	}
	s.scratch[half] = complex(real(s.scratch[half]), 0)
	s.fft.Sequence(s.scratch, s.scratch)
	// hann windows at this hop sum to n/(2*hop); the inverse transform
	// is unnormalized
	scale := 2 * float64(spectralHop) / float64(n) / float64(n)
	for i := range n {
		j := s.pos + i
		if j >= n {
			j -= n
		}
		s.acc[c][j] += real(s.scratch[i]) * scale
	}
}
