package garden

import "math"

// DefaultDelaySeconds is the buffer length of delay and feedback
// when the word carries no size.
const DefaultDelaySeconds = 60

// primeState is a one-sample delay.
type primeState struct {
	prev Frame
}

func (s *primeState) step(x Frame) Frame {
	out := s.prev
	s.prev = x
	return out
}

// delayLine is a fixed capacity ring buffer of frames.
type delayLine struct {
	buf []Frame
	pos int
}

func newDelayLine(seconds float64, sr int) *delayLine {
	size := int(math.Ceil(seconds*float64(sr))) + 1
	if size < 2 {
		size = 2
	}
	return &delayLine{buf: make([]Frame, size)}
}

// tap reads channel c d samples behind the write position with linear
// interpolation. d must be within [0, len(buf)-1].
func (l *delayLine) tap(c int, d Smp) Smp {
	size := len(l.buf)
	di := int(d)
	frac := d - Smp(di)
	r0 := l.pos - di
	if r0 < 0 {
		r0 += size
	}
	r1 := r0 - 1
	if r1 < 0 {
		r1 += size
	}
	return l.buf[r0][c]*(1-frac) + l.buf[r1][c]*frac
}

func (l *delayLine) advance() {
	l.pos++
	if l.pos == len(l.buf) {
		l.pos = 0
	}
}

// delay writes x and returns the signal time seconds ago.
func (l *delayLine) delay(x, time Frame, sr Smp) Frame {
	l.buf[l.pos] = x
	maxDelay := Smp(len(l.buf) - 1)
	var out Frame
	for c := range 2 {
		d := clamp(finite(time[c])*sr, 0, maxDelay)
		out[c] = l.tap(c, d)
	}
	l.advance()
	return out
}

// feedback is a feedback comb: the delayed signal scaled by gain is
// added to the input and written back into the line.
func (l *delayLine) feedback(x, time, gain Frame, sr Smp) Frame {
	maxDelay := Smp(len(l.buf) - 1)
	var out Frame
	for c := range 2 {
		d := clamp(finite(time[c])*sr, 1, maxDelay)
		delayed := l.tap(c, d)
		out[c] = finite(x[c] + gain[c]*delayed)
	}
	l.buf[l.pos] = out
	l.advance()
	return out
}

// convState keeps an N sample sliding window.
type convState struct {
	window []Frame
	pos    int
}

func newConvState(n int) *convState {
	return &convState{window: make([]Frame, n)}
}

func (s *convState) push(x Frame) {
	s.window[s.pos] = x
	s.pos++
	if s.pos == len(s.window) {
		s.pos = 0
	}
}

// conv sums the products of input and kernel over the window.
func (s *convState) conv(x, kernel Frame) Frame {
	s.push(Frame{x[0] * kernel[0], x[1] * kernel[1]})
	var out Frame
	for _, f := range s.window {
		out[0] += f[0]
		out[1] += f[1]
	}
	return out
}

// convm weights the last N inputs by the N kernel frames, the first
// kernel frame pairing with the oldest input.
func (s *convState) convm(x Frame, kernel []Frame) Frame {
	s.push(x)
	n := len(s.window)
	var out Frame
	for k := range n {
		i := s.pos + k
		if i >= n {
			i -= n
		}
		out[0] += s.window[i][0] * kernel[k][0]
		out[1] += s.window[i][1] * kernel[k][1]
	}
	return out
}
