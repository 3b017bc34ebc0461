package garden

import (
	"math"
)

// impulseState tracks the time since the last trigger.
type impulseState struct {
	elapsed [2]Smp
	active  [2]bool
	prev    Frame
}

// step emits h(t) = k*t*exp(1-k*t) with k = 1/apex, which reaches 1.0
// at t = apex seconds and decays afterwards.
func (s *impulseState) step(trig, apex Frame, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		if rising(s.prev[c], trig[c]) {
			s.elapsed[c] = 0
			s.active[c] = true
		}
		s.prev[c] = trig[c]
		if !s.active[c] {
			continue
		}
		a := apex[c]
		if !(a > 1/sr) {
			a = 1 / sr
		}
		kt := s.elapsed[c] / a
		out[c] = kt * math.Exp(1-kt)
		s.elapsed[c] += 1 / sr
	}
	return out
}

type adsrStage uint8

const (
	adsrIdle adsrStage = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// adsrState is a linear envelope state machine per channel.
type adsrState struct {
	stage  [2]adsrStage
	level  [2]Smp
	step   [2]Smp // level change per sample in the current segment
	target [2]Smp // decay target
	prev   Frame
}

func segmentStep(distance, seconds, sr Smp) Smp {
	samples := seconds * sr
	if !(samples > 1) {
		samples = 1
	}
	return distance / samples
}

func (s *adsrState) run(gate, a, d, sus, r Frame, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		g := gate[c]
		switch {
		case rising(s.prev[c], g):
			s.stage[c] = adsrAttack
			s.step[c] = segmentStep(1-s.level[c], a[c], sr)
		case s.prev[c] > 0 && g <= 0 && s.stage[c] != adsrIdle:
			s.stage[c] = adsrRelease
			s.step[c] = segmentStep(s.level[c], r[c], sr)
		}
		s.prev[c] = g
		switch s.stage[c] {
		case adsrAttack:
			s.level[c] += s.step[c]
			if s.level[c] >= 1 || s.step[c] <= 0 {
				s.level[c] = 1
				s.stage[c] = adsrDecay
				s.target[c] = clamp(sus[c], 0, 1)
				s.step[c] = segmentStep(1-s.target[c], d[c], sr)
			}
		case adsrDecay:
			s.level[c] -= s.step[c]
			if s.level[c] <= s.target[c] {
				s.level[c] = s.target[c]
				s.stage[c] = adsrSustain
			}
		case adsrSustain:
			s.level[c] = clamp(sus[c], 0, 1)
		case adsrRelease:
			s.level[c] -= s.step[c]
			if s.level[c] <= 0 || s.step[c] <= 0 {
				s.level[c] = 0
				s.stage[c] = adsrIdle
			}
		}
		out[c] = s.level[c]
	}
	return out
}
