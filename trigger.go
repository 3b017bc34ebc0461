package garden

import "math"

// metroState drives metro, dmetro and their hold variants.
//
// The phase starts at 1 so that the first sample fires.
type metroState struct {
	phase [2]Smp
	held  [2]Smp // increment latched at the last trigger
}

func newMetroState() *metroState {
	return &metroState{phase: [2]Smp{1, 1}}
}

// periodIncrement converts a period in seconds to a phase increment.
func periodIncrement(period, sr Smp) Smp {
	samples := period * sr
	if !(samples > 1) {
		return 1
	}
	return 1 / samples
}

// step emits 1 on the sample where the phase wraps, 0 otherwise.
// rate is a frequency in Hz, or a period in seconds when period is set.
// With hold set the increment is latched at each trigger.
func (s *metroState) step(rate Frame, period, hold bool, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		var incr Smp
		if period {
			incr = periodIncrement(finite(rate[c]), sr)
		} else {
			incr = finite(rate[c]) / sr
		}
		if s.phase[c] >= 1 || s.phase[c] < 0 {
			s.phase[c] -= math.Floor(s.phase[c])
			s.held[c] = incr
			out[c] = 1
		}
		if hold {
			incr = s.held[c]
		}
		s.phase[c] += incr
	}
	return out
}
