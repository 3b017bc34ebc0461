package garden

import "math"

func calcSin(phase Smp) Smp {
	return math.Sin(phase * 2 * math.Pi)
}

func calcCos(phase Smp) Smp {
	return math.Cos(phase * 2 * math.Pi)
}

func calcPulse(phase, width Smp) Smp {
	if phase < width {
		return 1.0
	} else {
		return -1.0
	}
}

func calcTriangle(phase Smp) Smp {
	if phase < 0.25 {
		return phase * 4.0
	} else if phase < 0.75 {
		return 1.0 - (phase-0.25)*4.0
	} else {
		return -1.0 + (phase-0.75)*4.0
	}
}

func calcSaw(phase Smp) Smp {
	if phase < 0.5 {
		return phase * 2.0
	} else {
		return -1.0 + (phase-0.5)*2.0
	}
}

// wrapPhase folds x into [0,1).
func wrapPhase(x Smp) Smp {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}

// oscState is the phase accumulator of an oscillator, one per channel.
type oscState struct {
	phase [2]Smp
}

// step evaluates the waveform at the current phase (offset by phase0)
// and then advances the phase by freq/sr.
func (s *oscState) step(kind Kind, freq, width, phase0 Frame, sr Smp) Frame {
	var out Frame
	for c := range 2 {
		p := s.phase[c]
		if phase0[c] != 0 {
			p = wrapPhase(p + finite(phase0[c]))
		}
		switch kind {
		case KindSine:
			out[c] = calcSin(p)
		case KindCosine:
			out[c] = calcCos(p)
		case KindTri:
			out[c] = calcTriangle(p)
		case KindSaw:
			out[c] = calcSaw(p)
		case KindPulse:
			out[c] = calcPulse(p, width[c])
		case KindPhasor:
			out[c] = p
		}
		s.phase[c] = wrapPhase(s.phase[c] + finite(freq[c])/sr)
	}
	return out
}
