package garden

import "hash/fnv"

// noiseState is a deterministic xorshift32 white noise generator per channel.
type noiseState struct {
	state [2]uint32
}

// newNoiseState seeds the generator from the instruction key so that
// compiling the same text twice produces the same noise.
func newNoiseState(key Key) *noiseState {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	seed := h.Sum32()
	s := &noiseState{state: [2]uint32{seed, seed ^ 0x9e3779b9}}
	// seed 0 is mapped to 1 to avoid lockup
	for c := range s.state {
		if s.state[c] == 0 {
			s.state[c] = 1
		}
	}
	return s
}

func (s *noiseState) step() Frame {
	var out Frame
	for c := range 2 {
		state := s.state[c]
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		s.state[c] = state
		u := float64(state) / float64(^uint32(0))
		out[c] = Smp(2*u - 1)
	}
	return out
}

// next returns a pseudo random number in [0,n) from the left generator.
func (s *noiseState) next(n int) int {
	state := s.state[0]
	state ^= state << 13
	state ^= state >> 17
	state ^= state << 5
	s.state[0] = state
	return int(state % uint32(n))
}
