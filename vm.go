package garden

// StackSize is the capacity of the per-sample stack in frames.
const StackSize = 256

// Machine evaluates a Program one sample at a time. It belongs to the
// render path and never allocates.
type Machine struct {
	sr    Smp
	stack [StackSize]Frame
	depth int
}

func NewMachine(sampleRate int) *Machine {
	return &Machine{sr: Smp(sampleRate)}
}

// StackSize returns the depth of the stack left by the last Step.
func (m *Machine) StackSize() int {
	return m.depth
}

// Top returns the top of the stack, silence when the stack is empty.
func (m *Machine) Top() Frame {
	if m.depth == 0 {
		return Frame{}
	}
	return m.stack[m.depth-1]
}

// Step runs every instruction of p once against an empty stack and
// returns the top frame.
func (m *Machine) Step(p *Program) Frame {
	m.depth = 0
	if p != nil {
		for i := range p.instrs {
			m.exec(&p.instrs[i])
		}
	}
	top := m.Top()
	return Frame{finite(top[0]), finite(top[1])}
}

// exec runs one instruction. An instruction whose inputs are not on the
// stack, or whose outputs would not fit, is skipped and leaves the
// stack and its state untouched.
func (m *Machine) exec(in *Instr) {
	if m.depth < in.In || m.depth-in.In+in.Out > StackSize {
		return
	}
	base := m.depth - in.In
	s := m.stack[base:]
	sr := m.sr
	switch in.Kind {
	case KindNoop:
	case KindConst:
		s[0] = Mono(in.Value)

	case KindPop:
	case KindDup:
		s[1] = s[0]
	case KindSwap:
		s[0], s[1] = s[1], s[0]
	case KindRot:
		s[0], s[1], s[2] = s[1], s[2], s[0]
	case KindDig:
		x := s[0]
		copy(s[:in.N], s[1:in.N+1])
		s[in.N] = x

	case KindSine, KindCosine, KindTri, KindSaw, KindPhasor:
		var phase0 Frame
		if !in.Zero {
			phase0 = s[1]
		}
		s[0] = in.state.(*oscState).step(in.Kind, s[0], Frame{}, phase0, sr)
	case KindPulse:
		var phase0 Frame
		if !in.Zero {
			phase0 = s[2]
		}
		s[0] = in.state.(*oscState).step(in.Kind, s[0], s[1], phase0, sr)
	case KindNoise:
		s[0] = in.state.(*noiseState).step()

	case KindLinlin:
		for c := range 2 {
			s[0][c] = linlin(s[0][c], s[1][c], s[2][c], s[3][c], s[4][c])
		}
	case KindRange:
		for c := range 2 {
			s[0][c] = linlin(s[0][c], -1, 1, s[1][c], s[2][c])
		}
	case KindSampleHold:
		s[0] = in.state.(*holdState).sample(s[0], s[1])
	case KindSmoothSampleHold:
		s[0] = in.state.(*holdState).smooth(s[0], s[1])
	case KindPan1:
		s[0] = pan1(s[0], s[1])
	case KindPan2:
		s[0] = pan2(s[0], s[1])
	case KindPanX:
		s[0] = panx(s[0], s[1])

	case KindAdd, KindSub, KindMul, KindDiv, KindMod, KindPow, KindMin, KindMax, KindQuantize:
		s[0] = mapBinary(in.Kind, s[0], s[1])
	case KindRecip, KindNeg, KindAbs, KindSin, KindCos, KindTan, KindTanh, KindExp, KindLog,
		KindSqrt, KindFloor, KindCeil, KindRound, KindSign, KindClip, KindWrap, KindUnit, KindCircle,
		KindFreq2Midi, KindMidi2Freq, KindDb2Amp, KindAmp2Db,
		KindCheb2, KindCheb3, KindCheb4, KindCheb5, KindCheb6:
		s[0] = mapUnary(in.Kind, s[0])
	case KindClamp:
		for c := range 2 {
			lo, hi := s[1][c], s[2][c]
			if lo > hi {
				lo, hi = hi, lo
			}
			s[0][c] = clamp(s[0][c], lo, hi)
		}

	case KindLPF:
		s[0] = in.state.(*onePoleState).lowpass(s[0], s[1], sr)
	case KindHPF:
		s[0] = in.state.(*onePoleState).highpass(s[0], s[1], sr)
	case KindBQLPF:
		s[0] = in.state.(*biquadState).step(false, s[0], s[1], s[2], sr)
	case KindBQHPF:
		s[0] = in.state.(*biquadState).step(true, s[0], s[1], s[2], sr)
	case KindPrime:
		s[0] = in.state.(*primeState).step(s[0])
	case KindDelay:
		s[0] = in.state.(*delayLine).delay(s[0], s[1], sr)
	case KindFeedback:
		s[0] = in.state.(*delayLine).feedback(s[0], s[1], s[2], sr)
	case KindConv:
		s[0] = in.state.(*convState).conv(s[0], s[1])
	case KindConvM:
		s[0] = in.state.(*convState).convm(s[0], s[1:in.N+1])

	case KindMetro:
		s[0] = in.state.(*metroState).step(s[0], false, false, sr)
	case KindDMetro:
		s[0] = in.state.(*metroState).step(s[0], true, false, sr)
	case KindMetroHold:
		s[0] = in.state.(*metroState).step(s[0], false, true, sr)
	case KindDMetroHold:
		s[0] = in.state.(*metroState).step(s[0], true, true, sr)

	case KindImpulse:
		s[0] = in.state.(*impulseState).step(s[0], s[1], sr)
	case KindADSR:
		s[0] = in.state.(*adsrState).run(s[0], s[1], s[2], s[3], s[4], sr)

	case KindPitch:
		s[0] = in.state.(*pitchState).step(s[0], sr)
	case KindSpectralShuffle, KindSpectralReverse:
		s[0] = in.state.(*spectralState).step(in.Kind, s[0])

	case KindWriteTable:
		s[0] = in.state.(*tableWriteState).write(in.table, s[0], s[1])
	case KindReadTable:
		s[0] = in.table.read(s[0], sr)
	case KindChannel:
		s[0] = Mono(s[0][in.N])
	}
	m.depth = base + in.Out
}
