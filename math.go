package garden

import (
	"math"
)

// binaryOp applies an element-wise arithmetic word to x and y.
func binaryOp(kind Kind, x, y Smp) Smp {
	switch kind {
	case KindAdd:
		return x + y
	case KindSub:
		return x - y
	case KindMul:
		return x * y
	case KindDiv:
		if y == 0 {
			return 0
		}
		return x / y
	case KindMod:
		if y == 0 {
			return 0
		}
		return math.Mod(x, y)
	case KindPow:
		return finite(math.Pow(x, y))
	case KindMin:
		return math.Min(x, y)
	case KindMax:
		return math.Max(x, y)
	case KindQuantize:
		if y <= 0 {
			return x
		}
		return math.Round(x/y) * y
	}
	return x
}

// unary applies an element-wise function word to x.
func unary(kind Kind, x Smp) Smp {
	switch kind {
	case KindRecip:
		if x == 0 {
			return 0
		}
		return 1 / x
	case KindNeg:
		return -x
	case KindAbs:
		return math.Abs(x)
	case KindSin:
		return math.Sin(x)
	case KindCos:
		return math.Cos(x)
	case KindTan:
		return finite(math.Tan(x))
	case KindTanh:
		return math.Tanh(x)
	case KindExp:
		return finite(math.Exp(x))
	case KindLog:
		if x <= 0 {
			return 0
		}
		return math.Log(x)
	case KindSqrt:
		if x < 0 {
			return 0
		}
		return math.Sqrt(x)
	case KindFloor:
		return math.Floor(x)
	case KindCeil:
		return math.Ceil(x)
	case KindRound:
		return math.Round(x)
	case KindSign:
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	case KindClip:
		return clamp(x, -1, 1)
	case KindWrap:
		return wrap(x)
	case KindUnit:
		return (x + 1) / 2
	case KindCircle:
		return x * math.Pi
	case KindFreq2Midi:
		if x <= 0 {
			return 0
		}
		return 69 + 12*math.Log2(x/440)
	case KindMidi2Freq:
		return finite(440 * math.Exp2((x-69)/12))
	case KindDb2Amp:
		return finite(math.Pow(10, x/20))
	case KindAmp2Db:
		a := math.Abs(x)
		if a < 1e-6 {
			return -120
		}
		return 20 * math.Log10(a)
	case KindCheb2:
		return 2*x*x - 1
	case KindCheb3:
		return 4*x*x*x - 3*x
	case KindCheb4:
		x2 := x * x
		return 8*x2*x2 - 8*x2 + 1
	case KindCheb5:
		x2 := x * x
		return 16*x2*x2*x - 20*x2*x + 5*x
	case KindCheb6:
		x2 := x * x
		return 32*x2*x2*x2 - 48*x2*x2 + 18*x2 - 1
	}
	return x
}

// wrap folds x into [-1,1) by modular wraparound.
func wrap(x Smp) Smp {
	y := math.Mod(x+1, 2)
	if y < 0 {
		y += 2
	}
	return y - 1
}

// linlin maps x from [inMin,inMax] to [outMin,outMax].
func linlin(x, inMin, inMax, outMin, outMax Smp) Smp {
	if inMax == inMin {
		return outMin
	}
	return outMin + (x-inMin)/(inMax-inMin)*(outMax-outMin)
}

func mapBinary(kind Kind, x, y Frame) Frame {
	return Frame{binaryOp(kind, x[0], y[0]), binaryOp(kind, x[1], y[1])}
}

func mapUnary(kind Kind, x Frame) Frame {
	return Frame{unary(kind, x[0]), unary(kind, x[1])}
}
