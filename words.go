package garden

import "sort"

// Kind identifies the behavior of an instruction.
type Kind uint8

const (
	KindNoop Kind = iota
	KindConst

	KindPop
	KindDup
	KindSwap
	KindRot
	KindDig

	KindSine
	KindCosine
	KindTri
	KindSaw
	KindPulse
	KindPhasor
	KindNoise

	KindLinlin
	KindRange
	KindUnit
	KindCircle
	KindSampleHold
	KindSmoothSampleHold
	KindQuantize
	KindPan1
	KindPan2
	KindPanX

	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindPow
	KindMin
	KindMax

	KindRecip
	KindNeg
	KindAbs
	KindSin
	KindCos
	KindTan
	KindTanh
	KindExp
	KindLog
	KindSqrt
	KindFloor
	KindCeil
	KindRound
	KindSign
	KindClip
	KindWrap
	KindFreq2Midi
	KindMidi2Freq
	KindDb2Amp
	KindAmp2Db
	KindCheb2
	KindCheb3
	KindCheb4
	KindCheb5
	KindCheb6
	KindClamp

	KindLPF
	KindHPF
	KindBQLPF
	KindBQHPF
	KindPrime
	KindDelay
	KindFeedback
	KindConv
	KindConvM

	KindMetro
	KindDMetro
	KindMetroHold
	KindDMetroHold

	KindImpulse
	KindADSR

	KindPitch
	KindSpectralShuffle
	KindSpectralReverse

	KindWriteTable
	KindReadTable
	KindChannel
)

type paramKind uint8

const (
	paramNone     paramKind = iota
	paramSeconds            // optional buffer length in seconds
	paramCount              // required positive window size
	paramDepth              // required non-negative stack depth
	paramChannel            // required 0 or 1
	paramTableIn            // table name
	paramTableOut           // table name and length in seconds
)

// opDef describes a canonical word.
type opDef struct {
	kind  Kind
	in    int
	out   int
	zero  bool // oscillator form without a phase0 input
	param paramKind
}

var opDefs = map[string]opDef{
	"pop":  {kind: KindPop, in: 1, out: 0},
	"dup":  {kind: KindDup, in: 1, out: 2},
	"swap": {kind: KindSwap, in: 2, out: 2},
	"rot":  {kind: KindRot, in: 3, out: 3},
	"dig":  {kind: KindDig, param: paramDepth},

	"sine":              {kind: KindSine, in: 2, out: 1},
	"sine-zero-phase":   {kind: KindSine, in: 1, out: 1, zero: true},
	"cosine":            {kind: KindCosine, in: 2, out: 1},
	"cosine-zero-phase": {kind: KindCosine, in: 1, out: 1, zero: true},
	"tri":               {kind: KindTri, in: 2, out: 1},
	"tri-zero-phase":    {kind: KindTri, in: 1, out: 1, zero: true},
	"saw":               {kind: KindSaw, in: 2, out: 1},
	"saw-zero-phase":    {kind: KindSaw, in: 1, out: 1, zero: true},
	"pulse":             {kind: KindPulse, in: 3, out: 1},
	"pulse-zero-phase":  {kind: KindPulse, in: 2, out: 1, zero: true},
	"phasor":            {kind: KindPhasor, in: 1, out: 1, zero: true},
	"noise":             {kind: KindNoise, in: 0, out: 1},

	"linlin":             {kind: KindLinlin, in: 5, out: 1},
	"range":              {kind: KindRange, in: 3, out: 1},
	"unit":               {kind: KindUnit, in: 1, out: 1},
	"circle":             {kind: KindCircle, in: 1, out: 1},
	"sample&hold":        {kind: KindSampleHold, in: 2, out: 1},
	"smooth-sample&hold": {kind: KindSmoothSampleHold, in: 2, out: 1},
	"quantize":           {kind: KindQuantize, in: 2, out: 1},
	"pan1":               {kind: KindPan1, in: 2, out: 1},
	"pan2":               {kind: KindPan2, in: 2, out: 1},
	"panx":               {kind: KindPanX, in: 2, out: 1},

	"+":   {kind: KindAdd, in: 2, out: 1},
	"-":   {kind: KindSub, in: 2, out: 1},
	"*":   {kind: KindMul, in: 2, out: 1},
	"/":   {kind: KindDiv, in: 2, out: 1},
	"mod": {kind: KindMod, in: 2, out: 1},
	"pow": {kind: KindPow, in: 2, out: 1},
	"min": {kind: KindMin, in: 2, out: 1},
	"max": {kind: KindMax, in: 2, out: 1},

	"recip":     {kind: KindRecip, in: 1, out: 1},
	"neg":       {kind: KindNeg, in: 1, out: 1},
	"abs":       {kind: KindAbs, in: 1, out: 1},
	"sin":       {kind: KindSin, in: 1, out: 1},
	"cos":       {kind: KindCos, in: 1, out: 1},
	"tan":       {kind: KindTan, in: 1, out: 1},
	"tanh":      {kind: KindTanh, in: 1, out: 1},
	"exp":       {kind: KindExp, in: 1, out: 1},
	"log":       {kind: KindLog, in: 1, out: 1},
	"sqrt":      {kind: KindSqrt, in: 1, out: 1},
	"floor":     {kind: KindFloor, in: 1, out: 1},
	"ceil":      {kind: KindCeil, in: 1, out: 1},
	"round":     {kind: KindRound, in: 1, out: 1},
	"sign":      {kind: KindSign, in: 1, out: 1},
	"clip":      {kind: KindClip, in: 1, out: 1},
	"wrap":      {kind: KindWrap, in: 1, out: 1},
	"freq2midi": {kind: KindFreq2Midi, in: 1, out: 1},
	"midi2freq": {kind: KindMidi2Freq, in: 1, out: 1},
	"db2amp":    {kind: KindDb2Amp, in: 1, out: 1},
	"amp2db":    {kind: KindAmp2Db, in: 1, out: 1},
	"cheb2":     {kind: KindCheb2, in: 1, out: 1},
	"cheb3":     {kind: KindCheb3, in: 1, out: 1},
	"cheb4":     {kind: KindCheb4, in: 1, out: 1},
	"cheb5":     {kind: KindCheb5, in: 1, out: 1},
	"cheb6":     {kind: KindCheb6, in: 1, out: 1},
	"clamp":     {kind: KindClamp, in: 3, out: 1},

	"lpf":        {kind: KindLPF, in: 2, out: 1},
	"hpf":        {kind: KindHPF, in: 2, out: 1},
	"biquad-lpf": {kind: KindBQLPF, in: 3, out: 1},
	"biquad-hpf": {kind: KindBQHPF, in: 3, out: 1},
	"prime":      {kind: KindPrime, in: 1, out: 1},
	"delay":      {kind: KindDelay, in: 2, out: 1, param: paramSeconds},
	"feedback":   {kind: KindFeedback, in: 3, out: 1, param: paramSeconds},
	"conv":       {kind: KindConv, in: 2, out: 1, param: paramCount},
	"convm":      {kind: KindConvM, out: 1, param: paramCount},

	"metro":       {kind: KindMetro, in: 1, out: 1},
	"dmetro":      {kind: KindDMetro, in: 1, out: 1},
	"metro-hold":  {kind: KindMetroHold, in: 1, out: 1},
	"dmetro-hold": {kind: KindDMetroHold, in: 1, out: 1},

	"impulse": {kind: KindImpulse, in: 2, out: 1},
	"adsr":    {kind: KindADSR, in: 5, out: 1},

	"pitch":            {kind: KindPitch, in: 1, out: 1},
	"spectral-shuffle": {kind: KindSpectralShuffle, in: 1, out: 1},
	"spectral-reverse": {kind: KindSpectralReverse, in: 1, out: 1},

	"writetable": {kind: KindWriteTable, in: 2, out: 1, param: paramTableOut},
	"readtable":  {kind: KindReadTable, in: 1, out: 1, param: paramTableIn},
	"channel":    {kind: KindChannel, in: 1, out: 1, param: paramChannel},
}

var aliases = map[string]string{
	"s":  "sine-zero-phase",
	"c":  "cosine-zero-phase",
	"t":  "tri-zero-phase",
	"w":  "saw-zero-phase",
	"p":  "pulse-zero-phase",
	"ph": "phasor",
	"n":  "noise",

	"project": "linlin",
	"r":       "range",
	"u":       "unit",
	"sh":      "sample&hold",
	"ssh":     "smooth-sample&hold",
	"q":       "quantize",

	"%":   "mod",
	"^":   "pow",
	"\\":  "recip",
	"f2m": "freq2midi",
	"m2f": "midi2freq",
	"db":  "db2amp",

	"l":     "biquad-lpf",
	"bqlpf": "biquad-lpf",
	"h":     "biquad-hpf",
	"bqhpf": "biquad-hpf",
	"dl":    "delay",
	"fb":    "feedback",

	"m":           "metro",
	"dm":          "dmetro",
	"mh":          "metro-hold",
	"metro_hold":  "metro-hold",
	"dmh":         "dmetro-hold",
	"dmetro_hold": "dmetro-hold",

	"spectral_shuffle": "spectral-shuffle",
	"spectral_reverse": "spectral-reverse",

	"wt":   "writetable",
	"wtab": "writetable",
	"rt":   "readtable",
	"rtab": "readtable",
	"ch":   "channel",
}

// ResolveAlias maps a word name to its canonical operation name.
// It returns "" when the name is not an operation.
func ResolveAlias(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	if _, ok := opDefs[name]; ok {
		return name
	}
	return ""
}

// Words returns the canonical names of all operations.
func Words() []string {
	names := make([]string, 0, len(opDefs))
	for name := range opDefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
