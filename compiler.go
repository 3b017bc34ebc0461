package garden

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Key identifies an instruction across recompilations: its canonical
// name (including compile-time parameters) and its position.
type Key struct {
	Name string
	Pos  int
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.Name, k.Pos)
}

// Instr is a compiled operation instance.
type Instr struct {
	Kind  Kind
	Key   Key
	In    int // frames consumed
	Out   int // frames produced
	Value Smp // literal of KindConst
	N     int // channel index, dig depth or window size
	Zero  bool
	table *Table
	state any
}

// Program is the compiled form of a program text.
//
// A Program handed to Submit belongs to the render path: carrying state
// over from the previous program rebinds its state blocks.
type Program struct {
	Source      string
	Diagnostics []Err
	instrs      []Instr
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instrs)
}

// Keys returns the identity key of every instruction in order.
func (p *Program) Keys() []Key {
	keys := make([]Key, len(p.instrs))
	for i := range p.instrs {
		keys[i] = p.instrs[i].Key
	}
	return keys
}

// adopt takes over the state blocks of prev for every instruction whose
// key is unchanged. It runs on the render path and does not allocate.
func (p *Program) adopt(prev *Program) {
	if prev == nil {
		return
	}
	n := min(len(p.instrs), len(prev.instrs))
	for i := range n {
		next, old := &p.instrs[i], &prev.instrs[i]
		if next.state != nil && old.state != nil && next.Key == old.Key {
			next.state = old.state
		}
	}
}

type compiler struct {
	sampleRate int
	tables     *Tables
	logger     *slog.Logger
	diags      []Err
}

// Compile turns program text into a Program. It never fails: unknown
// words and malformed parameters compile to placeholders and are
// reported in Program.Diagnostics.
func Compile(text string, sampleRate int, tables *Tables, logger *slog.Logger) *Program {
	return CompileTokens(Lex(text, ""), text, sampleRate, tables, logger)
}

func CompileTokens(tokens []Token, source string, sampleRate int, tables *Tables, logger *slog.Logger) *Program {
	if logger == nil {
		logger = slog.Default()
	}
	if tables == nil {
		tables = NewTables(sampleRate)
	}
	c := &compiler{
		sampleRate: sampleRate,
		tables:     tables,
		logger:     logger,
	}
	p := &Program{
		Source: source,
		instrs: make([]Instr, len(tokens)),
	}
	for i, tok := range tokens {
		p.instrs[i] = c.compileToken(tok, i)
	}
	p.Diagnostics = c.diags
	return p
}

func (c *compiler) warn(tok Token, err error) {
	e := makeErr(tok.Pos, err)
	c.diags = append(c.diags, e)
	c.logger.Warn("compile", "word", tok.Word, "err", e)
}

func noop(pos int) Instr {
	return Instr{Kind: KindNoop, Key: Key{Name: "noop", Pos: pos}}
}

func (c *compiler) compileToken(tok Token, pos int) Instr {
	if tok.Number {
		return Instr{
			Kind:  KindConst,
			Key:   Key{Name: "const", Pos: pos},
			Out:   1,
			Value: tok.Value,
		}
	}
	if !tok.Known() {
		c.warn(tok, fmt.Errorf("%w: %s", ErrUnknownWord, tok.Word))
		return noop(pos)
	}
	def := opDefs[tok.Name]
	in := Instr{
		Kind: def.kind,
		Key:  Key{Name: tok.Name, Pos: pos},
		In:   def.in,
		Out:  def.out,
		Zero: def.zero,
	}
	if err := c.bindParams(&in, def, tok); err != nil {
		c.warn(tok, err)
		return noop(pos)
	}
	in.state = c.newState(&in)
	return in
}

func badParam(tok Token, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrBadParam, tok.Word, fmt.Sprintf(format, args...))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// bindParams resolves the compile-time parameters of tok into in and
// extends the key name with their normalized values.
func (c *compiler) bindParams(in *Instr, def opDef, tok Token) error {
	params := tok.Params
	switch def.param {
	case paramNone:
		if len(params) > 0 {
			return badParam(tok, "takes no parameters")
		}
	case paramSeconds:
		seconds := min(float64(DefaultDelaySeconds), c.maxSeconds())
		if len(params) > 0 {
			f, err := scanFloat(params[0])
			if err != nil || !(f > 0) {
				return badParam(tok, "invalid length %q", params[0])
			}
			if !(f <= c.maxSeconds()) {
				return badParam(tok, "length %q exceeds %d frames", params[0], MaxFrames)
			}
			seconds = f
		}
		in.Value = seconds
		in.Key.Name += ":" + formatFloat(seconds)
	case paramCount, paramDepth, paramChannel:
		if len(params) != 1 {
			return badParam(tok, "expected one parameter")
		}
		n, err := strconv.Atoi(params[0])
		if err != nil {
			return badParam(tok, "invalid number %q", params[0])
		}
		switch def.param {
		case paramCount:
			if n < 1 {
				return badParam(tok, "window must be positive")
			}
			if def.kind == KindConvM && n > StackSize-1 {
				return badParam(tok, "window exceeds stack size %d", StackSize)
			}
			if n > MaxFrames {
				return badParam(tok, "window exceeds %d frames", MaxFrames)
			}
		case paramDepth:
			if n < 0 {
				return badParam(tok, "depth must not be negative")
			}
			if n > StackSize-1 {
				return badParam(tok, "depth exceeds stack size %d", StackSize)
			}
		case paramChannel:
			if n != 0 && n != 1 {
				return badParam(tok, "channel must be 0 or 1")
			}
		}
		in.N = n
		in.Key.Name += ":" + strconv.Itoa(n)
		switch def.kind {
		case KindDig:
			in.In, in.Out = n+1, n+1
		case KindConvM:
			in.In = n + 1
		}
	case paramTableIn:
		if len(params) != 1 || !validTableName(params[0]) {
			return badParam(tok, "expected a table name")
		}
		in.table = c.tables.lookup(params[0])
		in.Key.Name += ":" + params[0]
	case paramTableOut:
		if len(params) != 2 || !validTableName(params[0]) {
			return badParam(tok, "expected a table name and a length")
		}
		seconds, err := scanFloat(params[1])
		if err != nil || !(seconds > 0) {
			return badParam(tok, "invalid length %q", params[1])
		}
		if !(seconds*float64(c.sampleRate) <= MaxFrames) {
			return badParam(tok, "length %q exceeds %d frames", params[1], MaxFrames)
		}
		t, err := c.tables.Reserve(params[0], seconds)
		if err != nil {
			// keep recording into the existing buffer
			c.warn(tok, err)
		}
		in.table = t
		in.Key.Name += ":" + params[0] + ":" + formatFloat(seconds)
	}
	return nil
}

// maxSeconds is the longest delay line that stays within MaxFrames.
func (c *compiler) maxSeconds() float64 {
	return float64(MaxFrames-1) / float64(c.sampleRate)
}

func validTableName(name string) bool {
	if name == "" {
		return false
	}
	_, err := scanFloat(name)
	return err != nil && !strings.ContainsAny(name, ":")
}

// newState allocates the default state block of a stateful instruction.
func (c *compiler) newState(in *Instr) any {
	switch in.Kind {
	case KindSine, KindCosine, KindTri, KindSaw, KindPulse, KindPhasor:
		return &oscState{}
	case KindNoise:
		return newNoiseState(in.Key)
	case KindSampleHold, KindSmoothSampleHold:
		return &holdState{}
	case KindLPF, KindHPF:
		return &onePoleState{}
	case KindBQLPF, KindBQHPF:
		return &biquadState{}
	case KindPrime:
		return &primeState{}
	case KindDelay, KindFeedback:
		return newDelayLine(in.Value, c.sampleRate)
	case KindConv, KindConvM:
		return newConvState(in.N)
	case KindMetro, KindDMetro, KindMetroHold, KindDMetroHold:
		return newMetroState()
	case KindImpulse:
		return &impulseState{}
	case KindADSR:
		return &adsrState{}
	case KindPitch:
		return newPitchState()
	case KindSpectralShuffle, KindSpectralReverse:
		return newSpectralState(in.Key)
	case KindWriteTable:
		return &tableWriteState{}
	}
	return nil
}
