package garden

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
)

const (
	DefaultSampleRate   = 48000
	DefaultBufferFrames = 512
)

var ErrClosed = errors.New("engine closed")

type Options struct {
	SampleRate int
	// BufferFrames sizes the scratch buffer used by Read.
	BufferFrames int
	Logger       *slog.Logger
}

// Engine is the execution context of one running program: sample rate,
// tables, the hot-swap controller and the stack machine.
//
// Compile and Submit belong to the control path. Tick, Render and Read
// belong to the render path and must be called from a single goroutine.
type Engine struct {
	sampleRate int
	logger     *slog.Logger
	tables     *Tables
	ctl        *Controller
	vm         *Machine
	scratch    []Frame
	closed     atomic.Bool
}

func New(opts Options) (*Engine, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.SampleRate < 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", opts.SampleRate)
	}
	if opts.BufferFrames == 0 {
		opts.BufferFrames = DefaultBufferFrames
	}
	if opts.BufferFrames < 0 {
		return nil, fmt.Errorf("invalid buffer size: %d", opts.BufferFrames)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := &Engine{
		sampleRate: opts.SampleRate,
		logger:     opts.Logger,
		tables:     NewTables(opts.SampleRate),
		ctl:        NewController(),
		vm:         NewMachine(opts.SampleRate),
		scratch:    make([]Frame, opts.BufferFrames),
	}
	return e, nil
}

func (e *Engine) SampleRate() int {
	return e.sampleRate
}

func (e *Engine) Tables() *Tables {
	return e.tables
}

func (e *Engine) Controller() *Controller {
	return e.ctl
}

// Compile compiles text against this engine's sample rate and tables.
func (e *Engine) Compile(text string) *Program {
	return e.CompileFile(text, "")
}

// CompileFile is Compile with a file name for diagnostics.
func (e *Engine) CompileFile(text, filename string) *Program {
	p := CompileTokens(Lex(text, filename), text, e.sampleRate, e.tables, e.logger)
	e.logger.Debug("compiled", "file", filename, "instrs", p.Len(), "diagnostics", len(p.Diagnostics))
	return p
}

// Submit hands p to the render path.
func (e *Engine) Submit(p *Program) {
	e.ctl.Submit(p)
	e.logger.Debug("submitted", "swaps", e.ctl.Swaps(), "dropped", e.ctl.Dropped())
}

// Load compiles text and submits the result.
func (e *Engine) Load(text string) *Program {
	p := e.Compile(text)
	e.Submit(p)
	return p
}

// Tick renders one sample, picking up a newly submitted program first.
func (e *Engine) Tick() Frame {
	return e.vm.Step(e.ctl.Current())
}

// Render fills buf with consecutive samples. A program submitted while
// Render runs takes effect at the next call.
func (e *Engine) Render(buf []Frame) {
	p := e.ctl.Current()
	for i := range buf {
		buf[i] = e.vm.Step(p)
	}
}

// Read implements io.Reader over the rendered output as interleaved
// stereo float32 little endian samples.
func (e *Engine) Read(p []byte) (int, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}
	const frameBytes = 8
	n := 0
	for len(p)-n >= frameBytes {
		nframes := min((len(p)-n)/frameBytes, len(e.scratch))
		buf := e.scratch[:nframes]
		e.Render(buf)
		for _, f := range buf {
			binary.LittleEndian.PutUint32(p[n:], math.Float32bits(float32(f[0])))
			binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(float32(f[1])))
			n += frameBytes
		}
	}
	return n, nil
}

// Close ends the engine's lifecycle. Read returns ErrClosed afterwards.
func (e *Engine) Close() error {
	e.closed.Store(true)
	e.logger.Debug("engine closed", "swaps", e.ctl.Swaps(), "dropped", e.ctl.Dropped())
	return nil
}
