package garden

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func newTestEngine(t *testing.T, sampleRate int) *Engine {
	t.Helper()
	e, err := New(Options{SampleRate: sampleRate, BufferFrames: 64, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// render runs text for n samples on a fresh engine.
func render(t *testing.T, sampleRate int, text string, n int) []Frame {
	t.Helper()
	e := newTestEngine(t, sampleRate)
	p := e.Load(text)
	if len(p.Diagnostics) > 0 {
		t.Fatalf("%q: %v", text, p.Diagnostics)
	}
	out := make([]Frame, n)
	e.Render(out)
	return out
}

func TestNewOptions(t *testing.T) {
	e, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if e.SampleRate() != DefaultSampleRate {
		t.Errorf("sample rate = %d", e.SampleRate())
	}
	if _, err := New(Options{SampleRate: -1}); err == nil {
		t.Error("negative sample rate accepted")
	}
	if _, err := New(Options{BufferFrames: -1}); err == nil {
		t.Error("negative buffer size accepted")
	}
}

func TestEngineRead(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.Load("0.25 -1 pan1")
	// more than one scratch buffer plus a partial frame
	p := make([]byte, 8*100+5)
	n, err := e.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 800 {
		t.Fatalf("read %d bytes, want 800", n)
	}
	for i := 0; i < n; i += 8 {
		l := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(p[i+4:]))
		if l != 0.25 || r != 0 {
			t.Fatalf("frame %d = (%v, %v), want (0.25, 0)", i/8, l, r)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Read(p); !errors.Is(err, ErrClosed) {
		t.Errorf("Read after Close: got %v, want ErrClosed", err)
	}
}

func TestEngineTick(t *testing.T) {
	e := newTestEngine(t, 48000)
	if got := e.Tick(); got != (Frame{}) {
		t.Errorf("empty engine: got %v", got)
	}
	e.Load("0.5 0.5 *")
	if got := e.Tick(); got != Mono(0.25) {
		t.Errorf("got %v, want 0.25", got)
	}
}

func TestRenderDoesNotAllocate(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.Load(`
		440 s 3 * 220 w 0.1 * + 1000 0.7 l
		6 m noise sh 0.1 * +
		0.01 dl:0.1 0.02 0.5 fb:0.1 pitch pop
		0.3 0.4 0.2 0.5 dup 6 m swap pop 0.01 0.1 0.5 0.1 adsr *
		1 wt:loop:0.5 0 rt:loop + spectral-shuffle
		-0.3 pan1 1 dig:1 pop`)
	buf := make([]Frame, 256)
	e.Render(buf)
	allocs := testing.AllocsPerRun(20, func() {
		e.Render(buf)
	})
	if allocs != 0 {
		t.Errorf("Render allocated %v times per run", allocs)
	}
}
