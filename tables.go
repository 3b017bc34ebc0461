package garden

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// MaxFrames bounds every buffer sized by a compile-time parameter:
// tables, delay lines and convolution windows.
const MaxFrames = 1 << 24

// Table is a named buffer of frames. Its buffer is allocated once, on
// the control path, and published atomically; from then on only the
// render path writes to it.
type Table struct {
	Name string
	data atomic.Pointer[[]Frame]
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(name=%s nframes=%d)", t.Name, t.Len())
}

// Len returns the capacity of the table in frames, 0 while unsized.
func (t *Table) Len() int {
	if p := t.data.Load(); p != nil {
		return len(*p)
	}
	return 0
}

// Frames returns the table buffer. The caller must not use it while a
// render is in progress.
func (t *Table) Frames() []Frame {
	if p := t.data.Load(); p != nil {
		return *p
	}
	return nil
}

// GetInterpolatedSampleAt reads channel c at a fractional frame
// position. Positions outside the table wrap around.
func (t *Table) GetInterpolatedSampleAt(c int, frame float64) Smp {
	p := t.data.Load()
	if p == nil || len(*p) == 0 {
		return 0
	}
	samples := *p
	n := float64(len(samples))
	frame = math.Mod(frame, n)
	if frame < 0 {
		frame += n
	}
	frameIndexLo := math.Floor(frame)
	lo := int(frameIndexLo)
	if lo >= len(samples) {
		lo = 0
	}
	hi := lo + 1
	if hi == len(samples) {
		hi = 0
	}
	smpLo := samples[lo][c]
	smpHi := samples[hi][c]
	frameIndexDelta := frame - frameIndexLo
	return smpLo + (smpHi-smpLo)*frameIndexDelta
}

// read converts the indexer (seconds, per channel) into frames.
func (t *Table) read(index Frame, sr Smp) Frame {
	return Frame{
		t.GetInterpolatedSampleAt(0, finite(index[0])*sr),
		t.GetInterpolatedSampleAt(1, finite(index[1])*sr),
	}
}

// tableWriteState records into a table after each trigger.
type tableWriteState struct {
	pos       [2]int
	recording [2]bool
	prev      Frame
}

// write passes x through and records it while a recording is running.
func (s *tableWriteState) write(t *Table, x, trig Frame) Frame {
	p := t.data.Load()
	if p == nil {
		return x
	}
	samples := *p
	for c := range 2 {
		if rising(s.prev[c], trig[c]) {
			s.recording[c] = true
			s.pos[c] = 0
		}
		s.prev[c] = trig[c]
		if s.recording[c] {
			if s.pos[c] < len(samples) {
				samples[s.pos[c]][c] = x[c]
				s.pos[c]++
			}
			if s.pos[c] >= len(samples) {
				s.recording[c] = false
			}
		}
	}
	return x
}

// Tables is the table registry of an engine. The mutex guards the name
// map and is only taken on the control path.
type Tables struct {
	mu         sync.Mutex
	sampleRate int
	byName     map[string]*Table
}

func NewTables(sampleRate int) *Tables {
	return &Tables{
		sampleRate: sampleRate,
		byName:     make(map[string]*Table),
	}
}

// Get returns the named table or nil.
func (ts *Tables) Get(name string) *Table {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.byName[name]
}

// Names returns the sorted names of all tables.
func (ts *Tables) Names() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	names := make([]string, 0, len(ts.byName))
	for name := range ts.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup returns the named table, creating an unsized one if needed.
func (ts *Tables) lookup(name string) *Table {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.byName[name]
	if !ok {
		t = &Table{Name: name}
		ts.byName[name] = t
	}
	return t
}

// Reserve sizes the named table for seconds of audio unless it already
// has a buffer. A table is never resized; asking for a different size
// returns the existing table together with ErrTableResize.
func (ts *Tables) Reserve(name string, seconds float64) (*Table, error) {
	f := math.Round(seconds * float64(ts.sampleRate))
	if !(f >= 0 && f <= MaxFrames) {
		return ts.lookup(name), fmt.Errorf("%w: %s: %v seconds is out of range", ErrBadParam, name, seconds)
	}
	return ts.reserveFrames(name, int(f))
}

func (ts *Tables) reserveFrames(name string, nframes int) (*Table, error) {
	t := ts.lookup(name)
	if nframes > MaxFrames {
		return t, fmt.Errorf("%w: %s: %d frames is out of range", ErrBadParam, name, nframes)
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if p := t.data.Load(); p != nil {
		if len(*p) != nframes {
			return t, fmt.Errorf("%w: %s has %d frames", ErrTableResize, name, len(*p))
		}
		return t, nil
	}
	samples := make([]Frame, nframes)
	t.data.Store(&samples)
	return t, nil
}

// Load creates the named table with the given contents. It must run
// before the table takes part in rendering.
func (ts *Tables) Load(name string, frames []Frame) (*Table, error) {
	t, err := ts.reserveFrames(name, len(frames))
	if err != nil {
		return t, err
	}
	copy(t.Frames(), frames)
	return t, nil
}
