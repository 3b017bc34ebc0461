// Package snapshot persists table contents between sessions.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cellux/garden"
	"github.com/fxamacker/cbor/v2"
)

var ErrSampleRate = errors.New("snapshot: sample rate mismatch")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot holds the recorded contents of every sized table.
type Snapshot struct {
	SampleRate int     `cbor:"1,keyasint"`
	Tables     []Table `cbor:"2,keyasint,omitempty"`
}

// Table stores one table as interleaved stereo samples.
type Table struct {
	Name    string    `cbor:"1,keyasint"`
	Samples []float64 `cbor:"2,keyasint"`
}

// Frames returns the samples of t as frames.
func (t *Table) Frames() []garden.Frame {
	frames := make([]garden.Frame, len(t.Samples)/2)
	for i := range frames {
		frames[i] = garden.Frame{t.Samples[2*i], t.Samples[2*i+1]}
	}
	return frames
}

// Capture copies every sized table of ts. Rendering must be stopped.
func Capture(ts *garden.Tables, sampleRate int) *Snapshot {
	s := &Snapshot{SampleRate: sampleRate}
	for _, name := range ts.Names() {
		frames := ts.Get(name).Frames()
		if len(frames) == 0 {
			continue
		}
		samples := make([]float64, 0, 2*len(frames))
		for _, f := range frames {
			samples = append(samples, f[0], f[1])
		}
		s.Tables = append(s.Tables, Table{Name: name, Samples: samples})
	}
	return s
}

// Restore loads the tables of s into ts. Tables that ts already holds
// with a different size are skipped and reported in the returned error.
func (s *Snapshot) Restore(ts *garden.Tables, sampleRate int) error {
	if s.SampleRate != sampleRate {
		return fmt.Errorf("%w: %d != %d", ErrSampleRate, s.SampleRate, sampleRate)
	}
	var errs []error
	for i := range s.Tables {
		t := &s.Tables[i]
		if _, err := ts.Load(t.Name, t.Frames()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

// Save writes s to path.
func Save(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads the snapshot at path. A missing file yields nil and no error.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return Unmarshal(data)
}
