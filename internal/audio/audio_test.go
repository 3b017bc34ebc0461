package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cellux/garden"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sine(freq float64, sampleRate, n int) []garden.Frame {
	frames := make([]garden.Frame, n)
	for i := range frames {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		frames[i] = garden.Frame{v, v / 2}
	}
	return frames
}

func TestWAVExportImport(t *testing.T) {
	const sr = 8000
	want := sine(440, sr, 800)
	want[0] = garden.Frame{1, -1}
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, want, sr); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path, sr)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-4)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWAVClipsOutOfRange(t *testing.T) {
	const sr = 8000
	path := filepath.Join(t.TempDir(), "loud.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, []garden.Frame{{4, -4}}, sr); err != nil {
		t.Fatal(err)
	}
	f.Close()
	got, err := LoadFile(path, sr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0][0] > 1 || got[0][1] < -1 {
		t.Errorf("got %v, want clipped samples", got)
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("440 s"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path, 48000); err == nil {
		t.Error("expected an error")
	}
}

func TestToStereo(t *testing.T) {
	tests := []struct {
		name      string
		in        []float32
		nchannels int
		want      []float32
	}{
		{"mono", []float32{1, 2}, 1, []float32{1, 1, 2, 2}},
		{"stereo", []float32{1, 2, 3, 4}, 2, []float32{1, 2, 3, 4}},
		{"quad", []float32{1, 2, 3, 4, 5, 6, 7, 8}, 4, []float32{1, 2, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, toStereo(tt.in, tt.nchannels)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsValidRatio(t *testing.T) {
	for ratio, want := range map[float64]bool{1: true, 0.5: true, 16: true, 32: false, 0.01: false} {
		if got := isValidRatio(ratio); got != want {
			t.Errorf("isValidRatio(%v) = %v, want %v", ratio, got, want)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	const sr = 48000
	for _, freq := range []float64{110, 440, 1000} {
		got := DominantFrequency(sine(freq, sr, 16384), sr)
		if math.Abs(got-freq) > 2 {
			t.Errorf("DominantFrequency(%v Hz sine) = %v", freq, got)
		}
	}
	if got := DominantFrequency(make([]garden.Frame, 1024), sr); got != 0 {
		t.Errorf("silence: got %v, want 0", got)
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]garden.Frame{{0.1, -0.7}, {0.3, 0.2}}); got != 0.7 {
		t.Errorf("Peak = %v, want 0.7", got)
	}
}
