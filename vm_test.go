package garden

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// last renders n samples of text and returns the left channel of the last.
func last(t *testing.T, text string, n int) Smp {
	t.Helper()
	out := render(t, 48000, text, n)
	return out[n-1][0]
}

func TestSilence(t *testing.T) {
	for _, text := range []string{"", "// nothing", "1 pop"} {
		for i, f := range render(t, 48000, text, 16) {
			if f != (Frame{}) {
				t.Fatalf("%q: sample %d = %v, want silence", text, i, f)
			}
		}
	}
}

func TestConstantProgram(t *testing.T) {
	for i, f := range render(t, 48000, "0.5 0.5 *", 8) {
		if f != Mono(0.25) {
			t.Fatalf("sample %d = %v, want 0.25", i, f)
		}
	}
}

func TestSine(t *testing.T) {
	out := render(t, 48000, "440 0 sine", 200)
	for k, f := range out {
		want := math.Sin(2 * math.Pi * 440 * float64(k) / 48000)
		if !approx(f[0], want, 1e-9) || f[0] != f[1] {
			t.Fatalf("sample %d = %v, want %v", k, f, want)
		}
	}
}

func TestOscillatorPhaseOffset(t *testing.T) {
	if got := last(t, "0 0.25 sine", 1); !approx(got, 1, 1e-12) {
		t.Errorf("sine at phase 0.25 = %v, want 1", got)
	}
	if got := last(t, "0 c", 1); got != 1 {
		t.Errorf("cosine at phase 0 = %v, want 1", got)
	}
	if got := last(t, "0 0.25 0.5 pulse", 1); got != -1 {
		t.Errorf("pulse at phase 0.5 = %v, want -1", got)
	}
	out := render(t, 48000, "12000 ph", 5)
	for k, want := range []Smp{0, 0.25, 0.5, 0.75, 0} {
		if out[k][0] != want {
			t.Errorf("phasor sample %d = %v, want %v", k, out[k][0], want)
		}
	}
}

func TestStackWords(t *testing.T) {
	tests := []struct {
		text string
		want Smp
	}{
		{"1 2 swap", 1},
		{"1 2 pop", 1},
		{"3 dup +", 6},
		{"1 2 3 rot", 1},
		{"1 2 3 rot rot", 2},
		{"1 2 dig:0", 2},
		{"1 2 dig:1", 1},
		{"1 2 3 dig:2", 1},
		{"1 2 3 dig:2 pop", 3},
		{"1 2 3 dig:2 pop pop", 2},
		// underflow skips the operation
		{"1 +", 1},
		{"1 2 dig:2", 2},
		{"5 sine", 5},
	}
	for _, tt := range tests {
		if got := last(t, tt.text, 1); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSkippedOscillatorKeepsPhase(t *testing.T) {
	m := NewMachine(48000)
	p := compile("5 sine")
	for i := 0; i < 4; i++ {
		if out := m.Step(p); out != Mono(5) {
			t.Fatalf("step %d = %v, want 5", i, out)
		}
	}
	st, ok := p.instrs[1].state.(*oscState)
	if !ok {
		t.Fatalf("state = %T, want *oscState", p.instrs[1].state)
	}
	if st.phase != ([2]Smp{}) {
		t.Errorf("phase = %v, want unchanged", st.phase)
	}
}

func TestStackOverflow(t *testing.T) {
	m := NewMachine(48000)
	text := strings.Repeat("1 ", StackSize) + "2 dup"
	out := m.Step(compile(text))
	if m.StackSize() != StackSize {
		t.Errorf("depth = %d, want %d", m.StackSize(), StackSize)
	}
	if out != Mono(1) {
		t.Errorf("got %v, want the last value that fit", out)
	}
	// 255 values leave room for one more but not for dup of two
	m.Step(compile(strings.Repeat("1 ", StackSize-1) + "2 dup"))
	if m.Top() != Mono(2) || m.StackSize() != StackSize {
		t.Errorf("got top %v depth %d", m.Top(), m.StackSize())
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		text string
		want Smp
	}{
		{"7 2 -", 5},
		{"7 2 /", 3.5},
		{"1 0 /", 0},
		{"7 2 mod", 1},
		{"7 0 %", 0},
		{"2 3 ^", 8},
		{"-8 1/3 pow", 0},
		{"2 5 min", 2},
		{"2 5 max", 5},
		{"4 \\", 0.25},
		{"0.3 0.25 q", 0.25},
		{"0.5 cheb2", -0.5},
		{"0.5 cheb3", -1},
		{"1.5 wrap", -0.5},
		{"2 clip", 1},
		{"-2 clip", -1},
		{"0 u", 0.5},
		{"69 m2f", 440},
		{"880 f2m", 81},
		{"0 db", 1},
		{"-7 sign", -1},
		{"-7 abs", 7},
		{"2.5 floor", 2},
		{"5 0 10 0 1 linlin", 0.5},
		{"0 10 20 r", 15},
		{"5 0 1 clamp", 1},
		{"5 1 0 clamp", 1},
		{"1e308 10 *", 0},
	}
	for _, tt := range tests {
		if got := last(t, tt.text, 1); !approx(got, tt.want, 1e-9) {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
	if got := last(t, "0.5 circle", 1); !approx(got, math.Pi/2, 1e-12) {
		t.Errorf("circle = %v", got)
	}
	if got := last(t, "0 amp2db", 1); got != -120 {
		t.Errorf("amp2db of silence = %v, want -120", got)
	}
}

func TestPanning(t *testing.T) {
	tests := []struct {
		text string
		want Frame
	}{
		{"1 -1 pan1", Frame{1, 0}},
		{"1 1 pan1", Frame{0, 1}},
		{"1 -1 pan1 1 pan2", Frame{0, 0}},
		{"1 -1 pan1 -1 pan2", Frame{1, 0}},
		{"1 -1 pan1 1 panx", Frame{0, 1}},
		{"1 -1 pan1 0 panx", Frame{0.5, 0.5}},
		{"1 -1 pan1 ch:0", Frame{1, 1}},
		{"1 -1 pan1 ch:1", Frame{0, 0}},
	}
	for _, tt := range tests {
		got := render(t, 48000, tt.text, 1)[0]
		if !approx(got[0], tt.want[0], 1e-12) || !approx(got[1], tt.want[1], 1e-12) {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMetro(t *testing.T) {
	out := render(t, 48000, "6000 m", 24)
	for k, f := range out {
		want := Smp(0)
		if k%8 == 0 {
			want = 1
		}
		if f[0] != want {
			t.Errorf("metro sample %d = %v, want %v", k, f[0], want)
		}
	}
	out = render(t, 16, "0.5 dm", 24)
	for k, f := range out {
		want := Smp(0)
		if k%8 == 0 {
			want = 1
		}
		if f[0] != want {
			t.Errorf("dmetro sample %d = %v, want %v", k, f[0], want)
		}
	}
}

func TestMetroHoldLatchesRate(t *testing.T) {
	s := newMetroState()
	var fired []int
	for k := range 16 {
		rate := Mono(6000)
		if k > 0 {
			rate = Mono(12000)
		}
		if s.step(rate, false, true, 48000)[0] == 1 {
			fired = append(fired, k)
		}
	}
	// the rate latched at sample 0 lasts until the trigger at sample 8
	if len(fired) < 2 || fired[0] != 0 || fired[1] != 8 {
		t.Errorf("fired at %v", fired)
	}
}

func TestSampleHold(t *testing.T) {
	out := render(t, 48000, "noise 6000 m sh", 17)
	for k := 1; k < 8; k++ {
		if out[k] != out[0] {
			t.Fatalf("sample %d = %v, want held %v", k, out[k], out[0])
		}
	}
	if out[8] == out[0] || out[16] == out[8] {
		t.Error("sample&hold did not latch a new value")
	}
	s := &holdState{}
	for range 100 {
		s.smooth(Mono(1), Mono(0.1))
	}
	if !approx(s.held[0], 1, 1e-3) {
		t.Errorf("smooth sample&hold = %v, want about 1", s.held[0])
	}
}

func TestNoise(t *testing.T) {
	a := render(t, 48000, "noise", 1000)
	b := render(t, 48000, "noise", 1000)
	for k := range a {
		if a[k] != b[k] {
			t.Fatalf("sample %d differs between runs", k)
		}
		for c := range 2 {
			if a[k][c] < -1 || a[k][c] > 1 {
				t.Fatalf("sample %d out of range: %v", k, a[k])
			}
		}
	}
	if a[0][0] == a[0][1] {
		t.Error("channels are correlated")
	}
}

func TestOnePoleFilters(t *testing.T) {
	if got := last(t, "1 100 lpf", 48000); !approx(got, 1, 1e-6) {
		t.Errorf("lpf of DC = %v, want 1", got)
	}
	if got := last(t, "1 100 hpf", 48000); !approx(got, 0, 1e-6) {
		t.Errorf("hpf of DC = %v, want 0", got)
	}
	first := last(t, "1 100 lpf", 1)
	if want := 1 - cutoffToAlpha(100, 48000); !approx(first, want, 1e-12) {
		t.Errorf("first lpf sample = %v, want %v", first, want)
	}
}

func TestBiquadFilters(t *testing.T) {
	if got := last(t, "1 1000 0.707 l", 48000); !approx(got, 1, 1e-6) {
		t.Errorf("biquad lpf of DC = %v, want 1", got)
	}
	if got := last(t, "1 1000 0.707 h", 48000); !approx(got, 0, 1e-6) {
		t.Errorf("biquad hpf of DC = %v, want 0", got)
	}
	// a tone well above the cutoff is strongly attenuated
	out := render(t, 48000, "8000 s 200 0.707 l", 48000)
	peak := 0.0
	for _, f := range out[24000:] {
		peak = math.Max(peak, math.Abs(f[0]))
	}
	if peak > 0.01 {
		t.Errorf("8 kHz through 200 Hz lowpass peaks at %v", peak)
	}
}

func TestPrime(t *testing.T) {
	out := render(t, 48000, "1 prime", 3)
	if out[0] != (Frame{}) || out[1] != Mono(1) {
		t.Errorf("got %v", out)
	}
}

func TestDelay(t *testing.T) {
	out := render(t, 16, "0.1 m 0.5 dl:1", 24)
	for k, f := range out {
		want := Smp(0)
		if k == 8 {
			want = 1
		}
		if f[0] != want {
			t.Errorf("sample %d = %v, want %v", k, f[0], want)
		}
	}
	// zero time passes the input through
	if got := last(t, "0.7 0 dl:0.1", 1); got != 0.7 {
		t.Errorf("zero delay = %v", got)
	}
}

func TestFeedback(t *testing.T) {
	out := render(t, 16, "0.1 m 0.5 0.5 fb:2", 33)
	want := map[int]Smp{0: 1, 8: 0.5, 16: 0.25, 24: 0.125, 32: 0.0625}
	for k, f := range out {
		if f[0] != want[k] {
			t.Errorf("sample %d = %v, want %v", k, f[0], want[k])
		}
	}
}

func TestConvolution(t *testing.T) {
	out := render(t, 48000, "1 0.5 conv:4", 10)
	for k, want := range []Smp{0.5, 1, 1.5, 2, 2, 2} {
		if out[k][0] != want {
			t.Errorf("conv sample %d = %v, want %v", k, out[k][0], want)
		}
	}
	out = render(t, 16, "0.1 m 1 2 convm:2", 4)
	for k, want := range []Smp{2, 1, 0, 0} {
		if out[k][0] != want {
			t.Errorf("convm sample %d = %v, want %v", k, out[k][0], want)
		}
	}
}

func TestImpulse(t *testing.T) {
	out := render(t, 1000, "0.1 m 0.01 impulse", 40)
	if out[0][0] != 0 {
		t.Errorf("impulse starts at %v, want 0", out[0][0])
	}
	if !approx(out[10][0], 1, 1e-6) {
		t.Errorf("impulse at apex = %v, want 1", out[10][0])
	}
	if !(out[5][0] > 0 && out[5][0] < 1) || !(out[30][0] > 0 && out[30][0] < out[20][0]) {
		t.Errorf("impulse shape: %v %v %v", out[5][0], out[20][0], out[30][0])
	}
}

func TestADSR(t *testing.T) {
	out := render(t, 1000, "1 0.5 p 0.1 0.1 0.5 0.1 adsr", 800)
	peak := 0.0
	for _, f := range out[:200] {
		peak = math.Max(peak, f[0])
	}
	if peak != 1 {
		t.Errorf("attack peak = %v, want 1", peak)
	}
	if !approx(out[49][0], 0.5, 0.02) {
		t.Errorf("mid attack = %v, want about 0.5", out[49][0])
	}
	if out[300][0] != 0.5 || out[499][0] != 0.5 {
		t.Errorf("sustain = %v %v, want 0.5", out[300][0], out[499][0])
	}
	if out[700][0] != 0 {
		t.Errorf("after release = %v, want 0", out[700][0])
	}
}

func TestPitch(t *testing.T) {
	for _, freq := range []Smp{220, 440, 1000} {
		text := formatFloat(freq) + " s pitch"
		if got := last(t, text, 4096); !approx(got, freq, 2) {
			t.Errorf("%q = %v", text, got)
		}
	}
	if got := last(t, "0 pitch", 4096); got != 0 {
		t.Errorf("pitch of silence = %v, want 0", got)
	}
}

func TestSpectral(t *testing.T) {
	for _, text := range []string{"440 s spectral-shuffle", "440 s spectral-reverse"} {
		out := render(t, 48000, text, 8192)
		energy := 0.0
		for k, f := range out {
			if math.Abs(f[0]) > 4 || math.Abs(f[1]) > 4 {
				t.Fatalf("%q: sample %d = %v", text, k, f)
			}
			energy += f[0] * f[0]
		}
		if energy == 0 {
			t.Errorf("%q: no output", text)
		}
	}
}

func TestSpectralReverseIdentity(t *testing.T) {
	// reversing twice restores the bin order; a constant comes out
	// unchanged once both stages have settled
	out := render(t, 48000, "0.3 spectral-reverse spectral-reverse", 5*spectralWindowSize)
	if got := out[len(out)-1][0]; !approx(got, 0.3, 1e-6) {
		t.Errorf("got %v, want 0.3", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	text := "440 s noise 0.1 * + 0.3 0.5 fb:1 spectral-shuffle dup pitch 0.0001 * +"
	a := render(t, 48000, text, 8192)
	b := render(t, 48000, text, 8192)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two fresh engines disagree (-first +second):\n%s", diff)
	}
}
