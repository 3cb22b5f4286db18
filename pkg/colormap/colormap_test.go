package colormap

import (
	"errors"
	"image/color"
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const eps = 1e-12

func mustResolve(t *testing.T, token string) colorful.Color {
	t.Helper()
	c, err := DefaultResolver.Resolve(token)
	if err != nil {
		t.Fatalf("resolve %q: %v", token, err)
	}
	return c
}

func mustPreset(t *testing.T, name string) *LinearColormap {
	t.Helper()
	spec, ok := PresetSpec(name)
	if !ok {
		t.Fatalf("preset %q not found", name)
	}
	c, err := Build(spec, nil)
	if err != nil {
		t.Fatalf("build %q: %v", name, err)
	}
	return c
}

func near(a, b colorful.Color) bool {
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps && math.Abs(a.B-b.B) <= eps
}

func TestStopsAreExact(t *testing.T) {
	t.Parallel()

	for _, spec := range Presets {
		spec := spec
		t.Run(spec.Name, func(t *testing.T) {
			t.Parallel()
			c, err := Build(spec, nil)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			for i, s := range c.Stops() {
				if got := c.Eval(s.Pos); got != s.Color {
					t.Fatalf("stop %d at %g: got %v want %v", i, s.Pos, got, s.Color)
				}
				want := mustResolve(t, spec.Colors[i])
				if s.Color != want {
					t.Fatalf("stop %d color %v, want resolved %v", i, s.Color, want)
				}
			}
		})
	}
}

func TestMycmapScenario(t *testing.T) {
	t.Parallel()

	c := mustPreset(t, "mycmap")
	blue := mustResolve(t, "blue")
	black := mustResolve(t, "black")

	if got := c.Eval(0.35); got != blue {
		t.Fatalf("Eval(0.35) = %v, want blue %v", got, blue)
	}

	mid := colorful.Color{
		R: (blue.R + black.R) / 2,
		G: (blue.G + black.G) / 2,
		B: (blue.B + black.B) / 2,
	}
	if got := c.Eval(0.425); !near(got, mid) {
		t.Fatalf("Eval(0.425) = %v, want %v", got, mid)
	}

	if got := c.At(0.35); got != (color.RGBA{R: 0, G: 0, B: 255, A: 255}) {
		t.Fatalf("At(0.35) = %#v", got)
	}
	if got := c.At(0); got != (color.RGBA{R: 0x48, G: 0x3d, B: 0x8b, A: 255}) {
		t.Fatalf("At(0) = %#v, want darkslateblue", got)
	}
}

func TestSegmentsDoNotOvershoot(t *testing.T) {
	t.Parallel()

	for _, spec := range Presets {
		c, err := Build(spec, nil)
		if err != nil {
			t.Fatalf("build %q: %v", spec.Name, err)
		}
		stops := c.Stops()
		for i := 0; i+1 < len(stops); i++ {
			lo, hi := stops[i], stops[i+1]
			prev := lo.Color
			const steps = 50
			for k := 1; k <= steps; k++ {
				tt := lo.Pos + (hi.Pos-lo.Pos)*float64(k)/steps
				got := c.Eval(tt)
				checkChannel(t, spec.Name, tt, prev.R, got.R, lo.Color.R, hi.Color.R)
				checkChannel(t, spec.Name, tt, prev.G, got.G, lo.Color.G, hi.Color.G)
				checkChannel(t, spec.Name, tt, prev.B, got.B, lo.Color.B, hi.Color.B)
				prev = got
			}
		}
	}
}

func checkChannel(t *testing.T, name string, at, prev, got, from, to float64) {
	t.Helper()
	lo, hi := math.Min(from, to), math.Max(from, to)
	if got < lo-eps || got > hi+eps {
		t.Fatalf("%s: channel %g at t=%g outside [%g, %g]", name, got, at, lo, hi)
	}
	if to >= from && got < prev-eps {
		t.Fatalf("%s: channel decreased at t=%g (%g -> %g)", name, at, prev, got)
	}
	if to < from && got > prev+eps {
		t.Fatalf("%s: channel increased at t=%g (%g -> %g)", name, at, prev, got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	spec, _ := PresetSpec("mycmap2")
	a, err := Build(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= 1000; i++ {
		tt := float64(i) / 1000
		if !near(a.Eval(tt), b.Eval(tt)) {
			t.Fatalf("builds disagree at t=%g: %v vs %v", tt, a.Eval(tt), b.Eval(tt))
		}
	}
}

func TestClampOutsideUnitInterval(t *testing.T) {
	t.Parallel()

	c := mustPreset(t, "mycmap1")
	first := mustResolve(t, "red")
	last := mustResolve(t, "blue")

	tests := []struct {
		t    float64
		want colorful.Color
	}{
		{0, first},
		{-0.5, first},
		{math.Inf(-1), first},
		{1, last},
		{1.5, last},
		{math.Inf(1), last},
	}
	for _, tc := range tests {
		if got := c.Eval(tc.t); got != tc.want {
			t.Errorf("Eval(%g) = %v, want %v", tc.t, got, tc.want)
		}
	}

	if got := c.At(math.NaN()); got != (color.RGBA{}) {
		t.Errorf("At(NaN) = %#v, want transparent", got)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"lengthMismatch", Spec{Name: "x", Positions: []float64{0, 0.5}, Colors: []string{"red", "green", "blue"}}, ErrInvalidSpec},
		{"singleStop", Spec{Name: "x", Positions: []float64{0}, Colors: []string{"red"}}, ErrInvalidSpec},
		{"singleEvenStop", Spec{Name: "x", Colors: []string{"red"}}, ErrInvalidSpec},
		{"noStops", Spec{Name: "x"}, ErrInvalidSpec},
		{"unsorted", Spec{Name: "x", Positions: []float64{0, 0.6, 0.4, 1}, Colors: []string{"red", "green", "blue", "black"}}, ErrInvalidSpec},
		{"duplicate", Spec{Name: "x", Positions: []float64{0, 0.5, 0.5, 1}, Colors: []string{"red", "green", "blue", "black"}}, ErrInvalidSpec},
		{"notStartingAtZero", Spec{Name: "x", Positions: []float64{0.1, 1}, Colors: []string{"red", "blue"}}, ErrInvalidSpec},
		{"notEndingAtOne", Spec{Name: "x", Positions: []float64{0, 0.9}, Colors: []string{"red", "blue"}}, ErrInvalidSpec},
		{"nan", Spec{Name: "x", Positions: []float64{0, math.NaN(), 1}, Colors: []string{"red", "green", "blue"}}, ErrInvalidSpec},
		{"unknownName", Spec{Name: "x", Positions: []float64{0, 1}, Colors: []string{"red", "notacolor"}}, ErrUnknownColorName},
		{"badHex", Spec{Name: "x", Positions: []float64{0, 1}, Colors: []string{"#zzzzzz", "red"}}, ErrUnknownColorName},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := Build(tc.spec, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if c != nil {
				t.Fatalf("expected nil colormap on error")
			}
		})
	}
}

func TestBuildRGB(t *testing.T) {
	t.Parallel()

	red := colorful.Color{R: 1}
	green := colorful.Color{G: 1}
	c, err := BuildRGB("rg", []float64{0, 1}, []colorful.Color{red, green})
	if err != nil {
		t.Fatalf("BuildRGB: %v", err)
	}
	if got := c.Eval(0.25); !near(got, colorful.Color{R: 0.75, G: 0.25}) {
		t.Fatalf("Eval(0.25) = %v", got)
	}

	if _, err := BuildRGB("bad", []float64{0, 0.5}, []colorful.Color{red, green, red}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestEvenPositions(t *testing.T) {
	t.Parallel()

	c := mustPreset(t, "viridis")
	stops := c.Stops()
	if len(stops) != 11 {
		t.Fatalf("expected 11 stops, got %d", len(stops))
	}
	if stops[0].Pos != 0 || stops[10].Pos != 1 || math.Abs(stops[5].Pos-0.5) > eps {
		t.Fatalf("unexpected positions: %v %v %v", stops[0].Pos, stops[5].Pos, stops[10].Pos)
	}
	if got := c.At(1); got != (color.RGBA{R: 253, G: 231, B: 37, A: 255}) {
		t.Fatalf("viridis.At(1) = %#v", got)
	}
}

func TestReversed(t *testing.T) {
	t.Parallel()

	c := mustPreset(t, "mycmap")
	r := c.Reversed()
	if r.Name() != "mycmap_r" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	for i := 0; i <= 100; i++ {
		tt := float64(i) / 100
		if !near(r.Eval(tt), c.Eval(1-tt)) {
			t.Fatalf("reversed mismatch at %g: %v vs %v", tt, r.Eval(tt), c.Eval(1-tt))
		}
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	c := mustPreset(t, "mycmap2")
	lut := Sample(c, 5)
	want := []color.RGBA{
		{255, 255, 255, 255},
		{0, 255, 255, 255},
		{0, 0, 255, 255},
		{255, 0, 0, 255},
		{255, 255, 0, 255},
	}
	if len(lut) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(lut))
	}
	for i := range want {
		if lut[i] != want[i] {
			t.Errorf("lut[%d] = %#v, want %#v", i, lut[i], want[i])
		}
	}

	if got := len(Sample(c, 0)); got != 2 {
		t.Fatalf("Sample(0) should clamp to 2 entries, got %d", got)
	}
}

func TestCategoricalColormap(t *testing.T) {
	t.Parallel()

	c0, ok := Categorical.At(0).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=0")
	}
	if c0 != (color.RGBA{R: 31, G: 119, B: 180, A: 255}) {
		t.Fatalf("unexpected Categorical.At(0): %#v", c0)
	}

	c1 := Categorical.At(1).(color.RGBA)
	if c1 != (color.RGBA{R: 158, G: 218, B: 229, A: 255}) {
		t.Fatalf("unexpected Categorical.At(1): %#v", c1)
	}

	if Categorical.AtIndex(20) != Categorical.AtIndex(0) {
		t.Fatalf("AtIndex should wrap around")
	}
	if Categorical.AtIndex(-1) != Categorical.AtIndex(19) {
		t.Fatalf("negative AtIndex should wrap from the end")
	}
}
