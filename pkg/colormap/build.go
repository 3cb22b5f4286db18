package colormap

import (
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidSpec reports a structural problem in a stop list.
	ErrInvalidSpec = errors.New("invalid colormap spec")
	// ErrUnknownColorName reports a color token the resolver does not know.
	ErrUnknownColorName = errors.New("unknown color name")
)

// Spec describes a colormap as parallel lists of stop positions and color tokens.
// Empty Positions means the colors are evenly spaced over [0, 1].
// Positions must be strictly increasing; repeated positions (hard edges) are rejected.
type Spec struct {
	Name      string    `yaml:"name" json:"name"`
	Positions []float64 `yaml:"positions,omitempty" json:"positions,omitempty"`
	Colors    []string  `yaml:"colors" json:"colors"`
}

// Even returns n positions evenly spaced over [0, 1].
func Even(n int) []float64 {
	if n < 2 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	out[n-1] = 1
	return out
}

// Build resolves the spec's colors and builds a linear colormap.
// A nil resolver means DefaultResolver.
func Build(spec Spec, resolver Resolver) (*LinearColormap, error) {
	if resolver == nil {
		resolver = DefaultResolver
	}

	positions := spec.Positions
	if len(positions) == 0 {
		positions = Even(len(spec.Colors))
	}
	if err := validate(spec.Name, positions, len(spec.Colors)); err != nil {
		return nil, err
	}

	colors := make([]colorful.Color, len(spec.Colors))
	for i, token := range spec.Colors {
		c, err := resolver.Resolve(token)
		if err != nil {
			return nil, fmt.Errorf("colormap %q: stop %d: %w", spec.Name, i, err)
		}
		colors[i] = c
	}

	return newLinear(spec.Name, positions, colors), nil
}

// BuildRGB builds a linear colormap from colors that are already RGB triples.
func BuildRGB(name string, positions []float64, colors []colorful.Color) (*LinearColormap, error) {
	if err := validate(name, positions, len(colors)); err != nil {
		return nil, err
	}
	return newLinear(name, positions, colors), nil
}

func newLinear(name string, positions []float64, colors []colorful.Color) *LinearColormap {
	c := &LinearColormap{
		name:      name,
		positions: make([]float64, len(positions)),
		colors:    make([]colorful.Color, len(colors)),
	}
	copy(c.positions, positions)
	copy(c.colors, colors)
	return c
}

func validate(name string, positions []float64, nColors int) error {
	if nColors != len(positions) {
		return fmt.Errorf("colormap %q: %w: %d positions for %d colors", name, ErrInvalidSpec, len(positions), nColors)
	}
	if nColors < 2 {
		return fmt.Errorf("colormap %q: %w: need at least 2 stops, got %d", name, ErrInvalidSpec, nColors)
	}
	for i, p := range positions {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("colormap %q: %w: position %d is not finite", name, ErrInvalidSpec, i)
		}
		if i > 0 && p <= positions[i-1] {
			return fmt.Errorf("colormap %q: %w: positions not strictly increasing at index %d (%g <= %g)",
				name, ErrInvalidSpec, i, p, positions[i-1])
		}
	}
	if positions[0] != 0 {
		return fmt.Errorf("colormap %q: %w: first position must be 0, got %g", name, ErrInvalidSpec, positions[0])
	}
	if last := positions[len(positions)-1]; last != 1 {
		return fmt.Errorf("colormap %q: %w: last position must be 1, got %g", name, ErrInvalidSpec, last)
	}
	return nil
}
