// Package simulation holds the parameter set handed to the external
// electromagnetic solver: a dielectric slab in a 1-D cell bounded by PML,
// excited by a Gaussian pulse. Lengths are in µm and frequencies in 1/µm.
package simulation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams reports an inconsistent parameter set.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// SpeedOfLight in µm/ps, so 1/µm times this is THz.
const SpeedOfLight = 299.792458

// Params is the solver configuration.
type Params struct {
	Resolution      int     `yaml:"resolution" json:"resolution"`         // pixels per µm
	PMLThickness    float64 `yaml:"pml_thickness" json:"pml_thickness"`   // per side
	Interior        float64 `yaml:"interior" json:"interior"`             // cell length without PML
	SlabThickness   float64 `yaml:"slab_thickness" json:"slab_thickness"` // centered at z=0
	Epsilon         float64 `yaml:"epsilon" json:"epsilon"`
	Dimensions      int     `yaml:"dimensions" json:"dimensions"`
	NumFrequencies  int     `yaml:"num_frequencies" json:"num_frequencies"`
	FMin            float64 `yaml:"fmin" json:"fmin"`
	FMax            float64 `yaml:"fmax" json:"fmax"`
	SourceZ         float64 `yaml:"source_z" json:"source_z"`
	SourceComponent string  `yaml:"source_component" json:"source_component"`
}

// Derived holds values computed from Params.
type Derived struct {
	CellZ           float64 `yaml:"cell_z" json:"cell_z"`
	CenterFrequency float64 `yaml:"fcen" json:"fcen"`
	FrequencyWidth  float64 `yaml:"df" json:"df"`
	CenterTHz       float64 `yaml:"fcen_thz" json:"fcen_thz"`
	GridPoints      int     `yaml:"grid_points" json:"grid_points"`
}

// DefaultParams returns the 500 nm, eps=12 slab setup.
func DefaultParams() Params {
	return Params{
		Resolution:      1000,
		PMLThickness:    1.0,
		Interior:        6,
		SlabThickness:   0.5,
		Epsilon:         12,
		Dimensions:      1,
		NumFrequencies:  200,
		FMin:            1, // 300 THz
		FMax:            3, // 900 THz
		SourceZ:         -2,
		SourceComponent: "Ex",
	}
}

// WithDefaults fills zero fields from DefaultParams. A completely empty
// Params becomes DefaultParams; otherwise SourceZ is kept as given since 0
// is a valid position.
func WithDefaults(p Params) Params {
	d := DefaultParams()
	if p == (Params{}) {
		return d
	}
	if p.Resolution == 0 {
		p.Resolution = d.Resolution
	}
	if p.PMLThickness == 0 {
		p.PMLThickness = d.PMLThickness
	}
	if p.Interior == 0 {
		p.Interior = d.Interior
	}
	if p.SlabThickness == 0 {
		p.SlabThickness = d.SlabThickness
	}
	if p.Epsilon == 0 {
		p.Epsilon = d.Epsilon
	}
	if p.Dimensions == 0 {
		p.Dimensions = d.Dimensions
	}
	if p.NumFrequencies == 0 {
		p.NumFrequencies = d.NumFrequencies
	}
	if p.FMin == 0 && p.FMax == 0 {
		p.FMin, p.FMax = d.FMin, d.FMax
	}
	if p.SourceComponent == "" {
		p.SourceComponent = d.SourceComponent
	}
	return p
}

var components = map[string]bool{
	"Ex": true, "Ey": true, "Ez": true,
	"Hx": true, "Hy": true, "Hz": true,
}

// Validate checks the parameter set for consistency.
func (p Params) Validate() error {
	switch {
	case p.Resolution <= 0:
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidParams, p.Resolution)
	case p.PMLThickness <= 0:
		return fmt.Errorf("%w: pml_thickness must be positive, got %g", ErrInvalidParams, p.PMLThickness)
	case p.Interior <= 0:
		return fmt.Errorf("%w: interior must be positive, got %g", ErrInvalidParams, p.Interior)
	case p.SlabThickness <= 0 || p.SlabThickness >= p.Interior:
		return fmt.Errorf("%w: slab_thickness %g must be in (0, %g)", ErrInvalidParams, p.SlabThickness, p.Interior)
	case p.Epsilon < 1:
		return fmt.Errorf("%w: epsilon must be >= 1, got %g", ErrInvalidParams, p.Epsilon)
	case p.Dimensions < 1 || p.Dimensions > 3:
		return fmt.Errorf("%w: dimensions must be 1, 2 or 3, got %d", ErrInvalidParams, p.Dimensions)
	case p.NumFrequencies < 2:
		return fmt.Errorf("%w: num_frequencies must be >= 2, got %d", ErrInvalidParams, p.NumFrequencies)
	case p.FMin <= 0 || p.FMin >= p.FMax:
		return fmt.Errorf("%w: need 0 < fmin < fmax, got fmin=%g fmax=%g", ErrInvalidParams, p.FMin, p.FMax)
	case math.Abs(p.SourceZ) >= p.Interior/2:
		return fmt.Errorf("%w: source_z %g lies in the PML (interior half-width %g)", ErrInvalidParams, p.SourceZ, p.Interior/2)
	case !components[p.SourceComponent]:
		return fmt.Errorf("%w: unknown source_component %q", ErrInvalidParams, p.SourceComponent)
	}
	return nil
}

// CellZ is the full cell length including both PML layers.
func (p Params) CellZ() float64 {
	return p.Interior + 2*p.PMLThickness
}

// CenterFrequency of the Gaussian source.
func (p Params) CenterFrequency() float64 {
	return (p.FMin + p.FMax) / 2
}

// FrequencyWidth of the Gaussian source.
func (p Params) FrequencyWidth() float64 {
	return p.FMax - p.FMin
}

// Frequencies returns NumFrequencies values evenly spaced over [FMin, FMax].
func (p Params) Frequencies() []float64 {
	n := p.NumFrequencies
	if n < 2 {
		return []float64{p.FMin}
	}
	out := make([]float64, n)
	step := (p.FMax - p.FMin) / float64(n-1)
	for i := range out {
		out[i] = p.FMin + float64(i)*step
	}
	out[n-1] = p.FMax
	return out
}

// AngularFrequencies returns 2*pi*f for every frequency.
func (p Params) AngularFrequencies() []float64 {
	freqs := p.Frequencies()
	for i, f := range freqs {
		freqs[i] = 2 * math.Pi * f
	}
	return freqs
}

// Derive computes the derived values.
func (p Params) Derive() Derived {
	return Derived{
		CellZ:           p.CellZ(),
		CenterFrequency: p.CenterFrequency(),
		FrequencyWidth:  p.FrequencyWidth(),
		CenterTHz:       THz(p.CenterFrequency()),
		GridPoints:      int(math.Round(p.CellZ() * float64(p.Resolution))),
	}
}

// THz converts a frequency in 1/µm to THz.
func THz(f float64) float64 {
	return f * SpeedOfLight
}
