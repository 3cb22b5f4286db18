// Package colormap provides color schemes for visualization.
package colormap

import (
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps normalized values [0, 1] to colors.
type Colormap interface {
	Name() string
	At(t float64) color.Color
	AtIndex(i int) color.Color
}

// Stop is one anchor of a linear colormap.
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// LinearColormap interpolates each RGB channel linearly between adjacent stops.
// A LinearColormap is immutable once built.
type LinearColormap struct {
	name      string
	positions []float64
	colors    []colorful.Color
}

// Name returns the colormap name.
func (c *LinearColormap) Name() string {
	return c.name
}

// Eval returns the exact color at position t (0-1).
// Values outside [0, 1] clamp to the end colors; NaN yields the zero color.
func (c *LinearColormap) Eval(t float64) colorful.Color {
	if math.IsNaN(t) {
		return colorful.Color{}
	}
	n := len(c.positions)
	if t <= c.positions[0] {
		return c.colors[0]
	}
	if t >= c.positions[n-1] {
		return c.colors[n-1]
	}

	// upper is the first stop with position >= t; 0 < upper < n here.
	upper := sort.SearchFloat64s(c.positions, t)
	if c.positions[upper] == t {
		return c.colors[upper]
	}
	lower := upper - 1

	frac := (t - c.positions[lower]) / (c.positions[upper] - c.positions[lower])
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return c.colors[lower].BlendRgb(c.colors[upper], frac)
}

// At returns the color at position t (0-1), quantized to 8 bits per channel.
// NaN maps to transparent.
func (c *LinearColormap) At(t float64) color.Color {
	if math.IsNaN(t) {
		return color.RGBA{}
	}
	return toRGBA(c.Eval(t))
}

// AtIndex returns the color of stop i (wraps around).
func (c *LinearColormap) AtIndex(i int) color.Color {
	n := len(c.colors)
	i %= n
	if i < 0 {
		i += n
	}
	return toRGBA(c.colors[i])
}

// Stops returns a copy of the colormap's stops.
func (c *LinearColormap) Stops() []Stop {
	stops := make([]Stop, len(c.positions))
	for i := range c.positions {
		stops[i] = Stop{Pos: c.positions[i], Color: c.colors[i]}
	}
	return stops
}

// Reversed returns the colormap mirrored around 0.5, named with an "_r" suffix.
func (c *LinearColormap) Reversed() *LinearColormap {
	n := len(c.positions)
	r := &LinearColormap{
		name:      c.name + "_r",
		positions: make([]float64, n),
		colors:    make([]colorful.Color, n),
	}
	for i := 0; i < n; i++ {
		r.positions[i] = 1 - c.positions[n-1-i]
		r.colors[i] = c.colors[n-1-i]
	}
	// keep the exact end points after the subtraction
	r.positions[0] = 0
	r.positions[n-1] = 1
	return r
}

// Sample returns n colors evenly spaced over [0, 1], including both ends.
// n < 2 is treated as 2.
func Sample(c Colormap, n int) []color.RGBA {
	if n < 2 {
		n = 2
	}
	out := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = rgbaOf(c.At(t))
	}
	return out
}

func rgbaOf(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ListedColormap provides distinct colors for categories.
type ListedColormap struct {
	name   string
	colors []color.RGBA
}

// NewListedColormap creates a listed colormap. It panics on an empty color list.
func NewListedColormap(name string, colors []color.RGBA) *ListedColormap {
	if len(colors) == 0 {
		panic("colormap: listed colormap " + name + " has no colors")
	}
	cp := make([]color.RGBA, len(colors))
	copy(cp, colors)
	return &ListedColormap{name: name, colors: cp}
}

// Name returns the colormap name.
func (c *ListedColormap) Name() string {
	return c.name
}

// Len returns the number of colors.
func (c *ListedColormap) Len() int {
	return len(c.colors)
}

// At returns color at position t.
func (c *ListedColormap) At(t float64) color.Color {
	if math.IsNaN(t) {
		return color.RGBA{}
	}
	idx := int(t * float64(len(c.colors)))
	if idx >= len(c.colors) {
		idx = len(c.colors) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return c.colors[idx]
}

// AtIndex returns color at index.
func (c *ListedColormap) AtIndex(i int) color.Color {
	n := len(c.colors)
	i %= n
	if i < 0 {
		i += n
	}
	return c.colors[i]
}
