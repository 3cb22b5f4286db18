package colormap

import (
	"fmt"
	"image/color"
)

// Presets are the built-in linear colormaps, registered in this order.
var Presets = []Spec{
	{
		Name:      "mycmap",
		Positions: []float64{0.0, 0.35, 0.5, 0.65, 1.0},
		Colors:    []string{"darkslateblue", "blue", "black", "red", "maroon"},
	},
	{
		Name:      "mycmap1",
		Positions: []float64{0.0, 0.25, 0.5, 0.75, 1.0},
		Colors:    []string{"red", "violet", "black", "lime", "blue"},
	},
	{
		Name:      "mycmap2",
		Positions: []float64{0.0, 0.25, 0.5, 0.75, 1.0},
		Colors:    []string{"white", "cyan", "blue", "red", "yellow"},
	},
	{
		Name:      "mycmap3",
		Positions: []float64{0.0, 0.25, 0.5, 0.75, 1.0},
		Colors:    []string{"red", "violet", "white", "lime", "blue"},
	},
	// matplotlib viridis
	{
		Name: "viridis",
		Colors: []string{
			"#440154", "#482374", "#404387", "#345e8d", "#29788e", "#20908c",
			"#22a784", "#44be70", "#79d151", "#bdde26", "#fde725",
		},
	},
	{
		Name: "plasma",
		Colors: []string{
			"#0d0887", "#4b03a1", "#7d03a8", "#a82296", "#cb4679",
			"#e56b5d", "#f89441", "#fdc328", "#f0f921",
		},
	},
	{
		Name: "inferno",
		Colors: []string{
			"#000004", "#280b54", "#65156e", "#9f2a63",
			"#d44842", "#f57d15", "#fac127", "#fcffa4",
		},
	},
	{
		Name: "magma",
		Colors: []string{
			"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
			"#e55064", "#fb8761", "#fec287", "#fcfdbf",
		},
	},
}

// PresetSpec returns the preset spec with the given name.
func PresetSpec(name string) (Spec, bool) {
	for _, s := range Presets {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// RegisterPresets registers every preset plus the categorical colormap.
func RegisterPresets(r *Registry, resolver Resolver) error {
	for _, spec := range Presets {
		if _, err := r.RegisterSpec(spec, resolver); err != nil {
			return fmt.Errorf("preset %q: %w", spec.Name, err)
		}
	}
	return r.Register(Categorical.Name(), Categorical)
}

// Categorical colormap with 20 distinct colors
var Categorical = NewListedColormap("categorical", []color.RGBA{
	{31, 119, 180, 255},  // Blue
	{255, 127, 14, 255},  // Orange
	{44, 160, 44, 255},   // Green
	{214, 39, 40, 255},   // Red
	{148, 103, 189, 255}, // Purple
	{140, 86, 75, 255},   // Brown
	{227, 119, 194, 255}, // Pink
	{127, 127, 127, 255}, // Gray
	{188, 189, 34, 255},  // Olive
	{23, 190, 207, 255},  // Cyan
	{174, 199, 232, 255}, // Light blue
	{255, 187, 120, 255}, // Light orange
	{152, 223, 138, 255}, // Light green
	{255, 152, 150, 255}, // Light red
	{197, 176, 213, 255}, // Light purple
	{196, 156, 148, 255}, // Light brown
	{247, 182, 210, 255}, // Light pink
	{199, 199, 199, 255}, // Light gray
	{219, 219, 141, 255}, // Light olive
	{158, 218, 229, 255}, // Light cyan
})
