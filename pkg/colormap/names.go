package colormap

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Resolver turns a color token into an RGB triple.
type Resolver interface {
	Resolve(token string) (colorful.Color, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(token string) (colorful.Color, error)

// Resolve calls f(token).
func (f ResolverFunc) Resolve(token string) (colorful.Color, error) {
	return f(token)
}

// matplotlib single-letter base colors
var baseColors = map[string]colorful.Color{
	"b": {R: 0, G: 0, B: 1},
	"g": {R: 0, G: 0.5, B: 0},
	"r": {R: 1, G: 0, B: 0},
	"c": {R: 0, G: 0.75, B: 0.75},
	"m": {R: 0.75, G: 0, B: 0.75},
	"y": {R: 0.75, G: 0.75, B: 0},
	"k": {R: 0, G: 0, B: 0},
	"w": {R: 1, G: 1, B: 1},
}

// NamedResolver resolves CSS color names, matplotlib base color letters
// and #rgb / #rrggbb hex strings. Lookup is case-insensitive.
type NamedResolver struct{}

// DefaultResolver is used when Build gets a nil resolver.
var DefaultResolver Resolver = NamedResolver{}

// Resolve implements Resolver.
func (NamedResolver) Resolve(token string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return colorful.Color{}, fmt.Errorf("%w: empty token", ErrUnknownColorName)
	}

	if strings.HasPrefix(key, "#") {
		c, err := colorful.Hex(key)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColorName, token)
		}
		return c, nil
	}
	if c, ok := baseColors[key]; ok {
		return c, nil
	}
	if rgba, ok := colornames.Map[key]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColorName, token)
}

// Hex formats an RGB triple as #rrggbb.
func Hex(c colorful.Color) string {
	return c.Clamped().Hex()
}
