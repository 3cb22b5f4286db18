package colormap

import (
	"errors"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestNamedResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  string
	}{
		{"blue", "#0000ff"},
		{"Maroon", "#800000"},
		{"  lime ", "#00ff00"},
		{"darkslateblue", "#483d8b"},
		{"violet", "#ee82ee"},
		{"#FF8000", "#ff8000"},
		{"#0f0", "#00ff00"},
		{"k", "#000000"},
		{"g", "#008000"},
	}
	for _, tc := range tests {
		c, err := NamedResolver{}.Resolve(tc.token)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tc.token, err)
			continue
		}
		if got := Hex(c); got != tc.want {
			t.Errorf("Resolve(%q) = %s, want %s", tc.token, got, tc.want)
		}
	}
}

func TestNamedResolverUnknown(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "blurple", "#12", "#gggggg"} {
		if _, err := (NamedResolver{}).Resolve(token); !errors.Is(err, ErrUnknownColorName) {
			t.Errorf("Resolve(%q): expected ErrUnknownColorName, got %v", token, err)
		}
	}
}

func TestCustomResolver(t *testing.T) {
	t.Parallel()

	brand := colorful.Color{R: 0.2, G: 0.4, B: 0.6}
	resolver := ResolverFunc(func(token string) (colorful.Color, error) {
		if token == "brand" {
			return brand, nil
		}
		return NamedResolver{}.Resolve(token)
	})

	c, err := Build(Spec{Name: "brand", Colors: []string{"brand", "white"}}, resolver)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := c.Eval(0); got != brand {
		t.Fatalf("Eval(0) = %v, want %v", got, brand)
	}
}
