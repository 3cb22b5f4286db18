package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "specs.sqlite"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetSpec(t *testing.T) {
	s := newTestStore(t)

	spec := colormap.Spec{
		Name:      "fire",
		Positions: []float64{0, 0.5, 1},
		Colors:    []string{"black", "red", "yellow"},
	}
	stored, err := s.SaveSpec(spec)
	if err != nil {
		t.Fatalf("SaveSpec: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetSpec(stored.ID)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if got == nil {
		t.Fatal("stored spec not found")
	}
	if diff := cmp.Diff(spec, got.Spec); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
	if !got.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", got.CreatedAt, stored.CreatedAt)
	}

	byName, err := s.GetSpecByName("fire")
	if err != nil || byName == nil || byName.ID != stored.ID {
		t.Fatalf("GetSpecByName = %+v, %v", byName, err)
	}

	missing, err := s.GetSpec("nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing spec, got %+v, %v", missing, err)
	}
}

func TestSaveSpecValidates(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveSpec(colormap.Spec{Name: "bad", Positions: []float64{0, 0.5}, Colors: []string{"a", "b", "c"}})
	if !errors.Is(err, colormap.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}

	_, err = s.SaveSpec(colormap.Spec{Name: "bad", Colors: []string{"red", "nocolor"}})
	if !errors.Is(err, colormap.ErrUnknownColorName) {
		t.Fatalf("expected ErrUnknownColorName, got %v", err)
	}

	specs, err := s.ListSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 0 {
		t.Fatalf("invalid specs must not be stored, got %d", len(specs))
	}
}

func TestSaveSpecDuplicateName(t *testing.T) {
	s := newTestStore(t)

	spec := colormap.Spec{Name: "ice", Colors: []string{"navy", "white"}}
	if _, err := s.SaveSpec(spec); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveSpec(spec); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestListAndDeleteSpecs(t *testing.T) {
	s := newTestStore(t)

	a, err := s.SaveSpec(colormap.Spec{Name: "a", Colors: []string{"red", "blue"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveSpec(colormap.Spec{Name: "b", Colors: []string{"white", "black"}}); err != nil {
		t.Fatal(err)
	}

	specs, err := s.ListSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || specs[0].Spec.Name != "a" || specs[1].Spec.Name != "b" {
		t.Fatalf("unexpected list: %+v", specs)
	}
	// Even-spaced specs round-trip without positions
	if specs[0].Spec.Positions != nil {
		t.Fatalf("expected nil positions, got %v", specs[0].Spec.Positions)
	}

	deleted, err := s.DeleteSpec(a.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteSpec = %v, %v", deleted, err)
	}
	deleted, err = s.DeleteSpec(a.ID)
	if err != nil || deleted {
		t.Fatalf("second DeleteSpec = %v, %v", deleted, err)
	}

	specs, err = s.ListSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || specs[0].Spec.Name != "b" {
		t.Fatalf("unexpected list after delete: %+v", specs)
	}
}
