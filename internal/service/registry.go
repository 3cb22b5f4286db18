package service

import (
	"fmt"
	"log"

	"github.com/atlasmap-sc/colormaps/internal/store"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// SpecSource lists persisted specs.
type SpecSource interface {
	ListSpecs() ([]store.StoredSpec, error)
}

// LoadRegistry builds the registry used for the lifetime of the process:
// presets first, then configured specs, then stored specs. Invalid presets
// or configured specs fail the load; a stored spec that clashes with an
// earlier name is skipped. The returned registry is frozen.
func LoadRegistry(configured []colormap.Spec, src SpecSource, resolver colormap.Resolver) (*colormap.Registry, error) {
	reg := colormap.NewRegistry()

	if err := colormap.RegisterPresets(reg, resolver); err != nil {
		return nil, err
	}

	for _, spec := range configured {
		if _, err := reg.RegisterSpec(spec, resolver); err != nil {
			return nil, fmt.Errorf("configured colormap: %w", err)
		}
		log.Printf("  [%s] Registered from config (%d stops)", spec.Name, len(spec.Colors))
	}

	if src != nil {
		stored, err := src.ListSpecs()
		if err != nil {
			return nil, fmt.Errorf("failed to list stored specs: %w", err)
		}
		for _, s := range stored {
			if _, err := reg.RegisterSpec(s.Spec, resolver); err != nil {
				log.Printf("  [%s] Stored spec %s skipped: %v", s.Spec.Name, s.ID, err)
				continue
			}
			log.Printf("  [%s] Registered from store", s.Spec.Name)
		}
	}

	reg.Freeze()
	return reg, nil
}
