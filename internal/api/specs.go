package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlasmap-sc/colormaps/internal/service"
	"github.com/atlasmap-sc/colormaps/internal/store"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// Stored specs are validated on save and registered at the next startup;
// the running registry is never modified.

func storeDisabled(w http.ResponseWriter) {
	http.Error(w, "spec store not configured", http.StatusServiceUnavailable)
}

func specListHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			storeDisabled(w)
			return
		}
		specs, err := st.ListSpecs()
		if err != nil {
			writeError(w, err)
			return
		}
		if specs == nil {
			specs = []store.StoredSpec{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"specs": specs})
	}
}

// specCreateHandler rejects names already taken in the running registry,
// since LoadRegistry would skip them at the next start.
func specCreateHandler(st *store.Store, svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			storeDisabled(w)
			return
		}
		var spec colormap.Spec
		if err := decodeBody(w, r, &spec); err != nil {
			writeError(w, err)
			return
		}
		if spec.Name == "" {
			http.Error(w, "missing spec name", http.StatusBadRequest)
			return
		}
		if svc != nil && svc.Registered(spec.Name) {
			writeError(w, fmt.Errorf("%w: %q", colormap.ErrDuplicateName, spec.Name))
			return
		}
		stored, err := st.SaveSpec(spec)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"spec":       stored,
			"registered": false,
		})
	}
}

func specGetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			storeDisabled(w)
			return
		}
		id := chi.URLParam(r, "spec_id")
		stored, err := st.GetSpec(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if stored == nil {
			http.Error(w, "spec not found: "+id, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

func specDeleteHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			storeDisabled(w)
			return
		}
		id := chi.URLParam(r, "spec_id")
		deleted, err := st.DeleteSpec(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !deleted {
			http.Error(w, "spec not found: "+id, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
