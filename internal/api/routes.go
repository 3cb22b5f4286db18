// Package api provides HTTP handlers for the colormap server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/atlasmap-sc/colormaps/internal/metrics"
	"github.com/atlasmap-sc/colormaps/internal/service"
	"github.com/atlasmap-sc/colormaps/internal/simulation"
	"github.com/atlasmap-sc/colormaps/internal/store"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// maxBodyBytes bounds request bodies (field grids are the largest).
const maxBodyBytes = 8 << 20

// RouterConfig contains router configuration.
type RouterConfig struct {
	Service     *service.ColormapService
	Store       *store.Store
	Simulation  simulation.Params
	Metrics     *metrics.Metrics
	CORSOrigins []string
	Title       string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-LUT-Entries"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", cfg.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/colormaps", colormapsHandler(cfg.Service, cfg.Title))
		r.Get("/stats", statsHandler(cfg.Service))

		// Colormap-scoped routes
		r.Route("/colormaps/{name}", func(r chi.Router) {
			r.Use(colormapMiddleware(cfg.Service))

			r.Get("/", colormapInfoHandler(cfg.Service))
			r.Get("/sample", colormapSampleHandler(cfg.Service))
			r.Get("/colorbar.png", colormapColorbarHandler(cfg.Service))
			r.Get("/channels.png", colormapChannelsHandler(cfg.Service))
			r.Get("/lut.zst", colormapLUTHandler(cfg.Service))
		})

		r.Post("/preview", previewHandler(cfg.Service))
		r.Post("/render/field", fieldHandler(cfg.Service))

		r.Route("/specs", func(r chi.Router) {
			r.Get("/", specListHandler(cfg.Store))
			r.Post("/", specCreateHandler(cfg.Store, cfg.Service))
			r.Get("/{spec_id}", specGetHandler(cfg.Store))
			r.Delete("/{spec_id}", specDeleteHandler(cfg.Store))
		})

		r.Get("/simulation", simulationHandler(cfg.Simulation))
	})

	return r
}

// Context key for the resolved colormap name
type ctxKey string

const colormapNameKey ctxKey = "colormapName"

// colormapMiddleware checks the colormap exists and injects its name into context.
func colormapMiddleware(svc *service.ColormapService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			if _, err := svc.Get(name); err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), colormapNameKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func colormapName(r *http.Request) string {
	if name, ok := r.Context().Value(colormapNameKey).(string); ok {
		return name
	}
	return chi.URLParam(r, "name")
}

// colormapsHandler lists all registered colormaps.
func colormapsHandler(svc *service.ColormapService, title string) http.HandlerFunc {
	if title == "" {
		title = "Colormaps"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"title":     title,
			"default":   svc.DefaultColormap(),
			"colormaps": svc.List(),
		})
	}
}

// statsHandler returns registry and cache statistics.
func statsHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Stats())
	}
}

func colormapInfoHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Describe(colormapName(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func colormapSampleHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := queryInt(r, "n", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		name := colormapName(r)
		colors, err := svc.Sample(name, n)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"name":   name,
			"n":      len(colors),
			"colors": colors,
		})
	}
}

func colormapColorbarHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, err := queryInt(r, "w", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		height, err := queryInt(r, "h", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		vertical := queryBool(r, "vertical")

		data, err := svc.Colorbar(colormapName(r), width, height, vertical)
		if err != nil {
			writeError(w, err)
			return
		}
		writePNG(w, data)
	}
}

func colormapChannelsHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := queryInt(r, "samples", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := svc.Channels(colormapName(r), samples)
		if err != nil {
			writeError(w, err)
			return
		}
		writePNG(w, data)
	}
}

func colormapLUTHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := queryInt(r, "n", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		name := colormapName(r)
		raw, err := svc.LUT(name, n)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := svc.CompressedLUT(name, n)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/zstd")
		w.Header().Set("X-LUT-Entries", strconv.Itoa(len(raw)/4))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(data)
	}
}

// previewHandler renders an unregistered spec posted as JSON.
func previewHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec colormap.Spec
		if err := decodeBody(w, r, &spec); err != nil {
			writeError(w, err)
			return
		}
		width, err := queryInt(r, "w", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		height, err := queryInt(r, "h", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := svc.Preview(spec, width, height)
		if err != nil {
			writeError(w, err)
			return
		}
		writePNG(w, data)
	}
}

func fieldHandler(svc *service.ColormapService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.FieldRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		data, err := svc.RenderField(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writePNG(w, data)
	}
}

// simulationHandler returns the solver parameters and derived values.
func simulationHandler(params simulation.Params) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"params":  params,
			"derived": params.Derive(),
			"valid":   true,
		}
		if err := params.Validate(); err != nil {
			response["valid"] = false
			response["error"] = err.Error()
		}
		if queryBool(r, "frequencies") {
			freqs := params.Frequencies()
			thz := make([]float64, len(freqs))
			for i, f := range freqs {
				thz[i] = simulation.THz(f)
			}
			response["frequencies"] = freqs
			response["frequencies_thz"] = thz
			response["omega"] = params.AngularFrequencies()
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// --- helpers ---

type requestError struct{ msg string }

func (e requestError) Error() string { return e.msg }

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, requestError{msg: "invalid query param " + key + ": " + raw}
	}
	return v, nil
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return requestError{msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, service.ErrBadRequest),
		errors.Is(err, colormap.ErrInvalidSpec),
		errors.Is(err, colormap.ErrUnknownColorName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrNameTaken),
		errors.Is(err, colormap.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("request failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
