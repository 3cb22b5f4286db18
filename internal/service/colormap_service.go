// Package service provides business logic for the colormap server.
package service

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/atlasmap-sc/colormaps/internal/cache"
	"github.com/atlasmap-sc/colormaps/internal/metrics"
	"github.com/atlasmap-sc/colormaps/internal/render"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

var (
	// ErrNotFound is returned for names missing from the registry.
	ErrNotFound = errors.New("colormap not found")
	// ErrBadRequest is returned for out-of-range request parameters.
	ErrBadRequest = errors.New("bad request")
)

// MaxLUTSize bounds sampled lookup tables.
const MaxLUTSize = 65536

// ColormapServiceConfig contains colormap service configuration.
type ColormapServiceConfig struct {
	Registry        *colormap.Registry
	Resolver        colormap.Resolver
	Cache           *cache.Manager
	Renderer        *render.Renderer
	Metrics         *metrics.Metrics
	DefaultColormap string
	LUTSize         int
}

// ColormapService serves colormap lookups and renders.
type ColormapService struct {
	registry   *colormap.Registry
	resolver   colormap.Resolver
	cache      *cache.Manager
	renderer   *render.Renderer
	metrics    *metrics.Metrics
	defaultMap string
	lutSize    int
	encoder    *zstd.Encoder
}

// NewColormapService creates a new colormap service.
func NewColormapService(cfg ColormapServiceConfig) (*ColormapService, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("colormap service needs a registry")
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = colormap.DefaultResolver
	}
	lutSize := cfg.LUTSize
	if lutSize < 2 {
		lutSize = 256
	}

	return &ColormapService{
		registry:   cfg.Registry,
		resolver:   resolver,
		cache:      cfg.Cache,
		renderer:   cfg.Renderer,
		metrics:    cfg.Metrics,
		defaultMap: cfg.DefaultColormap,
		lutSize:    lutSize,
		encoder:    encoder,
	}, nil
}

// StopInfo is one stop in API responses.
type StopInfo struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// ColormapInfo describes a registered colormap.
type ColormapInfo struct {
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Stops  []StopInfo `json:"stops,omitempty"`
	Colors []string   `json:"colors,omitempty"`
}

// Get returns the named colormap. A "_r" suffix selects the reversed
// version of a registered linear colormap.
func (s *ColormapService) Get(name string) (colormap.Colormap, error) {
	if name == "" {
		name = s.defaultMap
	}
	if c, ok := s.registry.Lookup(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Registered reports whether name is taken in the registry.
func (s *ColormapService) Registered(name string) bool {
	_, ok := s.registry.Get(name)
	return ok
}

// Stats returns registry and cache statistics.
func (s *ColormapService) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"colormaps":        s.registry.Len(),
		"default_colormap": s.defaultMap,
	}
	if s.cache != nil {
		stats["cache"] = s.cache.Stats()
	}
	return stats
}

// DefaultColormap returns the configured default colormap name.
func (s *ColormapService) DefaultColormap() string {
	return s.defaultMap
}

// List describes all registered colormaps in registration order.
func (s *ColormapService) List() []ColormapInfo {
	names := s.registry.Names()
	out := make([]ColormapInfo, 0, len(names))
	for _, name := range names {
		c, _ := s.registry.Get(name)
		out = append(out, describe(c))
	}
	return out
}

// Describe returns the description of one colormap.
func (s *ColormapService) Describe(name string) (ColormapInfo, error) {
	c, err := s.Get(name)
	if err != nil {
		return ColormapInfo{}, err
	}
	return describe(c), nil
}

func describe(c colormap.Colormap) ColormapInfo {
	info := ColormapInfo{Name: c.Name()}
	switch m := c.(type) {
	case *colormap.LinearColormap:
		info.Kind = "linear"
		for _, st := range m.Stops() {
			info.Stops = append(info.Stops, StopInfo{Position: st.Pos, Color: colormap.Hex(st.Color)})
		}
	case *colormap.ListedColormap:
		info.Kind = "listed"
		for i := 0; i < m.Len(); i++ {
			info.Colors = append(info.Colors, hexRGBA(m.AtIndex(i)))
		}
	default:
		info.Kind = "custom"
	}
	return info
}

func hexRGBA(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func (s *ColormapService) lutLen(n int) (int, error) {
	if n == 0 {
		n = s.lutSize
	}
	if n < 2 || n > MaxLUTSize {
		return 0, fmt.Errorf("%w: lut size %d not in [2, %d]", ErrBadRequest, n, MaxLUTSize)
	}
	return n, nil
}

// LUT returns n RGBA quadruples sampled evenly over [0, 1]. n == 0 uses
// the configured size.
func (s *ColormapService) LUT(name string, n int) ([]byte, error) {
	n, err := s.lutLen(n)
	if err != nil {
		return nil, err
	}
	c, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	key := cache.LUTKey(c.Name(), n)
	if s.cache != nil {
		if data, ok := s.cache.GetQuery(key); ok {
			s.metrics.CacheLookup("lut", true)
			return data, nil
		}
		s.metrics.CacheLookup("lut", false)
	}

	samples := colormap.Sample(c, n)
	data := make([]byte, 0, 4*n)
	for _, px := range samples {
		data = append(data, px.R, px.G, px.B, px.A)
	}
	if s.cache != nil {
		s.cache.SetQuery(key, data)
	}
	return data, nil
}

// Sample returns the LUT as #rrggbb strings.
func (s *ColormapService) Sample(name string, n int) ([]string, error) {
	data, err := s.LUT(name, n)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		out = append(out, fmt.Sprintf("#%02x%02x%02x", data[i], data[i+1], data[i+2]))
	}
	return out, nil
}

// CompressedLUT returns the LUT compressed with zstd.
func (s *ColormapService) CompressedLUT(name string, n int) ([]byte, error) {
	data, err := s.LUT(name, n)
	if err != nil {
		return nil, err
	}
	return s.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Colorbar returns a rendered colorbar PNG. Zero sizes use the configured defaults.
func (s *ColormapService) Colorbar(name string, width, height int, vertical bool) ([]byte, error) {
	c, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	dw, dh := s.renderer.DefaultColorbarSize()
	if width == 0 {
		width = dw
	}
	if height == 0 {
		height = dh
	}

	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrBadRequest, width, height)
	}

	key := cache.ColorbarKey(c.Name(), width, height, vertical)
	return s.cachedImage("colorbar", key, func() ([]byte, error) {
		return badRequestIfTooLarge(s.renderer.RenderColorbar(c, width, height, vertical))
	})
}

// Channels returns a PNG chart of the colormap's RGB channels.
func (s *ColormapService) Channels(name string, samples int) ([]byte, error) {
	if samples == 0 {
		samples = 256
	}
	if samples < 2 || samples > 4096 {
		return nil, fmt.Errorf("%w: samples %d not in [2, 4096]", ErrBadRequest, samples)
	}
	c, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	key := cache.ChannelsKey(c.Name(), samples)
	return s.cachedImage("channels", key, func() ([]byte, error) {
		return s.renderer.RenderChannels(c, samples)
	})
}

// FieldRequest is a scalar grid to render with a colormap.
// Nil Min or Max are taken from the data.
type FieldRequest struct {
	Colormap string      `json:"colormap"`
	Min      *float64    `json:"min,omitempty"`
	Max      *float64    `json:"max,omitempty"`
	Cell     int         `json:"cell,omitempty"`
	Values   [][]float64 `json:"values"`
}

// RenderField renders a scalar grid as a heatmap PNG.
func (s *ColormapService) RenderField(req FieldRequest) ([]byte, error) {
	if len(req.Values) == 0 {
		return nil, fmt.Errorf("%w: empty field", ErrBadRequest)
	}
	c, err := s.Get(req.Colormap)
	if err != nil {
		return nil, err
	}
	cell := req.Cell
	if cell <= 0 {
		cell = 1
	}

	lo, hi, ok := valueRange(req.Values)
	if !ok {
		return nil, fmt.Errorf("%w: field has no finite values", ErrBadRequest)
	}
	if req.Min != nil {
		lo = *req.Min
	}
	if req.Max != nil {
		hi = *req.Max
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: min %g > max %g", ErrBadRequest, lo, hi)
	}

	key := cache.FieldKey(c.Name(), lo, hi, cell, req.Values)
	return s.cachedImage("field", key, func() ([]byte, error) {
		return badRequestIfTooLarge(s.renderer.RenderField(req.Values, lo, hi, c, cell))
	})
}

func valueRange(values [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// Preview builds an unregistered spec and renders it as a colorbar.
func (s *ColormapService) Preview(spec colormap.Spec, width, height int) ([]byte, error) {
	c, err := colormap.Build(spec, s.resolver)
	if err != nil {
		return nil, err
	}
	dw, dh := s.renderer.DefaultColorbarSize()
	if width == 0 {
		width = dw
	}
	if height == 0 {
		height = dh
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrBadRequest, width, height)
	}
	data, err := badRequestIfTooLarge(s.renderer.RenderColorbar(c, width, height, false))
	if err != nil {
		return nil, err
	}
	s.metrics.Rendered("preview")
	return data, nil
}

func badRequestIfTooLarge(data []byte, err error) ([]byte, error) {
	if errors.Is(err, render.ErrImageTooLarge) || errors.Is(err, render.ErrInvalidSize) {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return data, err
}

func (s *ColormapService) cachedImage(kind, key string, renderFn func() ([]byte, error)) ([]byte, error) {
	if s.cache != nil {
		if data, ok := s.cache.GetImage(key); ok {
			s.metrics.CacheLookup("image", true)
			return data, nil
		}
		s.metrics.CacheLookup("image", false)
	}

	data, err := renderFn()
	if err != nil {
		return nil, err
	}
	s.metrics.Rendered(kind)

	if s.cache != nil {
		// Oversized entries are simply not cached
		_ = s.cache.SetImage(key, data)
	}
	return data, nil
}

// Close releases the encoder.
func (s *ColormapService) Close() error {
	return s.encoder.Close()
}
