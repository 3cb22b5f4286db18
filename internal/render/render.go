// Package render provides colorbar and scalar-field rendering using fogleman/gg.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/fogleman/gg"

	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

var (
	// ErrImageTooLarge is returned when a requested image exceeds MaxSize.
	ErrImageTooLarge = errors.New("requested image too large")
	// ErrInvalidSize is returned for non-positive image dimensions.
	ErrInvalidSize = errors.New("invalid image size")
)

// Config contains renderer configuration.
type Config struct {
	ColorbarWidth  int
	ColorbarHeight int
	// MaxSize bounds both image dimensions. Zero means 4096.
	MaxSize int
}

// Renderer renders colormap previews to PNG.
type Renderer struct {
	config      Config
	contextPool sync.Pool // contexts of the default colorbar size
	bufferPool  sync.Pool
}

// NewRenderer creates a new renderer.
func NewRenderer(cfg Config) *Renderer {
	if cfg.ColorbarWidth <= 0 {
		cfg.ColorbarWidth = 256
	}
	if cfg.ColorbarHeight <= 0 {
		cfg.ColorbarHeight = 32
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4096
	}
	return &Renderer{
		config: cfg,
		contextPool: sync.Pool{
			New: func() interface{} {
				return gg.NewContext(cfg.ColorbarWidth, cfg.ColorbarHeight)
			},
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 32*1024))
			},
		},
	}
}

// DefaultColorbarSize returns the configured colorbar size.
func (r *Renderer) DefaultColorbarSize() (int, int) {
	return r.config.ColorbarWidth, r.config.ColorbarHeight
}

func (r *Renderer) context(width, height int) (*gg.Context, func(), error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width > r.config.MaxSize || height > r.config.MaxSize {
		return nil, nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, width, height, r.config.MaxSize)
	}
	if width == r.config.ColorbarWidth && height == r.config.ColorbarHeight {
		dc := r.contextPool.Get().(*gg.Context)
		return dc, func() { r.contextPool.Put(dc) }, nil
	}
	return gg.NewContext(width, height), func() {}, nil
}

// RenderColorbar renders the colormap as a gradient bar. Horizontal bars
// run low to high from left to right, vertical bars from bottom to top.
func (r *Renderer) RenderColorbar(cmap colormap.Colormap, width, height int, vertical bool) ([]byte, error) {
	dc, release, err := r.context(width, height)
	if err != nil {
		return nil, err
	}
	defer release()

	dc.SetColor(color.White)
	dc.Clear()

	steps := width
	if vertical {
		steps = height
	}
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		dc.SetColor(cmap.At(t))
		if vertical {
			dc.DrawRectangle(0, float64(height-1-i), float64(width), 1)
		} else {
			dc.DrawRectangle(float64(i), 0, 1, float64(height))
		}
		dc.Fill()
	}

	return r.encodeContext(dc)
}

// RenderField renders a row-major grid of scalars as a heatmap with cell x
// cell pixels per value. Values are normalized over [vmin, vmax]; NaN cells
// stay transparent.
func (r *Renderer) RenderField(values [][]float64, vmin, vmax float64, cmap colormap.Colormap, cell int) ([]byte, error) {
	if cell <= 0 {
		cell = 1
	}
	cols := 0
	for _, row := range values {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if len(values) == 0 || cols == 0 {
		return nil, fmt.Errorf("empty field")
	}

	if cell > r.config.MaxSize/cols || cell > r.config.MaxSize/len(values) {
		return nil, fmt.Errorf("%w: %dx%d cells of %d px exceed %d", ErrImageTooLarge, cols, len(values), cell, r.config.MaxSize)
	}

	dc, release, err := r.context(cols*cell, len(values)*cell)
	if err != nil {
		return nil, err
	}
	defer release()

	dc.SetColor(color.Transparent)
	dc.Clear()

	valueRange := vmax - vmin
	if valueRange == 0 {
		valueRange = 1
	}

	size := float64(cell)
	for y, row := range values {
		for x, v := range row {
			if math.IsNaN(v) {
				continue
			}
			normalized := (v - vmin) / valueRange
			dc.SetColor(cmap.At(normalized))
			dc.DrawRectangle(float64(x)*size, float64(y)*size, size, size)
			dc.Fill()
		}
	}

	return r.encodeContext(dc)
}

func (r *Renderer) encodeContext(dc *gg.Context) ([]byte, error) {
	buf := r.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		r.bufferPool.Put(buf)
	}()

	// Use fast PNG encoder
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(buf, dc.Image()); err != nil {
		return nil, err
	}

	// Copy buffer contents (buffer will be reused)
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}
