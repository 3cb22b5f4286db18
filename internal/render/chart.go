package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// Channels samples the red, green and blue channels of cmap at n points
// over [0, 1]. Linear colormaps are sampled exactly.
func Channels(cmap colormap.Colormap, n int) (ts, rs, gs, bs []float64) {
	if n < 2 {
		n = 2
	}
	ts = make([]float64, n)
	rs = make([]float64, n)
	gs = make([]float64, n)
	bs = make([]float64, n)

	linear, isLinear := cmap.(*colormap.LinearColormap)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		ts[i] = t
		if isLinear {
			c := linear.Eval(t)
			rs[i], gs[i], bs[i] = c.R, c.G, c.B
			continue
		}
		r, g, b, _ := cmap.At(t).RGBA()
		rs[i], gs[i], bs[i] = float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff
	}
	return ts, rs, gs, bs
}

// RenderChannels plots the RGB channel curves of cmap as a PNG line chart.
func (r *Renderer) RenderChannels(cmap colormap.Colormap, samples int) ([]byte, error) {
	ts, rs, gs, bs := Channels(cmap, samples)

	series := func(name string, ys []float64, c drawing.Color) chart.Series {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: ts,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
			},
		}
	}

	graph := chart.Chart{
		Title:  cmap.Name(),
		Width:  640,
		Height: 320,
		XAxis: chart.XAxis{
			Name:  "t",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:  "channel",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			series("R", rs, drawing.Color{R: 214, G: 39, B: 40, A: 255}),
			series("G", gs, drawing.Color{R: 44, G: 160, B: 44, A: 255}),
			series("B", bs, drawing.Color{R: 31, G: 119, B: 180, A: 255}),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render channel chart: %w", err)
	}
	return buf.Bytes(), nil
}
