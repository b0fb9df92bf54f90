// Package svgrenderer writes layout results as SVG documents via github.com/ajstarks/svgo.
package svgrenderer

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/ByLCY/mathbox/layout"
	"github.com/ByLCY/mathbox/renderer"
)

// Scale is the number of SVG user units per device unit. svgo takes integer coordinates,
// so the viewBox is Scale times larger than the document size.
const Scale = 100

// Renderer maps g to translated groups, text to <text> at the baseline and rect to filled <rect>.
type Renderer struct {
	margin float64
	fill   string
	title  string
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the SVG renderer.
type Options struct {
	Margin float64 // device units around the formula
	Fill   string  // CSS color for text and rules, "black" when empty
	Title  string
}

// NewRenderer creates an SVG renderer.
func NewRenderer(opts Options) *Renderer {
	fill := opts.Fill
	if fill == "" {
		fill = "black"
	}
	return &Renderer{margin: opts.Margin, fill: fill, title: opts.Title}
}

// Render writes the result as a standalone SVG document.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width := result.Width + 2*r.margin
	height := result.TotalHeight() + 2*r.margin
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", width, height)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(int(math.Ceil(width)), int(math.Ceil(height)), 0, 0, scaled(width), scaled(height))
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Translate(scaled(r.margin), scaled(r.margin))
	r.drawGroup(canvas, result.Root)
	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}

func (r *Renderer) drawGroup(canvas *svg.SVG, g *layout.Group) {
	canvas.Translate(scaled(g.Pen.X), scaled(g.Pen.Y))
	for _, child := range g.Children {
		switch p := child.(type) {
		case *layout.Group:
			r.drawGroup(canvas, p)
		case *layout.Text:
			style := fmt.Sprintf("font-family:%s;font-size:%dpx;fill:%s", p.Font, scaled(p.Size), r.fill)
			canvas.Text(scaled(p.Pen.X), scaled(p.Pen.Y), p.Text, style)
		case *layout.Rect:
			canvas.Rect(scaled(p.Pen.X), scaled(p.Pen.Y), scaled(p.Width), scaled(p.Height), "fill:"+r.fill)
		}
	}
	canvas.Gend()
}

// scaled converts device units to integer user units.
func scaled(v float64) int {
	return int(math.Round(v * Scale))
}
