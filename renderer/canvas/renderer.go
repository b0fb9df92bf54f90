package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
	"github.com/ByLCY/mathbox/renderer"
	"github.com/ByLCY/mathbox/scene"
)

// Renderer draws layout results into a single PDF page via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	unit    layout.Unit
	margin  float64
	color   color.Color
	meta    Meta

	fontBlobs map[string][]byte // by family name

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Unit is the physical unit of one device unit. UnitPX and UnitNone are treated as points.
	Unit   layout.Unit
	Margin float64             // device units around the formula
	Color  color.Color         // ink for text and rules, black when nil
	Fonts  map[string]Resource // font files by paint font family
	Meta   Meta
}

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title   string
	Subject string
	Author  string
	Creator string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer with the built-in fonts rooted at baseDir.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected font resources.
// Built-in families are registered first so injected fonts override them.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		unit:         opts.Unit,
		margin:       opts.Margin,
		color:        opts.Color,
		meta:         opts.Meta,
		fontBlobs:    fonts.Builtin(),
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.color == nil {
		r.color = canvas.Black
	}
	if r.meta.Creator == "" {
		r.meta.Creator = "mathbox"
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			path := res.Path
			if !filepath.IsAbs(path) && r.baseDir != "" {
				path = filepath.Join(r.baseDir, path)
			}
			data, _ := os.ReadFile(path) // unreadable fonts fall back when used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders the result into a one-page PDF sized to the formula plus margins.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width := r.toMM(result.Width + 2*r.margin)
	height := r.toMM(result.TotalHeight() + 2*r.margin)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g mm", width, height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.meta.Title, r.meta.Subject, "", r.meta.Author, r.meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	if err := r.draw(ctx, scene.Build(result.Root)); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(ctx *canvas.Context, root *scene.Node) error {
	for _, leaf := range root.Flatten() {
		x := r.toMM(leaf.World.X + r.margin)
		y := r.toMM(leaf.World.Y + r.margin)
		switch p := leaf.Paint.(type) {
		case *layout.Text:
			if err := r.drawText(ctx, x, y, p); err != nil {
				return err
			}
		case *layout.Rect:
			r.drawRect(ctx, x, y, p)
		}
	}
	return nil
}

// drawText places the string with its baseline start at (x, y) in mm.
func (r *Renderer) drawText(ctx *canvas.Context, x, y float64, t *layout.Text) error {
	family, err := r.ensureFontFamily(t.Font)
	if err != nil {
		return err
	}
	face := family.Face(r.toPt(t.Size), r.color, canvas.FontRegular, canvas.FontNormal)
	ctx.DrawText(x, y, canvas.NewTextLine(face, t.Text, canvas.Left))
	return nil
}

func (r *Renderer) drawRect(ctx *canvas.Context, x, y float64, rc *layout.Rect) {
	if rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	ctx.SetFillColor(r.color)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(x, y, canvas.Rectangle(r.toMM(rc.Width), r.toMM(rc.Height)))
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}

	if data, ok := r.fontBlobs[name]; ok {
		family := canvas.NewFontFamily(name)
		if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
			r.fontFamilies[name] = family
			return family, nil
		}
	}
	fallback, err := r.fallback()
	if err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = fallback
	return fallback, nil
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily("mathbox-fallback")
	if err := family.LoadFont(fonts.Fallback(), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

// toMM 将设备单位转换为毫米(mm)。
func (r *Renderer) toMM(v float64) float64 {
	return layout.Length{Value: v, Unit: r.unit}.ToMM()
}

// toPt 将设备单位转换为点(pt)，用于创建字体面。
func (r *Renderer) toPt(v float64) float64 {
	return layout.Length{Value: v, Unit: r.unit}.ToPT()
}
