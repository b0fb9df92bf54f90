// Package raster renders layout results to PNG images with github.com/fogleman/gg.
package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
	"github.com/ByLCY/mathbox/renderer"
	"github.com/ByLCY/mathbox/scene"
)

// Renderer draws text with opentype faces and rules as filled rectangles.
type Renderer struct {
	scale      float64
	margin     float64
	ink        color.Color
	background color.Color

	fontBlobs map[string][]byte

	mu       sync.Mutex
	parsed   map[string]*opentype.Font
	faces    map[faceKey]font.Face
	fallback *opentype.Font
}

type faceKey struct {
	family string
	size   float64
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the raster renderer.
type Options struct {
	Scale      float64 // pixels per device unit, 1 when zero
	Margin     float64 // device units around the formula
	Ink        color.Color
	Background color.Color // nil keeps the image transparent
	Fonts      map[string][]byte
}

// NewRenderer creates a PNG renderer. Built-in families are available unless overridden.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		scale:      opts.Scale,
		margin:     opts.Margin,
		ink:        opts.Ink,
		background: opts.Background,
		fontBlobs:  fonts.Builtin(),
		parsed:     map[string]*opentype.Font{},
		faces:      map[faceKey]font.Face{},
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.ink == nil {
		r.ink = color.Black
	}
	for name, data := range opts.Fonts {
		if name != "" && len(data) > 0 {
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render implements renderer.Renderer and returns PNG bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	w := int(math.Ceil((result.Width + 2*r.margin) * r.scale))
	h := int(math.Ceil((result.TotalHeight() + 2*r.margin) * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("图像尺寸无效: %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	if r.background != nil {
		dc.SetColor(r.background)
		dc.Clear()
	}
	dc.SetColor(r.ink)
	for _, leaf := range scene.Build(result.Root).Flatten() {
		x := (leaf.World.X + r.margin) * r.scale
		y := (leaf.World.Y + r.margin) * r.scale
		switch p := leaf.Paint.(type) {
		case *layout.Text:
			face, err := r.face(p.Font, p.Size*r.scale)
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(face)
			dc.DrawString(p.Text, x, y)
		case *layout.Rect:
			dc.DrawRectangle(x, y, p.Width*r.scale, p.Height*r.scale)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) face(family string, size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := faceKey{family: family, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	otf, err := r.font(family)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体面 %s 失败: %w", family, err)
	}
	r.faces[key] = f
	return f, nil
}

func (r *Renderer) font(family string) (*opentype.Font, error) {
	if f, ok := r.parsed[family]; ok {
		return f, nil
	}
	if data, ok := r.fontBlobs[family]; ok {
		if f, err := opentype.Parse(data); err == nil {
			r.parsed[family] = f
			return f, nil
		}
	}
	if r.fallback == nil {
		f, err := opentype.Parse(fonts.Fallback())
		if err != nil {
			return nil, fmt.Errorf("解析后备字体失败: %w", err)
		}
		r.fallback = f
	}
	r.parsed[family] = r.fallback
	return r.fallback, nil
}
