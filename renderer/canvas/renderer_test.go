package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
)

func sampleResult() *layout.Result {
	root := &layout.Group{
		Pen:   layout.Pen{X: 0, Y: 20.6},
		Width: 56,
		Children: []layout.Paint{
			&layout.Text{Pen: layout.Pen{X: 0, Y: 0}, Font: fonts.MainFamily, Size: 32, Text: "1"},
			&layout.Rect{Pen: layout.Pen{X: 16, Y: -10}, Width: 24, Height: 1.28},
			&layout.Text{Pen: layout.Pen{X: 40, Y: 0}, Font: "Unknown", Size: 22.4, Text: "2"},
		},
	}
	return &layout.Result{Root: root, Width: 56, Height: 20.6, Depth: 6, FontSize: 32}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Margin: 4, Meta: Meta{Title: "fraction"}})
	data, err := r.Render(sampleResult())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{Root: &layout.Group{}}); err == nil {
		t.Fatalf("expected error for zero-sized result")
	}
}

func TestUnknownFamilyUsesFallback(t *testing.T) {
	r := NewRenderer("")
	unknown, err := r.ensureFontFamily("Unknown")
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if unknown != r.fallbackFamily {
		t.Fatalf("unknown family should resolve to the fallback family")
	}
	main, err := r.ensureFontFamily(fonts.MainFamily)
	if err != nil {
		t.Fatalf("main family failed: %v", err)
	}
	if main == r.fallbackFamily {
		t.Fatalf("built-in family should not use the fallback")
	}
	again, _ := r.ensureFontFamily(fonts.MainFamily)
	if again != main {
		t.Fatalf("font families should be cached")
	}
}

func TestInjectedFontOverridesBuiltin(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{
		fonts.MainFamily: {Bytes: fonts.Fallback()},
		"":               {Bytes: []byte("ignored")},
		"Missing":        {Path: "does/not/exist.ttf"},
	}})
	if !bytes.Equal(r.fontBlobs[fonts.MainFamily], fonts.Fallback()) {
		t.Fatalf("injected font should replace the built-in one")
	}
	if _, ok := r.fontBlobs["Missing"]; ok {
		t.Fatalf("unreadable font path should be ignored")
	}
}

func TestUnitConversion(t *testing.T) {
	pt := NewRendererWithOptions(Options{Unit: layout.UnitPT})
	if got := pt.toMM(72); got < 25.39 || got > 25.41 {
		t.Fatalf("72pt should be about 25.4mm, got %g", got)
	}
	mm := NewRendererWithOptions(Options{Unit: layout.UnitMM})
	if got := mm.toMM(10); got != 10 {
		t.Fatalf("mm units should pass through, got %g", got)
	}
}
