package metrics

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/mathbox/layout"
)

// SFNT derives glyph metrics from TrueType/OpenType fonts via golang.org/x/image/font/sfnt.
// Only the first rune of a Char is measured. Results are memoized.
type SFNT struct {
	mu    sync.Mutex
	fonts map[layout.FontID]*sfnt.Font
	buf   sfnt.Buffer
	cache map[glyphKey]layout.Metrics
}

var _ layout.MetricsProvider = (*SFNT)(nil)

type glyphKey struct {
	font layout.FontID
	char string
}

// NewSFNT parses every font source up front.
func NewSFNT(sources map[layout.FontID][]byte) (*SFNT, error) {
	s := &SFNT{
		fonts: make(map[layout.FontID]*sfnt.Font, len(sources)),
		cache: map[glyphKey]layout.Metrics{},
	}
	for id, data := range sources {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("metrics: failed to parse font %s: %w", id, err)
		}
		s.fonts[id] = f
	}
	return s, nil
}

// Lookup implements layout.MetricsProvider.
// Width is the advance, height and depth come from the glyph bounds, all divided by units-per-em.
func (s *SFNT) Lookup(id layout.FontID, char string) (layout.Metrics, error) {
	notFound := &layout.MetricsNotFoundError{Font: id, Char: char}
	r, size := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError && size <= 1 {
		return layout.Metrics{}, notFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := glyphKey{font: id, char: char}
	if m, ok := s.cache[key]; ok {
		return m, nil
	}
	f, ok := s.fonts[id]
	if !ok {
		return layout.Metrics{}, notFound
	}
	idx, err := f.GlyphIndex(&s.buf, r)
	if err != nil || idx == 0 {
		return layout.Metrics{}, notFound
	}

	upem := f.UnitsPerEm()
	// one pixel per font unit keeps the values exact
	ppem := fixed.Int26_6(upem) << 6
	bounds, advance, err := f.GlyphBounds(&s.buf, idx, ppem, font.HintingNone)
	if err != nil {
		return layout.Metrics{}, fmt.Errorf("metrics: glyph bounds for %q: %w", char, err)
	}
	scale := float64(upem)
	m := layout.Metrics{
		Width:  fixedToFloat64(advance) / scale,
		Height: math.Max(0, -fixedToFloat64(bounds.Min.Y)/scale),
		Depth:  math.Max(0, fixedToFloat64(bounds.Max.Y)/scale),
	}
	s.cache[key] = m
	return m, nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
