package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	metricsLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(metricsLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// File is the root AST node of a font-metrics table.
type File struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Entries []*Entry       `parser:"Newline* ( @@ Newline* )*"`
}

// Entry is a top-level statement (font block or param line).
type Entry struct {
	Font  *FontBlock `parser:"  @@"`
	Param *Param     `parser:"| @@"`
}

// FontBlock lists glyph metrics of one font id.
type FontBlock struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Name   string         `parser:"'font' @Ident"`
	Glyphs []*Glyph       `parser:"'{' Newline* ( @@ Newline* )* '}'"`
}

// Glyph is a quoted character followed by named dimensions.
type Glyph struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Char StringLiteral  `parser:"@String"`
	Dims []*Dimension   `parser:"@@+"`
}

// Dimension is a `key value` pair such as `height 0.64444`.
type Dimension struct {
	Key   string  `parser:"@('height' | 'depth' | 'width' | 'italic' | 'skew')"`
	Value float64 `parser:"@Number"`
}

// Param is a named list of numbers, e.g. a math constant per style (`param num1 0.677 0.732 0.925`).
type Param struct {
	Name   string    `parser:"'param' @Ident"`
	Values []float64 `parser:"@Number+"`
}

// Lookup returns the value of a dimension key and whether it was present.
func (g *Glyph) Lookup(key string) (float64, bool) {
	found, value := false, 0.0
	for _, d := range g.Dims {
		if d.Key == key {
			found, value = true, d.Value
		}
	}
	return value, found
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a metrics table from an io.Reader. name is used in error positions.
func Parse(name string, r io.Reader) (*File, error) {
	return fileParser.Parse(name, r)
}

// ParseString parses a metrics table from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
