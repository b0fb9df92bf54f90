package metrics

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/ByLCY/mathbox/dsl"
	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
)

// Table 是由度量表文件加载的静态字形度量。加载后只读，可并发查询。
type Table struct {
	glyphs map[layout.FontID]map[string]layout.Metrics
	params map[string][]float64
}

var _ layout.MetricsProvider = (*Table)(nil)

// NewTable 创建空表，可用 Set 手动填充。
func NewTable() *Table {
	return &Table{
		glyphs: map[layout.FontID]map[string]layout.Metrics{},
		params: map[string][]float64{},
	}
}

// Set 写入一个字形的度量，重复写入时后者覆盖前者。
func (t *Table) Set(id layout.FontID, char string, m layout.Metrics) {
	font, ok := t.glyphs[id]
	if !ok {
		font = map[string]layout.Metrics{}
		t.glyphs[id] = font
	}
	font[char] = m
}

// LoadTable 解析度量表。name 仅用于错误信息中的位置。
func LoadTable(name string, r io.Reader) (*Table, error) {
	file, err := dsl.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("解析度量表失败: %w", err)
	}
	return FromFile(file)
}

// LoadDefault 加载内置的 Main_Regular 度量表。
func LoadDefault() (*Table, error) {
	data, err := fonts.Load(fonts.DefaultMetricsPath)
	if err != nil {
		return nil, err
	}
	return LoadTable(fonts.DefaultMetricsPath, bytes.NewReader(data))
}

// FromFile 把语法树转换为 Table。每个字形必须声明 height、depth 与 width。
func FromFile(file *dsl.File) (*Table, error) {
	t := NewTable()
	for _, entry := range file.Entries {
		switch {
		case entry.Param != nil:
			t.params[entry.Param.Name] = append([]float64(nil), entry.Param.Values...)
		case entry.Font != nil:
			id := layout.FontID(entry.Font.Name)
			for _, g := range entry.Font.Glyphs {
				m, err := glyphMetrics(g)
				if err != nil {
					return nil, fmt.Errorf("%s: 字体 %s: %w", g.Pos, id, err)
				}
				t.Set(id, string(g.Char), m)
			}
		}
	}
	return t, nil
}

func glyphMetrics(g *dsl.Glyph) (layout.Metrics, error) {
	var m layout.Metrics
	for _, field := range []struct {
		key string
		dst *float64
	}{{"height", &m.Height}, {"depth", &m.Depth}, {"width", &m.Width}} {
		v, ok := g.Lookup(field.key)
		if !ok {
			return layout.Metrics{}, fmt.Errorf("字形 %q 缺少 %s", string(g.Char), field.key)
		}
		*field.dst = v
	}
	return m, nil
}

// Lookup 实现 layout.MetricsProvider。
func (t *Table) Lookup(id layout.FontID, char string) (layout.Metrics, error) {
	if m, ok := t.glyphs[id][char]; ok {
		return m, nil
	}
	return layout.Metrics{}, &layout.MetricsNotFoundError{Font: id, Char: char}
}

// Param 返回数学常量（依次为 display/text、script、scriptscript 的取值）。
func (t *Table) Param(name string) ([]float64, bool) {
	v, ok := t.params[name]
	return v, ok
}

// Fonts 返回表中的字体，按名称排序。
func (t *Table) Fonts() []layout.FontID {
	ids := make([]layout.FontID, 0, len(t.glyphs))
	for id := range t.glyphs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
