// Package demo 用盒子构造函数手工搭建示例公式，供命令行与测试使用。
package demo

import (
	"fmt"
	"sort"

	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
)

// DefaultRuleThickness 是度量表缺少 defaultRuleThickness 时的分数线粗细（em）。
const DefaultRuleThickness = 0.04

// fractionKern 是分数两侧的额外间距（1.2pt，按 10pt 基准字号折算）。
const fractionKern = 1.2 / 10

// Params 提供数学常量，例如 *metrics.Table。
type Params interface {
	Param(name string) ([]float64, bool)
}

// Builder 在给定引擎上搭建示例公式。
type Builder struct {
	engine *layout.Engine
	params Params
}

// New 创建 Builder。params 为空时分数相关的公式不可用。
func New(engine *layout.Engine, params Params) *Builder {
	return &Builder{engine: engine, params: params}
}

var expressions = map[string]func(*Builder) (layout.Box, error){
	"run":      (*Builder).SimpleRun,
	"fraction": (*Builder).Fraction,
}

// Names 返回可用的示例名称。
func Names() []string {
	names := make([]string, 0, len(expressions))
	for name := range expressions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build 按名称搭建示例公式。
func (b *Builder) Build(name string) (layout.Box, error) {
	fn, ok := expressions[name]
	if !ok {
		return layout.Box{}, fmt.Errorf("未知的示例公式 %q（可选：%v）", name, Names())
	}
	return fn(b)
}

func char(c string) layout.Char {
	return layout.MakeChar(layout.FontID(fonts.MainFamily), layout.StyleText, c)
}

// SimpleRun 搭建 5+7=12：二元运算符两侧为 thin muskip，关系符两侧为 thick muskip。
func (b *Builder) SimpleRun() (layout.Box, error) {
	return b.engine.HBox([]layout.Node{
		char("5"),
		layout.MakeKern(layout.ThinMuSkip),
		char("+"),
		layout.MakeKern(layout.ThinMuSkip),
		char("7"),
		layout.MakeKern(layout.ThickMuSkip),
		char("="),
		layout.MakeKern(layout.ThickMuSkip),
		char("1"),
		char("2"),
	}, 0)
}

// Fraction 搭建 2+\frac{1}{2+3}+57。分子分母各自居中于两侧 hfil 之间，分数整体抬高 axisHeight。
func (b *Builder) Fraction() (layout.Box, error) {
	num1, err := b.param("num1")
	if err != nil {
		return layout.Box{}, err
	}
	denom1, err := b.param("denom1")
	if err != nil {
		return layout.Box{}, err
	}
	axis, err := b.param("axisHeight")
	if err != nil {
		return layout.Box{}, err
	}
	rule := DefaultRuleThickness
	if v, err := b.param("defaultRuleThickness"); err == nil {
		rule = v
	}

	numerator, err := b.engine.HBox([]layout.Node{char("1")}, 0)
	if err != nil {
		return layout.Box{}, err
	}
	denominator, err := b.engine.HBox([]layout.Node{
		char("2"),
		layout.MakeKern(layout.ThinMuSkip),
		char("+"),
		layout.MakeKern(layout.ThinMuSkip),
		char("3"),
	}, 0)
	if err != nil {
		return layout.Box{}, err
	}
	numRow, err := b.centered(numerator)
	if err != nil {
		return layout.Box{}, err
	}
	denomRow, err := b.centered(denominator)
	if err != nil {
		return layout.Box{}, err
	}

	// TODO: 按 TeX 规则（附录 G 第 15 条）计算 numShift 与 denomShift，目前取 num1/denom1 的一半。
	fraction, err := b.engine.VBox(
		layout.MakeRule(layout.Fixed(rule/2), layout.Fixed(rule/2), layout.Fill),
		[]layout.Node{numRow, layout.MakeKern(num1 / 2)},
		[]layout.Node{layout.MakeKern(denom1 / 2), denomRow},
		axis,
	)
	if err != nil {
		return layout.Box{}, err
	}

	return b.engine.HBox([]layout.Node{
		char("2"),
		layout.MakeKern(layout.MedMuSkip),
		char("+"),
		layout.MakeKern(layout.MedMuSkip),
		layout.MakeKern(fractionKern),
		fraction,
		layout.MakeKern(fractionKern),
		layout.MakeKern(layout.MedMuSkip),
		char("+"),
		layout.MakeKern(layout.MedMuSkip),
		char("5"),
		char("7"),
	}, 0)
}

func (b *Builder) centered(inner layout.Box) (layout.Box, error) {
	return b.engine.HBox([]layout.Node{
		layout.MakeGlue(0, layout.Hfil(1)),
		inner,
		layout.MakeGlue(0, layout.Hfil(1)),
	}, 0)
}

// param 返回 display/text 样式下的数学常量。
func (b *Builder) param(name string) (float64, error) {
	if b.params == nil {
		return 0, fmt.Errorf("缺少数学常量 %s", name)
	}
	v, ok := b.params.Param(name)
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("缺少数学常量 %s", name)
	}
	return v[0], nil
}
