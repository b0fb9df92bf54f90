package layout

// 该文件定义 box/glue 排版的节点模型。节点为不可变值，构造后只读。

// FontID 标识字形度量所属的字体，例如 "Main_Regular"。
type FontID string

// Style 为 TeX 的字号类别：D（display）、T（text）、S（script）、SS（scriptscript）。
type Style string

const (
	StyleDisplay      Style = "D"
	StyleText         Style = "T"
	StyleScript       Style = "S"
	StyleScriptScript Style = "SS"
)

// BoxKind 区分水平与竖直堆叠。
type BoxKind int

const (
	HBoxKind BoxKind = iota
	VBoxKind
)

func (k BoxKind) String() string {
	if k == VBoxKind {
		return "VBox"
	}
	return "HBox"
}

// Node 是封闭的节点变体集合；只有本包内的类型实现 node()。
type Node interface {
	node()
}

// Char 是指定字体与字号类别下的单个字形。
type Char struct {
	Font  FontID `json:"font"`
	Char  string `json:"char"`
	Style Style  `json:"style"`
}

// Box 是水平或竖直堆叠的复合节点。Height/Depth 在构造时由内容确定，之后不再重算。
// Shift 由父节点在定位时使用，不改变盒子自身尺寸。
type Box struct {
	Kind    BoxKind  `json:"kind"`
	Width   *float64 `json:"width,omitempty"` // 为空时由内容决定宽度
	Height  float64  `json:"height"`
	Depth   float64  `json:"depth"`
	Content []Node   `json:"-"`
	Shift   float64  `json:"shift"`
}

// Dimen 是规则线的一个维度：固定数值或 '*'（沿该轴填满可用空间）。
type Dimen struct {
	Value float64
	Fill  bool
}

// Fixed 返回一个固定数值的维度。
func Fixed(v float64) Dimen { return Dimen{Value: v} }

// Fill 表示 '*'。
var Fill = Dimen{Fill: true}

// measured 在度量引擎中把 '*' 视为 0。
func (d Dimen) measured() float64 {
	if d.Fill {
		return 0
	}
	return d.Value
}

// Rule 是实心矩形条（例如分数线）。
type Rule struct {
	Height Dimen
	Depth  Dimen
	Width  Dimen
}

// Kern 是固定、不可伸缩的间距。
type Kern struct {
	Amount float64
}

// GlueOrder 是伸缩的阶：有限、fil、fill、filll。高阶完全压制低阶。
type GlueOrder int

const (
	OrderFinite GlueOrder = iota
	OrderFil
	OrderFill
	OrderFilll
)

// GlueMeasurement 依次为 [finite, fil, fill, filll]。
type GlueMeasurement [4]float64

// Glue 是可伸缩的间距，Size 为自然宽度。
type Glue struct {
	Size    float64
	Stretch GlueMeasurement
	Shrink  GlueMeasurement
}

// Penalty 是断行提示；本引擎只携带，不消费。
type Penalty struct {
	Potential float64
	Adequacy  float64
}

// Special 是对布局不透明的逃生节点。
type Special struct {
	Width  *float64
	Height float64
	Depth  float64
}

func (Char) node()    {}
func (Box) node()     {}
func (Rule) node()    {}
func (Kern) node()    {}
func (Glue) node()    {}
func (Penalty) node() {}
func (Special) node() {}

// kindOf 返回节点的类型名，用于日志。
func kindOf(n Node) string {
	switch v := n.(type) {
	case Char:
		return "Char"
	case Box:
		return v.Kind.String()
	case Rule:
		return "Rule"
	case Kern:
		return "Kern"
	case Glue:
		return "Glue"
	case Penalty:
		return "Penalty"
	case Special:
		return "Special"
	default:
		return "unknown"
	}
}
