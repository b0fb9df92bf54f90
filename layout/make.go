package layout

import "math"

// TeX 数学间距（单位：em）。
const (
	ThinMuSkip  = 0.16667
	MedMuSkip   = 0.22222
	ThickMuSkip = 0.27778
)

// MakeChar 构造一个字形节点。
func MakeChar(font FontID, style Style, char string) Char {
	return Char{Font: font, Style: style, Char: char}
}

// MakeKern 构造一个固定间距。
func MakeKern(amount float64) Kern { return Kern{Amount: amount} }

// MakeRule 构造规则线，没有派生不变式。
func MakeRule(height, depth, width Dimen) Rule {
	return Rule{Height: height, Depth: depth, Width: width}
}

// MakeGlue 构造 glue；未给出的 stretch/shrink 为零值。
func MakeGlue(size float64, stretchShrink ...GlueMeasurement) Glue {
	g := Glue{Size: size}
	if len(stretchShrink) > 0 {
		g.Stretch = stretchShrink[0]
	}
	if len(stretchShrink) > 1 {
		g.Shrink = stretchShrink[1]
	}
	return g
}

// Hfil、Hfill、Hfilll 返回只在对应无穷阶上有值的伸缩量。
func Hfil(v float64) GlueMeasurement   { return GlueMeasurement{0, v, 0, 0} }
func Hfill(v float64) GlueMeasurement  { return GlueMeasurement{0, 0, v, 0} }
func Hfilll(v float64) GlueMeasurement { return GlueMeasurement{0, 0, 0, v} }

// HBox 构造水平盒子：height/depth 为子节点的最大值，空内容时为 0。
// 构造后尺寸固定，与之后所处的上下文无关。
func (e *Engine) HBox(content []Node, shift float64) (Box, error) {
	height, depth := 0.0, 0.0
	if len(content) > 0 {
		height, depth = math.Inf(-1), math.Inf(-1)
		for _, n := range content {
			h, err := e.Height(n)
			if err != nil {
				return Box{}, err
			}
			d, err := e.Depth(n)
			if err != nil {
				return Box{}, err
			}
			height = math.Max(height, h)
			depth = math.Max(depth, d)
		}
	}
	return Box{
		Kind:    HBoxKind,
		Height:  height,
		Depth:   depth,
		Content: append([]Node(nil), content...),
		Shift:   shift,
	}, nil
}

// VBox 构造竖直盒子，内容顺序为 [upList..., ref, downList...]。
// height = height(ref) + Σ vsize(upList)，depth = depth(ref) + Σ vsize(downList)。
func (e *Engine) VBox(ref Node, upList, downList []Node, shift float64) (Box, error) {
	refHeight, err := e.Height(ref)
	if err != nil {
		return Box{}, err
	}
	refDepth, err := e.Depth(ref)
	if err != nil {
		return Box{}, err
	}
	up, err := e.vlistSize(upList)
	if err != nil {
		return Box{}, err
	}
	down, err := e.vlistSize(downList)
	if err != nil {
		return Box{}, err
	}
	content := make([]Node, 0, len(upList)+1+len(downList))
	content = append(content, upList...)
	content = append(content, ref)
	content = append(content, downList...)
	return Box{
		Kind:    VBoxKind,
		Height:  refHeight + up,
		Depth:   refDepth + down,
		Content: content,
		Shift:   shift,
	}, nil
}

// WithWidth 返回一个带显式宽度的副本（"hbox to"），glue 会按该宽度伸缩。
func (b Box) WithWidth(w float64) Box {
	b.Width = &w
	b.Content = append([]Node(nil), b.Content...)
	return b
}
