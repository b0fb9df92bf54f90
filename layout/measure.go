package layout

import "math"

// 度量引擎：对任意节点递归计算 width/vwidth/height/depth/vsize。
// 未显式处理的节点贡献 0；'*' 维度在这里视为 0，只有排版阶段才会解析。

// charMetrics 查询字形度量并乘以字号类别倍率。
func (e *Engine) charMetrics(c Char) (Metrics, error) {
	m, err := e.metrics.Lookup(c.Font, c.Char)
	if err != nil {
		return Metrics{}, err
	}
	k := e.multiplier(c.Style)
	return Metrics{Height: k * m.Height, Depth: k * m.Depth, Width: k * m.Width}, nil
}

// Width 返回节点的水平宽度。HBox 为子节点宽度之和，VBox 为最宽的一行。
func (e *Engine) Width(n Node) (float64, error) {
	switch v := n.(type) {
	case Char:
		m, err := e.charMetrics(v)
		return m.Width, err
	case Box:
		return e.boxWidth(v)
	case Kern:
		return v.Amount, nil
	case Glue:
		return v.Size, nil
	case Rule:
		return v.Width.measured(), nil
	case Penalty, Special:
		return 0, nil
	default:
		return 0, nil
	}
}

// VWidth 返回节点在竖直堆叠上下文中的宽度；Kern 与 Glue 在该方向上没有宽度。
func (e *Engine) VWidth(n Node) (float64, error) {
	switch v := n.(type) {
	case Char:
		m, err := e.charMetrics(v)
		return m.Width, err
	case Box:
		return e.boxWidth(v)
	case Rule:
		return v.Width.measured(), nil
	case Kern, Glue, Penalty, Special:
		return 0, nil
	default:
		return 0, nil
	}
}

func (e *Engine) boxWidth(b Box) (float64, error) {
	if b.Width != nil {
		return *b.Width, nil
	}
	return e.naturalWidth(b)
}

// naturalWidth 忽略显式宽度，只由内容决定。
func (e *Engine) naturalWidth(b Box) (float64, error) {
	if b.Kind == VBoxKind {
		if len(b.Content) == 0 {
			return 0, nil
		}
		widest := math.Inf(-1)
		for _, c := range b.Content {
			w, err := e.VWidth(c)
			if err != nil {
				return 0, err
			}
			widest = math.Max(widest, w)
		}
		return widest, nil
	}
	total := 0.0
	for _, c := range b.Content {
		w, err := e.Width(c)
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// Height 返回节点基线以上的高度。盒子的高度已加上 Shift，父节点可直接使用。
func (e *Engine) Height(n Node) (float64, error) {
	switch v := n.(type) {
	case Char:
		m, err := e.charMetrics(v)
		return m.Height, err
	case Box:
		return v.Height + v.Shift, nil
	case Rule:
		return v.Height.measured(), nil
	case Kern, Glue, Penalty, Special:
		return 0, nil
	default:
		return 0, nil
	}
}

// Depth 返回节点基线以下的深度。盒子的深度已减去 Shift。
func (e *Engine) Depth(n Node) (float64, error) {
	switch v := n.(type) {
	case Char:
		m, err := e.charMetrics(v)
		return m.Depth, err
	case Box:
		return v.Depth - v.Shift, nil
	case Rule:
		return v.Depth.measured(), nil
	case Kern, Glue, Penalty, Special:
		return 0, nil
	default:
		return 0, nil
	}
}

// VSize 返回节点在竖直堆叠中占据的高度。
func (e *Engine) VSize(n Node) (float64, error) {
	switch v := n.(type) {
	case Char, Box, Rule:
		h, err := e.Height(v)
		if err != nil {
			return 0, err
		}
		d, err := e.Depth(v)
		if err != nil {
			return 0, err
		}
		return h + d, nil
	case Glue:
		return v.Size, nil
	case Kern:
		return v.Amount, nil
	case Penalty, Special:
		return 0, nil
	default:
		return 0, nil
	}
}

// vlistSize 是竖直列表的 VSize 之和。
func (e *Engine) vlistSize(list []Node) (float64, error) {
	total := 0.0
	for _, n := range list {
		s, err := e.VSize(n)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}
