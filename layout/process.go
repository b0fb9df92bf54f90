package layout

// 排版变换：自顶向下遍历盒子树，解析 glue 伸缩，输出绝对坐标的绘制树。
// 画笔是不可变值，每个子节点的放置都返回新的画笔位置以及（可选的）图元。

// Layout 把根盒子排版为绘制树。availableWidth 以字号单位计，0 表示不约束。
// 返回的根分组已下移 height(root)，使原点位于根盒子的左上角。
func (e *Engine) Layout(root Box, availableWidth float64) (*Group, error) {
	g, err := e.layoutBox(root, availableWidth)
	if err != nil {
		return nil, err
	}
	h, err := e.Height(root)
	if err != nil {
		return nil, err
	}
	g.Pen = g.Pen.Add(0, e.fontSize*h)
	return g, nil
}

// Render 执行 Layout，并附带根盒子的设备单位尺寸。
func (e *Engine) Render(root Box, availableWidth float64) (*Result, error) {
	g, err := e.Layout(root, availableWidth)
	if err != nil {
		return nil, err
	}
	h, err := e.Height(root)
	if err != nil {
		return nil, err
	}
	d, err := e.Depth(root)
	if err != nil {
		return nil, err
	}
	return &Result{
		Root:     g,
		Width:    g.Width,
		Height:   e.fontSize * h,
		Depth:    e.fontSize * d,
		FontSize: e.fontSize,
	}, nil
}

func (e *Engine) layoutBox(b Box, available float64) (*Group, error) {
	if b.Kind == VBoxKind {
		return e.layoutVList(b)
	}
	return e.layoutHList(b, available)
}

// glueSet 描述一个水平列表中 glue 的解析结果。
type glueSet struct {
	order     GlueOrder
	total     float64 // 获胜阶上所有 glue 的伸缩量之和
	amount    float64 // 需要分配的宽度差（字号单位，恒为正）
	shrinking bool
}

// resolved 表示 glue 确实吸收了宽度差。
func (s glueSet) resolved() bool { return s.total != 0 }

// capped 表示有限阶收缩已用尽，盒子仍然过满。
func (s glueSet) capped() bool {
	return s.resolved() && s.shrinking && s.order == OrderFinite && s.amount > s.total
}

// advance 返回一个 glue 在该解析结果下的宽度（字号单位）。
func (s glueSet) advance(g Glue) float64 {
	if !s.resolved() {
		return g.Size
	}
	if !s.shrinking {
		return g.Size + g.Stretch[s.order]/s.total*s.amount
	}
	// 有限阶的收缩不能超过声明的收缩量。
	if s.capped() {
		return g.Size - g.Shrink[OrderFinite]
	}
	return g.Size - g.Shrink[s.order]/s.total*s.amount
}

// winningOrder 找出所有 glue 中存在非零值的最高阶，以及该阶上的总量。
func winningOrder(glues []Glue, pick func(Glue) GlueMeasurement) (GlueOrder, float64) {
	order := OrderFinite
	for _, g := range glues {
		m := pick(g)
		for i := OrderFilll; i > order; i-- {
			if m[i] != 0 {
				order = i
				break
			}
		}
	}
	total := 0.0
	for _, g := range glues {
		total += pick(g)[order]
	}
	return order, total
}

// resolveGlue 计算 HBox 的 glue 伸缩。显式宽度优先于 available。
// 自然宽度小于目标时按伸展分配；大于目标（且目标为正）时按收缩分配。
func (e *Engine) resolveGlue(b Box, available float64) (glueSet, float64, error) {
	natural, err := e.naturalWidth(b)
	if err != nil {
		return glueSet{}, 0, err
	}
	target := available
	if b.Width != nil {
		target = *b.Width
	}
	var glues []Glue
	for _, n := range b.Content {
		if g, ok := n.(Glue); ok {
			glues = append(glues, g)
		}
	}
	if len(glues) == 0 {
		return glueSet{}, target, nil
	}
	switch {
	case natural < target:
		order, total := winningOrder(glues, func(g Glue) GlueMeasurement { return g.Stretch })
		return glueSet{order: order, total: total, amount: target - natural}, target, nil
	case natural > target && target > 0:
		order, total := winningOrder(glues, func(g Glue) GlueMeasurement { return g.Shrink })
		return glueSet{order: order, total: total, amount: natural - target, shrinking: true}, target, nil
	default:
		return glueSet{}, target, nil
	}
}

func (e *Engine) text(c Char, pen Pen) *Text {
	return &Text{
		Pen:  pen,
		Font: e.family(c.Font),
		Size: e.fontSize * e.multiplier(c.Style),
		Text: c.Char,
	}
}

func (e *Engine) skip(container BoxKind, n Node, reason string) {
	e.log().Debug("layout: skip node", "container", container.String(), "kind", kindOf(n), "reason", reason)
}

// layoutHList 从左到右放置子节点，画笔从 (0,0)（基线）开始。
func (e *Engine) layoutHList(b Box, available float64) (*Group, error) {
	set, target, err := e.resolveGlue(b, available)
	if err != nil {
		return nil, err
	}
	group := &Group{}
	pen := Pen{}
	for _, n := range b.Content {
		next, p, err := e.placeH(b, set, pen, n)
		if err != nil {
			return nil, err
		}
		if p != nil {
			group.Children = append(group.Children, p)
		}
		pen = next
	}
	group.Width = pen.X
	if (set.resolved() || b.Width != nil) && !set.capped() {
		group.Width = e.fontSize * target
	}
	return group, nil
}

func (e *Engine) placeH(parent Box, set glueSet, pen Pen, n Node) (Pen, Paint, error) {
	s := e.fontSize
	switch v := n.(type) {
	case Kern:
		return pen.Add(s*v.Amount, 0), nil, nil
	case Char:
		m, err := e.charMetrics(v)
		if err != nil {
			return pen, nil, err
		}
		return pen.Add(s*m.Width, 0), e.text(v, pen), nil
	case Box:
		w, err := e.Width(v)
		if err != nil {
			return pen, nil, err
		}
		child, err := e.layoutBox(v, w)
		if err != nil {
			return pen, nil, err
		}
		// shift 把子盒子抬高（正值）或降低（负值）。
		child.Pen = Pen{X: pen.X, Y: pen.Y - s*v.Shift}
		return pen.Add(child.Width, 0), child, nil
	case Glue:
		return pen.Add(s*set.advance(v), 0), nil, nil
	case Rule:
		if v.Width.Fill {
			e.skip(HBoxKind, n, "rule width '*' in horizontal list")
			return pen, nil, nil
		}
		height, depth := v.Height.Value, v.Depth.Value
		if v.Height.Fill {
			height = parent.Height
		}
		if v.Depth.Fill {
			depth = parent.Depth
		}
		rect := &Rect{
			Pen:    Pen{X: pen.X, Y: pen.Y - s*height},
			Width:  s * v.Width.Value,
			Height: s * (height + depth),
		}
		return pen.Add(rect.Width, 0), rect, nil
	default:
		e.skip(HBoxKind, n, "unhandled")
		return pen, nil, nil
	}
}

// layoutVList 自上而下放置子节点。画笔从 -height(box) 开始，即盒子的顶部。
func (e *Engine) layoutVList(b Box) (*Group, error) {
	natural, err := e.boxWidth(b)
	if err != nil {
		return nil, err
	}
	group := &Group{Width: e.fontSize * natural}
	pen := Pen{Y: -e.fontSize * b.Height}
	for _, n := range b.Content {
		next, p, err := e.placeV(natural, pen, n)
		if err != nil {
			return nil, err
		}
		if p != nil {
			group.Children = append(group.Children, p)
		}
		pen = next
	}
	return group, nil
}

func (e *Engine) placeV(natural float64, pen Pen, n Node) (Pen, Paint, error) {
	s := e.fontSize
	switch v := n.(type) {
	case Box:
		// 先下移 height，使子盒子的基线落在画笔上。
		pen = pen.Add(0, s*v.Height)
		child, err := e.layoutBox(v, natural)
		if err != nil {
			return pen, nil, err
		}
		// 较窄的行在最宽的行内水平居中。
		dx := 0.0
		if full := s * natural; child.Width < full {
			dx = (full - child.Width) / 2
		}
		child.Pen = pen.Add(dx, 0)
		return pen.Add(0, s*v.Depth), child, nil
	case Char:
		m, err := e.charMetrics(v)
		if err != nil {
			return pen, nil, err
		}
		pen = pen.Add(0, s*m.Height)
		var p Paint
		if e.charPolicy == CharsStacked {
			p = e.text(v, pen)
		} else {
			e.skip(VBoxKind, n, "chars dropped by policy")
		}
		return pen.Add(0, s*m.Depth), p, nil
	case Kern:
		return pen.Add(0, s*v.Amount), nil, nil
	case Glue:
		return pen.Add(0, s*v.Size), nil, nil
	case Rule:
		if v.Height.Fill || v.Depth.Fill || !v.Width.Fill {
			e.skip(VBoxKind, n, "rule needs finite height/depth and width '*'")
			return pen, nil, nil
		}
		// 规则线以当前行为中心：先上移 height。
		pen = pen.Add(0, -s*v.Height.Value)
		rect := &Rect{
			Pen:    pen,
			Width:  s * natural,
			Height: s * (v.Height.Value + v.Depth.Value),
		}
		return pen.Add(0, rect.Height), rect, nil
	default:
		e.skip(VBoxKind, n, "unhandled")
		return pen, nil, nil
	}
}
