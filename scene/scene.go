// Package scene 把排版输出的绘制树转换为带绝对坐标的保留树，供后端定位与命中测试。
package scene

import "github.com/ByLCY/mathbox/layout"

// Rect is an axis-aligned box in device units, y down.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rect (edges included).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Extent 返回文本相对于基线左端的宽度、上伸与下伸（设备单位）。
type Extent func(t *layout.Text) (width, ascent, descent float64)

// EstimateExtent 在没有字形度量时按字号粗略估计文本范围。
func EstimateExtent(t *layout.Text) (width, ascent, descent float64) {
	n := 0
	for range t.Text {
		n++
	}
	return 0.5 * t.Size * float64(n), 0.75 * t.Size, 0.25 * t.Size
}

// Node is a paint primitive resolved to world coordinates.
type Node struct {
	Paint  layout.Paint
	World  layout.Pen // absolute pen: the group origin, the text baseline start, or the rect top-left
	Bounds Rect       // own bounds for text/rect, union of descendants for groups

	Parent   *Node
	Children []*Node
}

// Kind returns the paint kind of the node.
func (n *Node) Kind() layout.PaintKind { return n.Paint.Kind() }

// Build resolves a paint tree using EstimateExtent for text bounds.
func Build(root layout.Paint) *Node {
	return BuildWith(root, EstimateExtent)
}

// BuildWith resolves a paint tree; extent measures text primitives.
func BuildWith(root layout.Paint, extent Extent) *Node {
	if root == nil {
		return nil
	}
	if extent == nil {
		extent = EstimateExtent
	}
	return build(root, layout.Pen{}, nil, extent)
}

func build(p layout.Paint, origin layout.Pen, parent *Node, extent Extent) *Node {
	pos := p.Position()
	n := &Node{
		Paint:  p,
		World:  origin.Add(pos.X, pos.Y),
		Parent: parent,
	}
	switch v := p.(type) {
	case *layout.Group:
		n.Bounds = Rect{X: n.World.X, Y: n.World.Y}
		for _, child := range v.Children {
			c := build(child, n.World, n, extent)
			n.Children = append(n.Children, c)
			n.Bounds = n.Bounds.Union(c.Bounds)
		}
	case *layout.Text:
		w, asc, desc := extent(v)
		n.Bounds = Rect{X: n.World.X, Y: n.World.Y - asc, Width: w, Height: asc + desc}
	case *layout.Rect:
		n.Bounds = Rect{X: n.World.X, Y: n.World.Y, Width: v.Width, Height: v.Height}
	}
	return n
}

// Walk visits n and its descendants depth-first in paint order; returning false skips the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Flatten 返回所有 text 与 rect 叶子，按绘制顺序排列。
func (n *Node) Flatten() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind() != layout.PaintGroup {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}

// HitTest 返回包含该点的最上层（最后绘制）的 text 或 rect 节点，没有时返回 nil。
func (n *Node) HitTest(x, y float64) *Node {
	if n == nil {
		return nil
	}
	if n.Kind() != layout.PaintGroup {
		if n.Bounds.Contains(x, y) {
			return n
		}
		return nil
	}
	if !n.Bounds.IsEmpty() && !n.Bounds.Contains(x, y) {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit := n.Children[i].HitTest(x, y); hit != nil {
			return hit
		}
	}
	return nil
}
