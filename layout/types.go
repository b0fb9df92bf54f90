package layout

import "encoding/json"

// 该文件定义排版结果（绘制树），供后端渲染与调试 JSON 共用。
// 所有坐标与尺寸都已乘以字号，是最终的设备单位；后端不需要了解 box、glue 或 kern。

// PaintKind 是绘制图元的类型标签。
type PaintKind string

const (
	PaintGroup PaintKind = "g"
	PaintText  PaintKind = "text"
	PaintRect  PaintKind = "rect"
)

// Pen 是以左上角为原点的位置，y 轴向下。
type Pen struct {
	X float64
	Y float64
}

// Add 返回平移后的新位置。
func (p Pen) Add(dx, dy float64) Pen { return Pen{X: p.X + dx, Y: p.Y + dy} }

// MarshalJSON 输出 [x, y]。
func (p Pen) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// Paint 是绘制树中的节点：*Group、*Text 或 *Rect。
type Paint interface {
	Kind() PaintKind
	Position() Pen
}

// Group 把子节点的坐标系平移到 Pen。Width 为排版后（含 glue 伸缩）的宽度。
type Group struct {
	Pen      Pen
	Width    float64
	Children []Paint
}

// Text 在 Pen（基线左端）处绘制一段文本。
type Text struct {
	Pen  Pen
	Font string
	Size float64
	Text string
}

// Rect 以 Pen 为左上角绘制实心矩形。
type Rect struct {
	Pen    Pen
	Width  float64
	Height float64
}

func (*Group) Kind() PaintKind { return PaintGroup }
func (*Text) Kind() PaintKind  { return PaintText }
func (*Rect) Kind() PaintKind  { return PaintRect }

func (g *Group) Position() Pen { return g.Pen }
func (t *Text) Position() Pen  { return t.Pen }
func (r *Rect) Position() Pen  { return r.Pen }

func (g *Group) MarshalJSON() ([]byte, error) {
	children := g.Children
	if children == nil {
		children = []Paint{}
	}
	return json.Marshal(struct {
		Type     PaintKind `json:"type"`
		Pen      Pen       `json:"pen"`
		Width    float64   `json:"width"`
		Children []Paint   `json:"children"`
	}{PaintGroup, g.Pen, g.Width, children})
}

func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type PaintKind `json:"type"`
		Pen  Pen       `json:"pen"`
		Font string    `json:"fontFamily"`
		Size float64   `json:"fontSize"`
		Text string    `json:"text"`
	}{PaintText, t.Pen, t.Font, t.Size, t.Text})
}

func (r *Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   PaintKind `json:"type"`
		Pen    Pen       `json:"pen"`
		Width  float64   `json:"width"`
		Height float64   `json:"height"`
	}{PaintRect, r.Pen, r.Width, r.Height})
}

// Result 保存排版后的绘制树以及根盒子的设备单位尺寸，供后端确定画布大小。
type Result struct {
	Root     *Group  `json:"root"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`
	FontSize float64 `json:"fontSize"`
}

// TotalHeight 为 Height + Depth。
func (r *Result) TotalHeight() float64 { return r.Height + r.Depth }
