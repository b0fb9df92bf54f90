package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func texts(g *Group) []*Text {
	var out []*Text
	for _, c := range g.Children {
		if t, ok := c.(*Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func mustLayout(t *testing.T, e *Engine, b Box, width float64) *Group {
	t.Helper()
	g, err := e.Layout(b, width)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return g
}

// TestKernRunScenario："1 + 2"，字形宽 20、kern 0.2、字号 32。
func TestKernRunScenario(t *testing.T) {
	m := stubMetrics{
		"1": {Height: 0.7, Width: 20},
		"+": {Height: 0.6, Depth: 0.1, Width: 20},
		"2": {Height: 0.7, Width: 20},
	}
	e := newTestEngine(t, m)
	box, err := e.HBox([]Node{ch("1"), MakeKern(0.2), ch("+"), MakeKern(0.2), ch("2")}, 0)
	if err != nil {
		t.Fatalf("HBox: %v", err)
	}
	res, err := e.Render(box, 0)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	wantWidth := 32 * (20 + 20 + 20 + 0.2 + 0.2)
	if math.Abs(res.Width-wantWidth) > 1e-9 {
		t.Fatalf("total width: got=%g want=%g", res.Width, wantWidth)
	}
	got := texts(res.Root)
	if len(got) != 3 {
		t.Fatalf("expected 3 text primitives, got %d", len(got))
	}
	wantX := []float64{0, 32 * (20 + 0.2), 32 * (20 + 0.2 + 20 + 0.2)}
	wantText := []string{"1", "+", "2"}
	for i, tx := range got {
		if math.Abs(tx.Pen.X-wantX[i]) > 1e-9 || tx.Pen.Y != 0 {
			t.Fatalf("text %d pen: got=%v want=(%g,0)", i, tx.Pen, wantX[i])
		}
		if tx.Text != wantText[i] || tx.Size != 32 || tx.Font != "Main_Regular" {
			t.Fatalf("text %d: %+v", i, tx)
		}
	}
	if res.Root.Pen.Y != 32*0.7 {
		t.Fatalf("root must be offset by its height: got=%g", res.Root.Pen.Y)
	}
}

// TestGlueExactness：唯一的 fil glue 恰好吸收 availableWidth - W0。
func TestGlueExactness(t *testing.T) {
	e := newTestEngine(t, nil)
	box, _ := e.HBox([]Node{ch("a"), MakeGlue(0, Hfil(1)), ch("b")}, 0)
	const available = 4.0
	w0 := mustWidth(t, e, box)
	g := mustLayout(t, e, box, available)
	tx := texts(g)
	afterPrev := tx[0].Pen.X + 32*0.5
	gap := tx[1].Pen.X - afterPrev
	if want := 32 * (available - w0); gap != want {
		t.Fatalf("glue gap: got=%v want=%v", gap, want)
	}
	if g.Width != 32*available {
		t.Fatalf("resolved width: got=%g want=%g", g.Width, 32*available)
	}
}

// TestGlueExactnessWithinRounding：宽度不能被二进制精确表示时，glue 间隙与剩余宽度只差舍入误差。
// 画笔是逐项累加的设备单位，只有可精确表示的输入才能逐位相等（见 TestGlueExactness）。
func TestGlueExactnessWithinRounding(t *testing.T) {
	e := newTestEngine(t, stubMetrics{
		"x": {Height: 0.5, Width: 0.1},
		"y": {Height: 0.5, Width: 0.1},
	})
	box, _ := e.HBox([]Node{MakeChar("F", StyleText, "x"), MakeGlue(0, Hfil(1)), MakeChar("F", StyleText, "y")}, 0)
	w0 := mustWidth(t, e, box)
	for i := 1; i <= 50; i++ {
		available := 0.3 + float64(i)*0.037
		tx := texts(mustLayout(t, e, box, available))
		gap := tx[1].Pen.X - (tx[0].Pen.X + 32*0.1)
		if want := 32 * (available - w0); math.Abs(gap-want) > 1e-9 {
			t.Fatalf("available %g: glue gap got=%v want=%v", available, gap, want)
		}
	}
}

// TestGlueOrderDominance：fill 吸收全部剩余宽度，有限伸展的 glue 不分得任何宽度。
func TestGlueOrderDominance(t *testing.T) {
	e := newTestEngine(t, nil)
	finite := MakeGlue(0, GlueMeasurement{1000, 0, 0, 0})
	fill := MakeGlue(0, Hfill(0.001))
	box, _ := e.HBox([]Node{ch("a"), finite, ch("b"), fill, ch("a")}, 0)
	const available = 4.0
	g := mustLayout(t, e, box, available)
	tx := texts(g)
	if tx[1].Pen.X != 32*0.5 {
		t.Fatalf("finite glue must not stretch: got=%g want=%g", tx[1].Pen.X, 32*0.5)
	}
	natural := mustWidth(t, e, box)
	want := 32*0.5 + 32*0.25 + 32*(available-natural)
	if tx[2].Pen.X != want {
		t.Fatalf("fill glue must take the whole surplus: got=%g want=%g", tx[2].Pen.X, want)
	}
}

func TestGlueSharesWithinWinningOrder(t *testing.T) {
	e := newTestEngine(t, nil)
	box, _ := e.HBox([]Node{MakeGlue(0, Hfil(1)), ch("a"), MakeGlue(0, Hfil(3)), ch("b"), MakeGlue(0.5)}, 0)
	g := mustLayout(t, e, box, 4.75)
	tx := texts(g)
	// 自然宽度 1.25，剩余 3.5：fil 1 分得 0.875，fil 3 分得 2.625，无伸展的 glue 只有 size。
	if tx[0].Pen.X != 32*0.875 {
		t.Fatalf("first share: got=%g want=%g", tx[0].Pen.X, 32*0.875)
	}
	if tx[1].Pen.X != 32*(0.875+0.5+2.625) {
		t.Fatalf("second share: got=%g", tx[1].Pen.X)
	}
}

func TestGlueNaturalWhenNoSurplus(t *testing.T) {
	e := newTestEngine(t, nil)
	box, _ := e.HBox([]Node{ch("a"), MakeGlue(0.25, Hfil(1)), ch("b")}, 0)
	g := mustLayout(t, e, box, 0)
	if x := texts(g)[1].Pen.X; x != 32*0.75 {
		t.Fatalf("glue must advance by its size: got=%g want=%g", x, 32*0.75)
	}
}

func TestGlueShrinkWhenOverfull(t *testing.T) {
	e := newTestEngine(t, nil)
	glue := MakeGlue(0.5, GlueMeasurement{}, GlueMeasurement{0.25, 0, 0, 0})
	box, _ := e.HBox([]Node{ch("a"), glue, ch("a")}, 0)

	g := mustLayout(t, e, box, 1.25)
	if x := texts(g)[1].Pen.X; x != 32*0.75 {
		t.Fatalf("shrink: got=%g want=%g", x, 32*0.75)
	}
	// 有限阶的收缩不超过声明的收缩量。
	if g.Width != 32*1.25 {
		t.Fatalf("shrunk width: got=%g want=%g", g.Width, 32*1.25)
	}
	// 有限阶的收缩不超过声明的收缩量，盒子仍然过满，宽度取实际画笔位置。
	g = mustLayout(t, e, box, 1.0)
	if x := texts(g)[1].Pen.X; x != 32*0.75 {
		t.Fatalf("finite shrink must be capped: got=%g want=%g", x, 32*0.75)
	}
	if g.Width != 32*1.25 {
		t.Fatalf("overfull width: got=%g want=%g", g.Width, 32*1.25)
	}
}

func TestExplicitBoxWidthIsGlueTarget(t *testing.T) {
	e := newTestEngine(t, nil)
	box, _ := e.HBox([]Node{MakeGlue(0, Hfil(1)), ch("a")}, 0)
	box = box.WithWidth(2)
	if w := mustWidth(t, e, box); w != 2 {
		t.Fatalf("explicit width: got=%g", w)
	}
	g := mustLayout(t, e, box, 0)
	if x := texts(g)[0].Pen.X; x != 32*1.5 {
		t.Fatalf("right-aligned char: got=%g want=%g", x, 32*1.5)
	}
}

func TestLayoutIdempotent(t *testing.T) {
	e := newTestEngine(t, nil)
	num, _ := e.HBox([]Node{MakeGlue(0, Hfil(1)), ch("1"), MakeGlue(0, Hfil(1))}, 0)
	den, _ := e.HBox([]Node{ch("2"), MakeKern(ThinMuSkip), ch("+"), MakeKern(ThinMuSkip), ch("a")}, 0)
	frac, _ := e.VBox(MakeRule(Fixed(0.02), Fixed(0.02), Fill), []Node{num, MakeKern(0.3)}, []Node{MakeKern(0.3), den}, 0.25)
	root, _ := e.HBox([]Node{ch("2"), MakeKern(MedMuSkip), ch("+"), frac, ch("g")}, 0)

	first := mustLayout(t, e, root, 10)
	second := mustLayout(t, e, root, 10)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("layout is not deterministic (-first +second):\n%s", diff)
	}
}

func TestNestedBoxAdvancesPenAndShifts(t *testing.T) {
	e := newTestEngine(t, nil)
	inner, _ := e.HBox([]Node{ch("b"), ch("b")}, 0.5)
	root, _ := e.HBox([]Node{ch("a"), inner, ch("a")}, 0)
	g := mustLayout(t, e, root, 0)
	if len(g.Children) != 3 {
		t.Fatalf("children: got=%d", len(g.Children))
	}
	child, ok := g.Children[1].(*Group)
	if !ok {
		t.Fatalf("expected nested group, got %T", g.Children[1])
	}
	if child.Pen != (Pen{X: 16, Y: -16}) {
		t.Fatalf("nested group pen: got=%v want={16 -16}", child.Pen)
	}
	last := g.Children[2].(*Text)
	if last.Pen.X != 32*(0.5+0.5) {
		t.Fatalf("sibling after nested box: got=%g want=%g", last.Pen.X, 32.0)
	}
}

// TestVBoxRuleScenario：vwidth 5.0、字号 32 的 VBox 中 '*' 宽度规则线只输出一个矩形。
func TestVBoxRuleScenario(t *testing.T) {
	e := newTestEngine(t, nil)
	row, _ := e.HBox([]Node{MakeKern(5.0)}, 0)
	vbox, err := e.VBox(MakeRule(Fixed(0.02), Fixed(0.02), Fill), []Node{row}, nil, 0)
	if err != nil {
		t.Fatalf("VBox: %v", err)
	}
	if vw, _ := e.VWidth(vbox); vw != 5.0 {
		t.Fatalf("vwidth: got=%g", vw)
	}
	g := mustLayout(t, e, vbox, 0)
	var rects []*Rect
	for _, c := range g.Children {
		if r, ok := c.(*Rect); ok {
			rects = append(rects, r)
		}
	}
	if len(rects) != 1 {
		t.Fatalf("expected exactly one rect, got %d", len(rects))
	}
	if rects[0].Width != 32*5.0 || rects[0].Height != 32*(0.02+0.02) {
		t.Fatalf("rect: got %gx%g", rects[0].Width, rects[0].Height)
	}
	// 画笔位于盒子顶部 -height，规则线再上移自身的 height。
	if math.Abs(rects[0].Pen.Y-(-32*0.04)) > 1e-9 {
		t.Fatalf("rect top: got=%g want=%g", rects[0].Pen.Y, -32*0.04)
	}
}

// TestVBoxRuleCenteredOnCurrentLine：规则线从画笔上移 height 处开始，之后画笔前进 height+depth。
func TestVBoxRuleCenteredOnCurrentLine(t *testing.T) {
	e := newTestEngine(t, nil)
	up, _ := e.HBox([]Node{ch("a")}, 0)
	down, _ := e.HBox([]Node{ch("b")}, 0)
	vbox, err := e.VBox(MakeRule(Fixed(0.02), Fixed(0.02), Fill), []Node{up}, []Node{down}, 0)
	if err != nil {
		t.Fatalf("VBox: %v", err)
	}
	g := mustLayout(t, e, vbox, 0)
	if len(g.Children) != 3 {
		t.Fatalf("expected row, rule, row; got %d children", len(g.Children))
	}

	rect, ok := g.Children[1].(*Rect)
	if !ok {
		t.Fatalf("second child must be the rule, got %T", g.Children[1])
	}
	// 顶部 -32*0.52，下移第一行 height 0.5 到 -0.64，再上移规则线 height 0.02。
	if math.Abs(rect.Pen.Y-(-1.28)) > 1e-9 {
		t.Fatalf("rect top: got=%g want=%g", rect.Pen.Y, -1.28)
	}
	row := g.Children[2].(*Group)
	if want := -1.28 + 32*0.04 + 32*0.75; math.Abs(row.Pen.Y-want) > 1e-9 {
		t.Fatalf("row after rule: got=%g want=%g", row.Pen.Y, want)
	}
}

func TestVBoxSkipsUnresolvableRules(t *testing.T) {
	e := newTestEngine(t, nil)
	vbox := Box{Kind: VBoxKind, Content: []Node{
		MakeRule(Fixed(0.1), Fixed(0.1), Fixed(1)),
		MakeRule(Fill, Fixed(0.1), Fill),
	}}
	g := mustLayout(t, e, vbox, 0)
	if len(g.Children) != 0 {
		t.Fatalf("rules must be skipped, got %d children", len(g.Children))
	}
}

func TestVBoxCentersNarrowRows(t *testing.T) {
	e := newTestEngine(t, nil)
	wide, _ := e.HBox([]Node{ch("a"), ch("a")}, 0)
	narrow, _ := e.HBox([]Node{ch("a")}, 0)
	vbox, _ := e.VBox(MakeRule(Fixed(0.02), Fixed(0.02), Fill), []Node{wide}, []Node{narrow}, 0)
	g := mustLayout(t, e, vbox, 0)

	top := g.Children[0].(*Group)
	bottom := g.Children[2].(*Group)
	if top.Pen.X != 0 {
		t.Fatalf("widest row must not move: got=%g", top.Pen.X)
	}
	if bottom.Pen.X != 8 {
		t.Fatalf("narrow row must be centered: got=%g want=8", bottom.Pen.X)
	}
	// 行的基线：顶部 -H，加上第一行 height。
	wantY := -32*vbox.Height + 32*wide.Height
	if math.Abs(top.Pen.Y-wantY) > 1e-9 {
		t.Fatalf("first row baseline: got=%g want=%g", top.Pen.Y, wantY)
	}
}

func TestVBoxStretchedRowIsNotShiftedAgain(t *testing.T) {
	e := newTestEngine(t, nil)
	wide, _ := e.HBox([]Node{ch("a"), ch("a")}, 0)
	filled, _ := e.HBox([]Node{MakeGlue(0, Hfil(1)), ch("a"), MakeGlue(0, Hfil(1))}, 0)
	vbox, _ := e.VBox(MakeKern(0), []Node{wide}, []Node{filled}, 0)
	g := mustLayout(t, e, vbox, 0)
	row := g.Children[1].(*Group)
	if row.Pen.X != 0 {
		t.Fatalf("stretched row fills the vbox: got pen.x=%g", row.Pen.X)
	}
	if x := texts(row)[0].Pen.X; x != 8 {
		t.Fatalf("glue centers the char: got=%g want=8", x)
	}
}

func TestVBoxCharPolicies(t *testing.T) {
	vbox := Box{Kind: VBoxKind, Height: 0.5, Depth: 0, Content: []Node{ch("a")}}

	e := newTestEngine(t, nil)
	g := mustLayout(t, e, vbox, 0)
	tx := texts(g)
	if len(tx) != 1 || tx[0].Pen != (Pen{}) {
		t.Fatalf("stacked char must sit on the baseline: %+v", tx)
	}

	dropped, err := New(Options{Metrics: testMetrics, FontSize: 32, VListChars: CharsDropped})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g = mustLayout(t, dropped, vbox, 0)
	if len(g.Children) != 0 {
		t.Fatalf("dropped policy must not emit text, got %d children", len(g.Children))
	}
}

func TestHBoxRule(t *testing.T) {
	e := newTestEngine(t, nil)
	box, _ := e.HBox([]Node{ch("b"), MakeRule(Fill, Fixed(0), Fixed(0.25)), ch("a")}, 0)
	g := mustLayout(t, e, box, 0)
	r, ok := g.Children[1].(*Rect)
	if !ok {
		t.Fatalf("expected rect, got %T", g.Children[1])
	}
	if r.Pen != (Pen{X: 8, Y: -24}) || r.Width != 8 || r.Height != 24 {
		t.Fatalf("rect: %+v", r)
	}
	if x := g.Children[2].(*Text).Pen.X; x != 16 {
		t.Fatalf("pen after rule: got=%g want=16", x)
	}
}

func TestFamiliesAndScriptSize(t *testing.T) {
	e, err := New(Options{Metrics: testMetrics, FontSize: 32, Families: map[FontID]string{"Main_Regular": "KaTeX_Main"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	box, _ := e.HBox([]Node{MakeChar("Main_Regular", StyleScriptScript, "a")}, 0)
	tx := texts(mustLayout(t, e, box, 0))[0]
	if tx.Font != "KaTeX_Main" || tx.Size != 16 {
		t.Fatalf("text styling: %+v", tx)
	}
}
