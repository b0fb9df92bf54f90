// Package markup renders layout results as absolutely positioned HTML spans.
package markup

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/mathbox/layout"
	"github.com/ByLCY/mathbox/renderer"
	"github.com/ByLCY/mathbox/scene"
)

// Renderer 输出一个相对定位的容器，text 与 rect 均为其中的绝对定位 span。
type Renderer struct {
	class    string
	color    string
	document bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置 HTML 输出。
type Options struct {
	Class    string // 容器的 class，默认 "mathbox"
	Color    string // 文本与规则线的颜色，默认 "black"
	Document bool   // 输出完整的 HTML 文档而不是片段
}

// NewRenderer 创建 HTML 渲染器。
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{class: opts.Class, color: opts.Color, document: opts.Document}
	if r.class == "" {
		r.class = "mathbox"
	}
	if r.color == "" {
		r.color = "black"
	}
	return r
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	node, err := r.Node(result)
	if err != nil {
		return nil, err
	}
	if r.document {
		node = wrapDocument(node)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return nil, fmt.Errorf("输出 HTML 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Node 返回排版结果对应的容器节点。
func (r *Renderer) Node(result *layout.Result) (*html.Node, error) {
	if result == nil || result.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	container := element(atom.Div,
		html.Attribute{Key: "class", Val: r.class},
		html.Attribute{Key: "style", Val: fmt.Sprintf(
			"position:relative;display:inline-block;width:%s;height:%s;vertical-align:%s",
			px(result.Width), px(result.TotalHeight()), px(-result.Depth))},
	)
	for _, leaf := range scene.Build(result.Root).Flatten() {
		switch p := leaf.Paint.(type) {
		case *layout.Text:
			// line-height:0 让 top 落在基线上
			span := element(atom.Span, html.Attribute{Key: "style", Val: fmt.Sprintf(
				"position:absolute;left:%s;top:%s;line-height:0;white-space:pre;font-family:%s;font-size:%s;color:%s",
				px(leaf.World.X), px(leaf.World.Y), p.Font, px(p.Size), r.color)})
			span.AppendChild(&html.Node{Type: html.TextNode, Data: p.Text})
			container.AppendChild(span)
		case *layout.Rect:
			container.AppendChild(element(atom.Span, html.Attribute{Key: "style", Val: fmt.Sprintf(
				"position:absolute;left:%s;top:%s;width:%s;height:%s;background:%s",
				px(leaf.World.X), px(leaf.World.Y), px(p.Width), px(p.Height), r.color)}))
		}
	}
	return container, nil
}

func wrapDocument(body *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	b := element(atom.Body)
	b.AppendChild(body)
	root.AppendChild(head)
	root.AppendChild(b)
	doc.AppendChild(root)
	return doc
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
