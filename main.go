package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/mathbox/binding"
	"github.com/ByLCY/mathbox/demo"
	"github.com/ByLCY/mathbox/fonts"
	"github.com/ByLCY/mathbox/layout"
	"github.com/ByLCY/mathbox/metrics"
	"github.com/ByLCY/mathbox/renderer"
	canvasrenderer "github.com/ByLCY/mathbox/renderer/canvas"
	"github.com/ByLCY/mathbox/renderer/markup"
	"github.com/ByLCY/mathbox/renderer/raster"
	svgrenderer "github.com/ByLCY/mathbox/renderer/svg"
)

// config 汇总命令行参数。
type config struct {
	Expr    string
	Metrics string // 度量表路径，空则使用内置表
	Font    string // TTF/OTF 路径，设置后用字体文件本身的度量
	Size    layout.Length
	Width   layout.Length
	Format  string
	Out     string
	Debug   string
	Margin  float64
	Verbose bool
}

func main() {
	expr := flag.String("expr", "fraction", "示例公式："+strings.Join(demo.Names(), ", "))
	metricsPath := flag.String("metrics", "", "字形度量表路径（默认使用内置 Main_Regular）")
	fontPath := flag.String("font", "", "用于度量与渲染的 TTF/OTF 字体文件")
	size := flag.String("size", "32px", "字号（每 em 的设备单位），可带单位 px/pt/mm/in")
	width := flag.String("width", "0", "可用宽度，无单位时按 em 计，0 表示不约束")
	format := flag.String("format", "pdf", "输出格式：pdf, svg, html, png, json")
	output := flag.String("out", "output/${expr}.${format}", "输出路径，支持 ${expr} 与 ${format}")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	margin := flag.Float64("margin", 4, "四周留白（设备单位）")
	verbose := flag.Bool("v", false, "输出 Debug 级别日志")
	flag.Parse()

	cfg := config{
		Expr:    *expr,
		Metrics: *metricsPath,
		Font:    *fontPath,
		Size:    layout.ParseLength(*size),
		Width:   layout.ParseLength(*width),
		Format:  strings.ToLower(*format),
		Out:     *output,
		Debug:   *debug,
		Margin:  *margin,
		Verbose: *verbose,
	}
	if cfg.Verbose {
		layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	out, err := run(cfg)
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成 %s：%s\n", strings.ToUpper(cfg.Format), out)
}

// run 串联度量、构造、排版与渲染，返回实际写入的输出路径。
func run(cfg config) (string, error) {
	table, err := loadTable(cfg.Metrics)
	if err != nil {
		return "", err
	}
	var provider layout.MetricsProvider = table
	fontBlobs := map[string][]byte{}
	if cfg.Font != "" {
		data, err := os.ReadFile(cfg.Font)
		if err != nil {
			return "", fmt.Errorf("读取字体 %s 失败: %w", cfg.Font, err)
		}
		sfnt, err := metrics.NewSFNT(map[layout.FontID][]byte{layout.FontID(fonts.MainFamily): data})
		if err != nil {
			return "", err
		}
		provider = sfnt
		fontBlobs[fonts.MainFamily] = data
	}

	fontSize := cfg.Size.ToPT()
	if fontSize < 0 {
		return "", fmt.Errorf("字号不能为负数: %g", fontSize)
	}
	engine, err := layout.New(layout.Options{
		Metrics:  metrics.Cached(provider),
		FontSize: fontSize,
	})
	if err != nil {
		return "", err
	}

	expr, err := demo.New(engine, table).Build(cfg.Expr)
	if err != nil {
		return "", err
	}
	result, err := engine.Render(expr, cfg.Width.ToEm(engine.FontSize()))
	if err != nil {
		return "", fmt.Errorf("排版失败: %w", err)
	}

	if cfg.Debug != "" {
		if err := writeDebug(result, cfg.Debug); err != nil {
			return "", err
		}
	}

	r, err := newRenderer(cfg.Format, cfg.Margin, fontBlobs)
	if err != nil {
		return "", err
	}
	data, err := r.Render(result)
	if err != nil {
		return "", fmt.Errorf("渲染 %s 失败: %w", cfg.Format, err)
	}

	outputPath := binding.Interpolate(cfg.Out, map[string]any{"expr": cfg.Expr, "format": cfg.Format})
	if names := binding.Unresolved(outputPath); len(names) > 0 {
		return "", fmt.Errorf("输出路径包含未知占位符: %v", names)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("写入输出文件失败: %w", err)
	}
	return outputPath, nil
}

func loadTable(path string) (*metrics.Table, error) {
	if path == "" {
		return metrics.LoadDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开度量表 %s: %w", path, err)
	}
	return metrics.LoadTable(path, bytes.NewReader(data))
}

// jsonRenderer 把调试 JSON 当作一种输出格式。
type jsonRenderer struct{}

func (jsonRenderer) Render(result *layout.Result) ([]byte, error) {
	return layout.MarshalDebugJSON(result)
}

func newRenderer(format string, margin float64, fontBlobs map[string][]byte) (renderer.Renderer, error) {
	switch format {
	case "pdf":
		res := map[string]canvasrenderer.Resource{}
		for name, data := range fontBlobs {
			res[name] = canvasrenderer.Resource{Bytes: data}
		}
		return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Margin: margin, Fonts: res}), nil
	case "svg":
		return svgrenderer.NewRenderer(svgrenderer.Options{Margin: margin}), nil
	case "html":
		return markup.NewRenderer(markup.Options{Document: true}), nil
	case "png":
		return raster.NewRenderer(raster.Options{Scale: 2, Margin: margin, Fonts: fontBlobs}), nil
	case "json":
		return jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
