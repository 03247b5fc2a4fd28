// Package dot serializes an architecture model to Graphviz DOT with one
// cluster per layer, and can rasterize the result to SVG.
//
// DOT is the third output language next to the flowchart and sprite
// renderers; rasterization is a boundary convenience for callers that
// want pixels, the core contract is the text.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/cloudplot/cloudplot/pkg/icons"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// Options configures DOT rendering.
type Options struct {
	// RankDir is the Graphviz rank direction (TB, LR, ...). Empty means TB.
	RankDir string

	// Logger receives sanitization warnings. Nil discards them.
	Logger *log.Logger
}

func (o Options) rankDir() string {
	if o.RankDir == "" {
		return "TB"
	}
	return o.RankDir
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// ToDOT converts a model to Graphviz DOT. The model is sanitized first;
// warnings are logged, never fatal. Each populated layer becomes a
// cluster, nodes are filled with their icon category color, and grouped
// nodes get a dashed outline.
func ToDOT(m model.ArchitectureModel, opts Options) string {
	res := validate.Sanitize(m)
	logger := opts.logger()
	for _, w := range res.Warnings {
		logger.Warn("sanitized model before rendering", "kind", w.Kind, "detail", w.Message)
	}
	sanitized := res.Model

	var buf bytes.Buffer
	buf.WriteString("digraph architecture {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.rankDir())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	groups, _ := sanitized.NodesByLayer()
	for _, layer := range append(slices.Clone(model.MainFlowLayers), model.CrossCuttingLayers...) {
		nodes := groups[layer]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%s {\n", strings.ToLower(string(layer)))
		fmt.Fprintf(&buf, "    label=%q;\n", string(layer))
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range sanitized.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n model.Node) []string {
	label := n.DisplayLabel()
	if n.IsGrouped() && n.Grouping.NodeCount > 1 {
		label = fmt.Sprintf("%s (x%d)", label, n.Grouping.NodeCount)
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", icons.Resolve(n.Type).DefaultColor),
	}
	if n.IsGrouped() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox origin is
// zero and explicit pixel dimensions are present, which the canvas
// front-end depends on.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
