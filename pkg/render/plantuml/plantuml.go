// Package plantuml serializes an architecture model into PlantUML text
// with sprite-encoded icons.
//
// Like the flowchart renderer, it re-runs the sanitizer on every call and
// degrades with logged warnings instead of failing on malformed input.
package plantuml

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cloudplot/cloudplot/pkg/icons"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/render/mermaid"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// Options configures PlantUML rendering.
type Options struct {
	// Title is emitted as a diagram title when non-empty.
	Title string

	// Logger receives sanitization warnings. Nil discards them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Render serializes the model to PlantUML sprite text. Nodes are grouped
// into per-layer packages in the same fixed order as the flowchart
// renderer; identifier sanitization and label escaping rules are shared.
func Render(m model.ArchitectureModel, opts Options) string {
	res := validate.Sanitize(m)
	logger := opts.logger()
	for _, w := range res.Warnings {
		logger.Warn("sanitized model before rendering", "kind", w.Kind, "detail", w.Message)
	}
	sanitized := res.Model

	var buf bytes.Buffer
	buf.WriteString("@startuml\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "title %s\n", mermaid.EscapeLabel(opts.Title))
	}
	buf.WriteString("skinparam rectangleBorderColor #333333\n")
	buf.WriteString("skinparam shadowing false\n")
	writeSprites(&buf, sanitized.Nodes)
	buf.WriteString("\n")

	groups, _ := sanitized.NodesByLayer()
	for _, layer := range append(slices.Clone(model.MainFlowLayers), model.CrossCuttingLayers...) {
		nodes := groups[layer]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "package \"%s\" {\n", layer)
		for _, n := range nodes {
			writeNode(&buf, n)
		}
		buf.WriteString("}\n")
	}

	buf.WriteString("\n")
	for _, e := range sanitized.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "%s --> %s : %s\n",
				mermaid.SanitizeID(e.From), mermaid.SanitizeID(e.To), mermaid.EscapeLabel(e.Label))
			continue
		}
		fmt.Fprintf(&buf, "%s --> %s\n", mermaid.SanitizeID(e.From), mermaid.SanitizeID(e.To))
	}
	buf.WriteString("@enduml\n")
	return buf.String()
}

// writeSprites declares one sprite per distinct recognized type, in node
// declaration order. Unrecognized types share the generic sprite.
func writeSprites(buf *bytes.Buffer, nodes []model.Node) {
	declared := make(map[string]bool)
	for _, n := range nodes {
		name := spriteName(n.Type)
		if declared[name] {
			continue
		}
		declared[name] = true
		s := icons.Resolve(n.Type)
		fmt.Fprintf(buf, "sprite $%s %s\n", name, s.AssetPath)
	}
}

func writeNode(buf *bytes.Buffer, n model.Node) {
	label := mermaid.EscapeLabel(n.DisplayLabel())
	if n.IsGrouped() && n.Grouping.NodeCount > 1 {
		label = fmt.Sprintf("%s (x%d)", label, n.Grouping.NodeCount)
	}
	fmt.Fprintf(buf, "  rectangle \"<$%s> %s\" as %s #%s\n",
		spriteName(n.Type), label, mermaid.SanitizeID(n.ID),
		strings.TrimPrefix(icons.Resolve(n.Type).DefaultColor, "#"))
}

// spriteName derives a sprite identifier from the node type.
func spriteName(nodeType string) string {
	if !icons.Known(nodeType) {
		return "generic"
	}
	return mermaid.SanitizeID(strings.ToLower(nodeType))
}
