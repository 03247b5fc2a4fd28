// Package mermaid serializes an architecture model into Mermaid flowchart
// text.
//
// The renderer trusts nothing: it re-runs the sanitizer on every call and
// logs (never throws on) the resulting warnings, so it produces
// syntactically valid output even when handed a model that skipped prior
// sanitization. For a sanitized model the output is deterministic and
// byte-identical across invocations.
package mermaid

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cloudplot/cloudplot/pkg/icons"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// DefaultDirection is used when Options.Direction is empty.
const DefaultDirection = "TB"

// Options configures flowchart rendering.
type Options struct {
	// Direction is the flow direction hint emitted verbatim in the header
	// (conventionally TB, BT, LR or RL).
	Direction string

	// Styled selects the alternate rendering mode: nodes are reordered by
	// per-layer priority and edges are partitioned into connectivity, data
	// and security buckets with distinct arrow styles.
	Styled bool

	// Logger receives sanitization warnings. Nil discards them.
	Logger *log.Logger
}

func (o Options) direction() string {
	if o.Direction == "" {
		return DefaultDirection
	}
	return o.Direction
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Render serializes the model to Mermaid flowchart text. Malformed input
// degrades with warnings and omitted elements; the result is valid Mermaid
// for any well-typed model, possibly empty of nodes.
func Render(m model.ArchitectureModel, opts Options) string {
	res := validate.Sanitize(m)
	logger := opts.logger()
	for _, w := range res.Warnings {
		logger.Warn("sanitized model before rendering", "kind", w.Kind, "detail", w.Message)
	}
	sanitized := res.Model

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "flowchart %s\n", opts.direction())
	writeClassDefs(&buf)

	groups, _ := sanitized.NodesByLayer()
	for _, layer := range model.MainFlowLayers {
		writeSubgraph(&buf, layer, groups[layer], opts)
	}
	for _, layer := range model.CrossCuttingLayers {
		writeSubgraph(&buf, layer, groups[layer], opts)
	}

	writeEdges(&buf, sanitized.Edges, sanitized, opts)
	writeClassAssignments(&buf, sanitized.Nodes)
	return buf.String()
}

// writeClassDefs emits the static style-class table: one class per layer,
// one per recognized type, and the reserved grouped class. The table is
// independent of the input graph.
func writeClassDefs(buf *bytes.Buffer) {
	for _, layer := range append(slices.Clone(model.MainFlowLayers), model.CrossCuttingLayers...) {
		fmt.Fprintf(buf, "  classDef %s fill:%s,stroke:#333,stroke-width:1px\n",
			layerClass(layer), layerFill(layer))
	}
	for _, t := range slices.Sorted(slices.Values(icons.Types())) {
		s := icons.Resolve(t)
		fmt.Fprintf(buf, "  classDef %s fill:%s,stroke:#333,stroke-width:1px\n", s.Class, s.DefaultColor)
	}
	fmt.Fprintf(buf, "  classDef %s fill:#f5f5f5,stroke:#333,stroke-width:2px,stroke-dasharray: 5 5\n",
		icons.GroupedClass)
}

// writeSubgraph emits one layer block. Layers absent from the graph are
// skipped entirely rather than emitted empty.
func writeSubgraph(buf *bytes.Buffer, layer model.Layer, nodes []model.Node, opts Options) {
	if len(nodes) == 0 {
		return
	}
	if opts.Styled {
		nodes = reorderByPriority(layer, nodes)
	}
	fmt.Fprintf(buf, "  subgraph %s[\"%s\"]\n", subgraphID(layer), layer)
	for _, n := range nodes {
		fmt.Fprintf(buf, "    %s[\"%s %s\"]\n", SanitizeID(n.ID), icons.Resolve(n.Type).Symbol, nodeLabel(n))
	}
	buf.WriteString("  end\n")
}

// nodeLabel escapes the display label and appends the collapsed-resource
// count for grouped nodes.
func nodeLabel(n model.Node) string {
	label := EscapeLabel(n.DisplayLabel())
	if n.IsGrouped() && n.Grouping.NodeCount > 1 {
		label = fmt.Sprintf("%s (x%d)", label, n.Grouping.NodeCount)
	}
	return label
}

// writeEdges emits all edges after the subgraphs. In styled mode edges are
// partitioned into connectivity, data and security buckets and emitted per
// bucket with dotted arrows for connectivity and security, solid for data.
func writeEdges(buf *bytes.Buffer, edges []model.Edge, m model.ArchitectureModel, opts Options) {
	if !opts.Styled {
		for _, e := range edges {
			writeEdge(buf, e, "-->")
		}
		return
	}

	var connectivity, data, security []model.Edge
	for _, e := range edges {
		switch classifyEdge(e, m) {
		case bucketConnectivity:
			connectivity = append(connectivity, e)
		case bucketSecurity:
			security = append(security, e)
		default:
			data = append(data, e)
		}
	}
	for _, e := range connectivity {
		writeEdge(buf, e, "-.->")
	}
	for _, e := range data {
		writeEdge(buf, e, "-->")
	}
	for _, e := range security {
		writeEdge(buf, e, "-.->")
	}
}

func writeEdge(buf *bytes.Buffer, e model.Edge, arrow string) {
	if e.Label != "" {
		fmt.Fprintf(buf, "  %s %s|%s| %s\n", SanitizeID(e.From), arrow, EscapeLabel(e.Label), SanitizeID(e.To))
		return
	}
	fmt.Fprintf(buf, "  %s %s %s\n", SanitizeID(e.From), arrow, SanitizeID(e.To))
}

// writeClassAssignments emits the trailing style-application pass: grouped
// nodes get the reserved class, everything else an icon-derived class
// keyed by its lowercased type.
func writeClassAssignments(buf *bytes.Buffer, nodes []model.Node) {
	for _, n := range nodes {
		class := icons.Resolve(n.Type).Class
		if n.IsGrouped() {
			class = icons.GroupedClass
		}
		fmt.Fprintf(buf, "  class %s %s\n", SanitizeID(n.ID), class)
	}
}

// =============================================================================
// Edge Buckets (styled mode)
// =============================================================================

type bucket int

const (
	bucketData bucket = iota
	bucketConnectivity
	bucketSecurity
)

// classifyEdge assigns an edge to a bucket by its endpoints' layers.
// Connectivity wins over security when both match.
func classifyEdge(e model.Edge, m model.ArchitectureModel) bucket {
	from, okF := m.NodeByID(e.From)
	to, okT := m.NodeByID(e.To)
	if !okF || !okT {
		return bucketData
	}
	for _, n := range []*model.Node{from, to} {
		if n.Layer == model.LayerConnectivity || n.Layer == model.LayerNetworking {
			return bucketConnectivity
		}
	}
	for _, n := range []*model.Node{from, to} {
		if n.Layer == model.LayerSecurity || n.Layer == model.LayerIdentity {
			return bucketSecurity
		}
	}
	return bucketData
}

// =============================================================================
// Layer Priority (styled mode)
// =============================================================================

// layerPriority orders node types within a layer for the styled variant.
// Types not listed keep their relative order after the listed ones.
var layerPriority = map[model.Layer][]string{
	model.LayerConnectivity:  {"front-door", "app-gateway", "firewall", "bastion", "vpn-gateway", "expressroute"},
	model.LayerNetworking:    {"vnet", "subnet", "load-balancer", "dns"},
	model.LayerCompute:       {"aks", "vmss", "vm", "app-service", "function-app", "container-app"},
	model.LayerData:          {"sql", "cosmos", "storage", "redis"},
	model.LayerIdentity:      {"entra-id", "managed-identity"},
	model.LayerSecurity:      {"key-vault", "defender", "sentinel"},
	model.LayerManagement:    {"policy"},
	model.LayerObservability: {"monitor", "log-analytics", "app-insights"},
}

func reorderByPriority(layer model.Layer, nodes []model.Node) []model.Node {
	priority := layerPriority[layer]
	rank := func(n model.Node) int {
		for i, t := range priority {
			if strings.EqualFold(n.Type, t) {
				return i
			}
		}
		return len(priority)
	}
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b model.Node) int { return rank(a) - rank(b) })
	return out
}

// =============================================================================
// Identifier and Label Rules
// =============================================================================

var idSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeID replaces every non-alphanumeric character with an underscore.
// Collisions introduced by this transform are accepted as-is; they are not
// re-disambiguated.
func SanitizeID(id string) string {
	return idSanitizeRe.ReplaceAllString(id, "_")
}

// EscapeLabel replaces quote characters and newlines with safe
// equivalents for flowchart label syntax.
func EscapeLabel(label string) string {
	r := strings.NewReplacer(
		`"`, "#quot;",
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
	return r.Replace(label)
}

// subgraphID derives a deterministic group id from the layer name.
func subgraphID(layer model.Layer) string {
	return strings.ToLower(string(layer)) + "_layer"
}

func layerClass(layer model.Layer) string {
	return strings.ToLower(string(layer))
}

// layerFill is the static fill color per layer class.
func layerFill(layer model.Layer) string {
	switch layer {
	case model.LayerConnectivity:
		return "#e1f0ff"
	case model.LayerNetworking:
		return "#d6e8ff"
	case model.LayerCompute:
		return "#e8f5d6"
	case model.LayerData:
		return "#fff3d6"
	case model.LayerIdentity:
		return "#d6f5ff"
	case model.LayerSecurity:
		return "#ffe1e1"
	case model.LayerManagement:
		return "#ece1ff"
	case model.LayerObservability:
		return "#d6fff0"
	default:
		return "#f0f0f0"
	}
}
