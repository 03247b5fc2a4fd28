// Package layout deterministically assigns 2-D bounds to management
// groups, subscriptions and their member nodes.
//
// The engine is purely positional: it never adds or removes nodes or
// edges, only writes bounds onto a copy of the model. Containers occupy
// four fixed horizontal bands (management groups, platform subscriptions,
// landing-zone subscriptions, shared PaaS), and member nodes stack in a
// single column inside their owning subscription, ordered by entity type.
//
// Subscription containers have a fixed 200x300 box regardless of content;
// oversized content overflows the drawn box rather than resizing it. This
// is a known limitation of the coordinate scheme, not a defect.
package layout

import (
	"sort"

	"github.com/cloudplot/cloudplot/pkg/model"
)

// Default option values, applied for any omitted field.
const (
	DefaultNodeWidth        = 120.0
	DefaultNodeHeight       = 70.0
	DefaultColumnSpacing    = 180.0
	DefaultRowSpacing       = 90.0
	DefaultContainerPadding = 20.0
)

// Fixed geometry of the coordinate scheme.
const (
	leftMargin = 50.0  // x of the management-group column
	topMargin  = 100.0 // y of the first container row

	subscriptionWidth  = 200.0
	subscriptionHeight = 300.0

	groupWidth  = 150.0
	groupHeight = 60.0
	groupPitch  = 80.0 // vertical distance between management group tops

	titleBand    = 50.0 // reserved space below a container's top edge
	nodeGap      = 10.0 // vertical gap between stacked nodes
	categoryGap  = 20.0 // extra gap between entity-type categories
	partitionGap = 60.0 // gap between the platform and landing-zone bands
)

// Options configures the layout engine. Zero fields fall back to the
// package defaults; configuration is an explicit parameter, never engine
// state.
type Options struct {
	NodeWidth        float64 `json:"nodeWidth,omitempty"`
	NodeHeight       float64 `json:"nodeHeight,omitempty"`
	ColumnSpacing    float64 `json:"columnSpacing,omitempty"`
	RowSpacing       float64 `json:"rowSpacing,omitempty"`
	ContainerPadding float64 `json:"containerPadding,omitempty"`
}

// WithDefaults returns a copy of o with omitted fields defaulted.
func (o Options) WithDefaults() Options {
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.ColumnSpacing == 0 {
		o.ColumnSpacing = DefaultColumnSpacing
	}
	if o.RowSpacing == 0 {
		o.RowSpacing = DefaultRowSpacing
	}
	if o.ContainerPadding == 0 {
		o.ContainerPadding = DefaultContainerPadding
	}
	return o
}

// Column band indices, left to right.
const (
	colManagementGroups = iota
	colPlatform
	colLandingZone
	colSharedPaaS
)

// columnX returns the x anchor of a column band.
func columnX(col int, spacing float64) float64 {
	return leftMargin + float64(col)*spacing
}

// Compute assigns bounds to management groups, subscriptions and nodes,
// returning a positioned copy of m. The input is never mutated.
//
// If the model has neither management groups nor subscriptions there is
// nothing to anchor and the model is returned unchanged. Nodes whose
// SubscriptionID matches no subscription keep a nil Bounds: absent bounds
// mean "position not yet determined", never the origin.
func Compute(m model.ArchitectureModel, opts Options) model.ArchitectureModel {
	if len(m.ManagementGroups) == 0 && len(m.Subscriptions) == 0 {
		return m
	}
	opts = opts.WithDefaults()
	out := m.Clone()

	placeManagementGroups(&out)
	placeSubscriptions(&out, opts)
	for i := range out.Subscriptions {
		placeMembers(&out, &out.Subscriptions[i], opts)
	}
	for i := range out.Edges {
		out.Edges[i].Routing = &model.RoutingInfo{Routed: true}
	}
	return out
}

// placeManagementGroups stacks fixed-size group boxes vertically at the
// left margin column, in declaration order.
func placeManagementGroups(m *model.ArchitectureModel) {
	for i := range m.ManagementGroups {
		m.ManagementGroups[i].Bounds = &model.Bounds{
			X:      leftMargin,
			Y:      topMargin + float64(i)*groupPitch,
			Width:  groupWidth,
			Height: groupHeight,
		}
	}
}

// placeSubscriptions partitions subscriptions into platform,
// landing-zone and shared-PaaS bands by type prefix and stacks each band
// vertically in declaration order. Adjacent columns sit closer together
// than a container is wide, so each band starts below the previous
// band's total height plus a fixed gap; vertical partitioning is what
// keeps the boxes disjoint.
func placeSubscriptions(m *model.ArchitectureModel, opts Options) {
	rowPitch := subscriptionHeight + opts.RowSpacing

	var platformCount, landingCount int
	for i := range m.Subscriptions {
		switch {
		case m.Subscriptions[i].IsPlatform():
			platformCount++
		case m.Subscriptions[i].IsLandingZone():
			landingCount++
		}
	}
	landingStart := topMargin + float64(platformCount)*rowPitch + partitionGap
	sharedStart := landingStart + float64(landingCount)*rowPitch + partitionGap

	var platformRows, landingRows, sharedRows int
	for i := range m.Subscriptions {
		sub := &m.Subscriptions[i]
		var x, y float64
		switch {
		case sub.IsPlatform():
			x = columnX(colPlatform, opts.ColumnSpacing)
			y = topMargin + float64(platformRows)*rowPitch
			platformRows++
		case sub.IsLandingZone():
			x = columnX(colLandingZone, opts.ColumnSpacing)
			y = landingStart + float64(landingRows)*rowPitch
			landingRows++
		default:
			// Subscriptions matching neither prefix land in the shared
			// PaaS band.
			x = columnX(colSharedPaaS, opts.ColumnSpacing)
			y = sharedStart + float64(sharedRows)*rowPitch
			sharedRows++
		}
		sub.Bounds = &model.Bounds{X: x, Y: y, Width: subscriptionWidth, Height: subscriptionHeight}
	}
}

// placeMembers stacks the subscription's member nodes in a single column
// below the title band, grouped by entity type in fixed priority order
// (vnet, service, tier, paas). Within a category, declaration order is
// preserved; the sort is stable.
func placeMembers(m *model.ArchitectureModel, sub *model.Subscription, opts Options) {
	var members []int
	for i := range m.Nodes {
		if m.Nodes[i].SubscriptionID == sub.ID {
			members = append(members, i)
		}
	}
	if len(members) == 0 {
		return // empty container, not an error
	}

	sort.SliceStable(members, func(a, b int) bool {
		return m.Nodes[members[a]].EntityType.StackRank() < m.Nodes[members[b]].EntityType.StackRank()
	})

	x := sub.Bounds.X + opts.ContainerPadding
	cursor := sub.Bounds.Y + titleBand
	prevRank := -1
	for _, idx := range members {
		n := &m.Nodes[idx]
		rank := n.EntityType.StackRank()
		if prevRank >= 0 && rank != prevRank {
			cursor += categoryGap
		}
		n.Bounds = &model.Bounds{X: x, Y: cursor, Width: opts.NodeWidth, Height: opts.NodeHeight}
		cursor += opts.NodeHeight + nodeGap
		prevRank = rank
	}
}
