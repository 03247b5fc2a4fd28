// Package model defines the in-memory architecture model: nodes, edges,
// subscriptions and management groups, plus their serialization format.
//
// The model is pure data. It is constructed once per diagram-generation
// request, passed by value through the pipeline stages (each stage returns
// a new or updated copy), and discarded after rendering. The invariants the
// pipeline guarantees on its output (unique node ids, resolvable edge
// endpoints, no self-edges, no duplicate edges, non-empty layers) are
// established by the validate package, not enforced here.
//
// The JSON format is the wire contract with upstream generators and the
// canvas UI; bson tags exist for the diagram document store.
package model

// =============================================================================
// Bounds - Layout-Assigned Geometry
// =============================================================================

// Bounds is a rectangle assigned by the layout engine. It is absent (nil)
// until layout runs; callers must treat a nil Bounds as "position not yet
// determined", never as the origin.
type Bounds struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Overlaps reports whether two rectangles intersect with positive area.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// =============================================================================
// Node
// =============================================================================

// GroupingInfo marks a node that represents a collapsed cluster of multiple
// underlying resources. NodeCount is the number of collapsed resources and
// is shown in parenthetical form when greater than one.
type GroupingInfo struct {
	IsGrouped bool `json:"isGrouped" bson:"isGrouped"`
	NodeCount int  `json:"nodeCount,omitempty" bson:"nodeCount,omitempty"`
}

// Node is a typed vertex in the architecture model.
type Node struct {
	ID             string        `json:"id" bson:"id"`
	Label          string        `json:"label,omitempty" bson:"label,omitempty"`
	Type           string        `json:"type,omitempty" bson:"type,omitempty"`
	Layer          Layer         `json:"layer,omitempty" bson:"layer,omitempty"`
	SubscriptionID string        `json:"subscriptionId,omitempty" bson:"subscriptionId,omitempty"`
	EntityType     EntityType    `json:"entityType,omitempty" bson:"entityType,omitempty"`
	Grouping       *GroupingInfo `json:"meta,omitempty" bson:"meta,omitempty"`
	Bounds         *Bounds       `json:"bounds,omitempty" bson:"bounds,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsGrouped reports whether the node is a collapsed cluster.
func (n *Node) IsGrouped() bool {
	return n.Grouping != nil && n.Grouping.IsGrouped
}

// =============================================================================
// Edge
// =============================================================================

// RoutingInfo is stamped onto edges by the layout engine. Routed marks the
// edge as handed off for routing; positions themselves are left to the
// renderer or canvas.
type RoutingInfo struct {
	Routed bool `json:"routed" bson:"routed"`
}

// Edge is a directed connection between two nodes. An edge has no identity
// beyond its (From, To, Label) triple.
type Edge struct {
	From    string       `json:"from" bson:"from"`
	To      string       `json:"to" bson:"to"`
	Label   string       `json:"label,omitempty" bson:"label,omitempty"`
	Routing *RoutingInfo `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Key returns the identity triple used for duplicate detection.
func (e Edge) Key() [3]string { return [3]string{e.From, e.To, e.Label} }

// =============================================================================
// Containers
// =============================================================================

// Subscription type prefixes. Subscriptions are partitioned into column
// bands by prefix match on Type.
const (
	SubscriptionPlatformPrefix    = "platform-"
	SubscriptionLandingZonePrefix = "landingzone-"
)

// Subscription is a rectangular container owning (by reference, not
// exclusive containment) the nodes whose SubscriptionID matches its ID.
type Subscription struct {
	ID     string  `json:"id" bson:"id"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	Bounds *Bounds `json:"bounds,omitempty" bson:"bounds,omitempty"`
}

// IsPlatform reports whether the subscription belongs to the platform band.
func (s *Subscription) IsPlatform() bool {
	return hasPrefix(s.Type, SubscriptionPlatformPrefix)
}

// IsLandingZone reports whether the subscription belongs to the
// landing-zone band.
func (s *Subscription) IsLandingZone() bool {
	return hasPrefix(s.Type, SubscriptionLandingZonePrefix)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// ManagementGroup is a fixed-size container stacked vertically in
// declaration order, independent of subscriptions.
type ManagementGroup struct {
	ID     string  `json:"id" bson:"id"`
	Bounds *Bounds `json:"bounds,omitempty" bson:"bounds,omitempty"`
}

// =============================================================================
// ArchitectureModel - Aggregate Root
// =============================================================================

// ArchitectureModel is the aggregate root passed through the pipeline.
// Sequences are ordered; declaration order is significant for layout and
// rendering determinism.
type ArchitectureModel struct {
	Nodes            []Node            `json:"nodes" bson:"nodes"`
	Edges            []Edge            `json:"edges" bson:"edges"`
	Subscriptions    []Subscription    `json:"subscriptions,omitempty" bson:"subscriptions,omitempty"`
	ManagementGroups []ManagementGroup `json:"managementGroups,omitempty" bson:"managementGroups,omitempty"`
}

// NodeByID returns the node with the given id and true, or nil and false.
func (m *ArchitectureModel) NodeByID(id string) (*Node, bool) {
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return &m.Nodes[i], true
		}
	}
	return nil, false
}

// NodesBySubscription returns the nodes owned by the given subscription,
// preserving declaration order.
func (m *ArchitectureModel) NodesBySubscription(subID string) []Node {
	var out []Node
	for _, n := range m.Nodes {
		if n.SubscriptionID == subID {
			out = append(out, n)
		}
	}
	return out
}

// NodesByLayer groups nodes by layer, preserving first-seen order within
// each layer. The returned order slice lists layers in first-seen order.
func (m *ArchitectureModel) NodesByLayer() (map[Layer][]Node, []Layer) {
	groups := make(map[Layer][]Node)
	var order []Layer
	for _, n := range m.Nodes {
		if _, seen := groups[n.Layer]; !seen {
			order = append(order, n.Layer)
		}
		groups[n.Layer] = append(groups[n.Layer], n)
	}
	return groups, order
}

// Clone returns a deep copy of the model. Pipeline stages clone before
// writing so callers never observe partial mutation.
func (m *ArchitectureModel) Clone() ArchitectureModel {
	out := ArchitectureModel{
		Nodes:            make([]Node, len(m.Nodes)),
		Edges:            make([]Edge, len(m.Edges)),
		Subscriptions:    make([]Subscription, len(m.Subscriptions)),
		ManagementGroups: make([]ManagementGroup, len(m.ManagementGroups)),
	}
	for i, n := range m.Nodes {
		if n.Grouping != nil {
			g := *n.Grouping
			n.Grouping = &g
		}
		if n.Bounds != nil {
			b := *n.Bounds
			n.Bounds = &b
		}
		out.Nodes[i] = n
	}
	for i, e := range m.Edges {
		if e.Routing != nil {
			r := *e.Routing
			e.Routing = &r
		}
		out.Edges[i] = e
	}
	for i, s := range m.Subscriptions {
		if s.Bounds != nil {
			b := *s.Bounds
			s.Bounds = &b
		}
		out.Subscriptions[i] = s
	}
	for i, g := range m.ManagementGroups {
		if g.Bounds != nil {
			b := *g.Bounds
			g.Bounds = &b
		}
		out.ManagementGroups[i] = g
	}
	return out
}
