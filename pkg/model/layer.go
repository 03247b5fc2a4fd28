package model

// Layer is the architectural category a node belongs to. Layers drive both
// the renderer's subgraph grouping and the layout engine's defaults.
type Layer string

// The fixed layer taxonomy. Main-flow layers appear first in rendered
// output, cross-cutting layers after.
const (
	LayerConnectivity  Layer = "Connectivity"
	LayerNetworking    Layer = "Networking"
	LayerCompute       Layer = "Compute"
	LayerData          Layer = "Data"
	LayerIdentity      Layer = "Identity"
	LayerSecurity      Layer = "Security"
	LayerManagement    Layer = "Management"
	LayerObservability Layer = "Observability"
)

// DefaultLayer is assigned by the sanitizer when a node declares no layer.
const DefaultLayer = LayerCompute

// MainFlowLayers is the fixed emission order for main-flow subgraphs.
var MainFlowLayers = []Layer{
	LayerConnectivity,
	LayerNetworking,
	LayerCompute,
	LayerData,
	LayerObservability,
}

// CrossCuttingLayers is the fixed emission order for cross-cutting subgraphs.
var CrossCuttingLayers = []Layer{
	LayerIdentity,
	LayerSecurity,
	LayerManagement,
}

// knownLayers indexes the taxonomy for validation lookups.
var knownLayers = map[Layer]bool{
	LayerConnectivity:  true,
	LayerNetworking:    true,
	LayerCompute:       true,
	LayerData:          true,
	LayerIdentity:      true,
	LayerSecurity:      true,
	LayerManagement:    true,
	LayerObservability: true,
}

// Known reports whether l is part of the fixed taxonomy.
func (l Layer) Known() bool { return knownLayers[l] }

// ParseLayer maps a raw string to a Layer, falling back to DefaultLayer
// for empty or unrecognized input. The second return reports whether the
// input was recognized.
func ParseLayer(s string) (Layer, bool) {
	l := Layer(s)
	if knownLayers[l] {
		return l, true
	}
	return DefaultLayer, false
}

// EntityType is the coarse grouping tag used only by the layout engine to
// order siblings inside a subscription container.
type EntityType string

// Entity types in fixed stacking priority order (vnet stacks first).
const (
	EntityVNet    EntityType = "vnet"
	EntityService EntityType = "service"
	EntityTier    EntityType = "tier"
	EntityPaaS    EntityType = "paas"
)

// EntityOrder is the fixed stacking priority for container layout.
var EntityOrder = []EntityType{EntityVNet, EntityService, EntityTier, EntityPaaS}

// StackRank returns the position of e in EntityOrder, or len(EntityOrder)
// for unrecognized values so they stack after the known categories.
func (e EntityType) StackRank() int {
	for i, known := range EntityOrder {
		if e == known {
			return i
		}
	}
	return len(EntityOrder)
}
