// Package icons maps node types to visual categories, colors, symbols and
// asset paths. The tables are static; resolution is a pure lookup with an
// explicit fallback for unrecognized types, never a stringly-typed
// fallthrough.
package icons

import "strings"

// Category is the coarse visual family a node type belongs to.
type Category string

// Visual categories.
const (
	CategoryNetwork       Category = "network"
	CategoryCompute       Category = "compute"
	CategoryData          Category = "data"
	CategoryWeb           Category = "web"
	CategoryIdentity      Category = "identity"
	CategorySecurity      Category = "security"
	CategoryManagement    Category = "management"
	CategoryObservability Category = "observability"
	CategoryIntegration   Category = "integration"
)

// Style is the resolved visual identity for a node type.
type Style struct {
	Category     Category // visual family, used for cluster fills
	DefaultColor string   // hex fill color
	AssetPath    string   // SVG asset path served by the icon API
	Symbol       string   // inline symbol prefix for flowchart labels
	Class        string   // style-class name for flowchart class assignment
}

// GroupedClass is the reserved style class for collapsed/grouped nodes.
const GroupedClass = "grouped"

// fallback is the resolution for unrecognized types.
var fallback = Style{
	Category:     CategoryCompute,
	DefaultColor: "#7fba00",
	AssetPath:    "icons/generic.svg",
	Symbol:       "fa:fa-cube",
	Class:        "generic",
}

// styles is the total mapping from lowercased node type to visual style.
var styles = map[string]Style{
	"vnet":             {CategoryNetwork, "#0078d4", "icons/vnet.svg", "fa:fa-network-wired", "vnet"},
	"subnet":           {CategoryNetwork, "#0078d4", "icons/subnet.svg", "fa:fa-diagram-project", "subnet"},
	"firewall":         {CategorySecurity, "#d13438", "icons/firewall.svg", "fa:fa-shield-halved", "firewall"},
	"app-gateway":      {CategoryNetwork, "#0078d4", "icons/app-gateway.svg", "fa:fa-door-open", "appgateway"},
	"front-door":       {CategoryNetwork, "#0078d4", "icons/front-door.svg", "fa:fa-globe", "frontdoor"},
	"load-balancer":    {CategoryNetwork, "#0078d4", "icons/load-balancer.svg", "fa:fa-scale-balanced", "loadbalancer"},
	"bastion":          {CategorySecurity, "#d13438", "icons/bastion.svg", "fa:fa-tower-observation", "bastion"},
	"vpn-gateway":      {CategoryNetwork, "#0078d4", "icons/vpn-gateway.svg", "fa:fa-lock", "vpngateway"},
	"expressroute":     {CategoryNetwork, "#0078d4", "icons/expressroute.svg", "fa:fa-bolt", "expressroute"},
	"dns":              {CategoryNetwork, "#0078d4", "icons/dns.svg", "fa:fa-signs-post", "dns"},
	"vm":               {CategoryCompute, "#7fba00", "icons/vm.svg", "fa:fa-server", "vm"},
	"vmss":             {CategoryCompute, "#7fba00", "icons/vmss.svg", "fa:fa-layer-group", "vmss"},
	"aks":              {CategoryCompute, "#7fba00", "icons/aks.svg", "fa:fa-dharmachakra", "aks"},
	"app-service":      {CategoryWeb, "#68217a", "icons/app-service.svg", "fa:fa-window-maximize", "appservice"},
	"function-app":     {CategoryCompute, "#7fba00", "icons/function-app.svg", "fa:fa-bolt-lightning", "functionapp"},
	"container-app":    {CategoryCompute, "#7fba00", "icons/container-app.svg", "fa:fa-box", "containerapp"},
	"sql":              {CategoryData, "#e8a33d", "icons/sql.svg", "fa:fa-database", "sql"},
	"cosmos":           {CategoryData, "#e8a33d", "icons/cosmos.svg", "fa:fa-circle-nodes", "cosmos"},
	"storage":          {CategoryData, "#e8a33d", "icons/storage.svg", "fa:fa-hard-drive", "storage"},
	"redis":            {CategoryData, "#e8a33d", "icons/redis.svg", "fa:fa-memory", "redis"},
	"service-bus":      {CategoryIntegration, "#68217a", "icons/service-bus.svg", "fa:fa-right-left", "servicebus"},
	"event-hub":        {CategoryIntegration, "#68217a", "icons/event-hub.svg", "fa:fa-tower-broadcast", "eventhub"},
	"api-management":   {CategoryIntegration, "#68217a", "icons/api-management.svg", "fa:fa-plug", "apimanagement"},
	"key-vault":        {CategorySecurity, "#d13438", "icons/key-vault.svg", "fa:fa-key", "keyvault"},
	"entra-id":         {CategoryIdentity, "#00bcf2", "icons/entra-id.svg", "fa:fa-id-badge", "entraid"},
	"managed-identity": {CategoryIdentity, "#00bcf2", "icons/managed-identity.svg", "fa:fa-user-shield", "managedidentity"},
	"defender":         {CategorySecurity, "#d13438", "icons/defender.svg", "fa:fa-user-secret", "defender"},
	"sentinel":         {CategorySecurity, "#d13438", "icons/sentinel.svg", "fa:fa-binoculars", "sentinel"},
	"policy":           {CategoryManagement, "#5c2d91", "icons/policy.svg", "fa:fa-scroll", "policy"},
	"monitor":          {CategoryObservability, "#00b294", "icons/monitor.svg", "fa:fa-chart-line", "monitor"},
	"log-analytics":    {CategoryObservability, "#00b294", "icons/log-analytics.svg", "fa:fa-magnifying-glass-chart", "loganalytics"},
	"app-insights":     {CategoryObservability, "#00b294", "icons/app-insights.svg", "fa:fa-gauge-high", "appinsights"},
}

// Resolve returns the visual style for a node type. Matching is
// case-insensitive; unknown types resolve to the compute/green fallback.
func Resolve(nodeType string) Style {
	if s, ok := styles[strings.ToLower(nodeType)]; ok {
		return s
	}
	return fallback
}

// Known reports whether the type has an explicit table entry.
func Known(nodeType string) bool {
	_, ok := styles[strings.ToLower(nodeType)]
	return ok
}

// Types returns all explicitly mapped type keys. The order is not
// guaranteed; callers needing determinism must sort.
func Types() []string {
	out := make([]string, 0, len(styles))
	for k := range styles {
		out = append(out, k)
	}
	return out
}

// CategoryColor returns the fill color associated with a category,
// falling back to the generic compute green.
func CategoryColor(c Category) string {
	for _, s := range styles {
		if s.Category == c {
			return s.DefaultColor
		}
	}
	return fallback.DefaultColor
}
