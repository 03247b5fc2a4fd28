package layout

import (
	"reflect"
	"testing"

	"github.com/cloudplot/cloudplot/pkg/model"
)

func TestComputePlatformSubscriptionFirstRow(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "n1", SubscriptionID: "sub1", EntityType: model.EntityVNet, Layer: model.LayerNetworking},
		},
		Subscriptions: []model.Subscription{
			{ID: "sub1", Type: "platform-identity"},
		},
	}

	out := Compute(m, Options{})

	sub := out.Subscriptions[0]
	if sub.Bounds == nil {
		t.Fatal("subscription bounds not assigned")
	}
	want := model.Bounds{X: 230, Y: 100, Width: 200, Height: 300}
	if *sub.Bounds != want {
		t.Errorf("sub1 bounds = %+v, want %+v", *sub.Bounds, want)
	}

	n := out.Nodes[0]
	if n.Bounds == nil {
		t.Fatal("node bounds not assigned")
	}
	if n.Bounds.X != sub.Bounds.X+20 {
		t.Errorf("node x = %v, want %v", n.Bounds.X, sub.Bounds.X+20)
	}
	if n.Bounds.Y != sub.Bounds.Y+50 {
		t.Errorf("node y = %v, want %v", n.Bounds.Y, sub.Bounds.Y+50)
	}
}

func TestComputeNoOpWithoutContainers(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "n1", Layer: model.LayerCompute}},
		Edges: []model.Edge{},
	}

	out := Compute(m, Options{})

	if !reflect.DeepEqual(out, m) {
		t.Error("model without containers should pass through unchanged")
	}
	if out.Nodes[0].Bounds != nil {
		t.Error("node bounds should remain absent")
	}
}

func TestComputeDeterministic(t *testing.T) {
	m := testModel()

	a := Compute(m, Options{})
	b := Compute(m, Options{})

	if !reflect.DeepEqual(a, b) {
		t.Error("repeated layout produced different output")
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	m := testModel()

	Compute(m, Options{})

	if m.Subscriptions[0].Bounds != nil {
		t.Error("input subscription was mutated")
	}
	if m.Nodes[0].Bounds != nil {
		t.Error("input node was mutated")
	}
}

func TestComputeSubscriptionsDoNotOverlap(t *testing.T) {
	tests := []struct {
		name string
		subs []model.Subscription
	}{
		{
			name: "all bands populated",
			subs: []model.Subscription{
				{ID: "p1", Type: "platform-identity"},
				{ID: "p2", Type: "platform-connectivity"},
				{ID: "lz1", Type: "landingzone-corp"},
				{ID: "lz2", Type: "landingzone-online"},
				{ID: "shared", Type: "other"},
			},
		},
		{
			// Landing zones and shared subscriptions sit in adjacent
			// columns closer together than a box is wide; without platform
			// rows pushing the bands apart they must still not collide.
			name: "no platform subscriptions",
			subs: []model.Subscription{
				{ID: "lz1", Type: "landingzone-corp"},
				{ID: "shared1", Type: "shared-paas"},
			},
		},
		{
			name: "shared only",
			subs: []model.Subscription{
				{ID: "s1", Type: "sandbox"},
				{ID: "s2", Type: "sandbox"},
			},
		},
		{
			name: "landing zones without platform or shared",
			subs: []model.Subscription{
				{ID: "lz1", Type: "landingzone-corp"},
				{ID: "lz2", Type: "landingzone-online"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Compute(model.ArchitectureModel{Subscriptions: tt.subs}, Options{})

			for i := range out.Subscriptions {
				for j := i + 1; j < len(out.Subscriptions); j++ {
					a, b := out.Subscriptions[i], out.Subscriptions[j]
					if a.Bounds.Overlaps(*b.Bounds) {
						t.Errorf("subscriptions %s and %s overlap: %+v vs %+v", a.ID, b.ID, *a.Bounds, *b.Bounds)
					}
				}
			}
		})
	}
}

func TestComputeLandingZoneBandBelowPlatform(t *testing.T) {
	m := model.ArchitectureModel{
		Subscriptions: []model.Subscription{
			{ID: "p1", Type: "platform-identity"},
			{ID: "p2", Type: "platform-management"},
			{ID: "lz1", Type: "landingzone-corp"},
		},
	}

	out := Compute(m, Options{})

	// Two platform rows at pitch 300+90, then a 60 gap.
	wantY := 100.0 + 2*(300.0+90.0) + 60.0
	lz := out.Subscriptions[2]
	if lz.Bounds.Y != wantY {
		t.Errorf("landing zone y = %v, want %v", lz.Bounds.Y, wantY)
	}
	// Landing zones sit one column right of the platform band.
	if lz.Bounds.X != out.Subscriptions[0].Bounds.X+180 {
		t.Errorf("landing zone x = %v, want platform x + 180", lz.Bounds.X)
	}
}

func TestComputeSharedColumnForOtherTypes(t *testing.T) {
	m := model.ArchitectureModel{
		Subscriptions: []model.Subscription{
			{ID: "p1", Type: "platform-identity"},
			{ID: "s1", Type: "sandbox"},
		},
	}

	out := Compute(m, Options{})

	shared := out.Subscriptions[1]
	// Shared PaaS column: leftMargin + 3 * columnSpacing.
	if shared.Bounds.X != 50.0+3*180.0 {
		t.Errorf("shared x = %v, want %v", shared.Bounds.X, 50.0+3*180.0)
	}
	// One platform row, an empty landing band, then the 60 gaps on either
	// side of it: 100 + 1*(300+90) + 60 + 0 + 60.
	if shared.Bounds.Y != 610.0 {
		t.Errorf("shared y = %v, want 610", shared.Bounds.Y)
	}
}

func TestComputeManagementGroupStack(t *testing.T) {
	m := model.ArchitectureModel{
		ManagementGroups: []model.ManagementGroup{
			{ID: "root"},
			{ID: "corp"},
			{ID: "online"},
		},
	}

	out := Compute(m, Options{})

	for i, g := range out.ManagementGroups {
		want := model.Bounds{X: 50, Y: 100 + float64(i)*80, Width: 150, Height: 60}
		if *g.Bounds != want {
			t.Errorf("group %s bounds = %+v, want %+v", g.ID, *g.Bounds, want)
		}
	}
}

func TestComputeEntityTypeStackOrder(t *testing.T) {
	// Declared out of priority order on purpose; the stack must come out
	// vnet < service < tier < paas regardless.
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "db", SubscriptionID: "sub1", EntityType: model.EntityPaaS, Layer: model.LayerData},
			{ID: "web", SubscriptionID: "sub1", EntityType: model.EntityTier, Layer: model.LayerCompute},
			{ID: "net", SubscriptionID: "sub1", EntityType: model.EntityVNet, Layer: model.LayerNetworking},
			{ID: "svc", SubscriptionID: "sub1", EntityType: model.EntityService, Layer: model.LayerCompute},
		},
		Subscriptions: []model.Subscription{
			{ID: "sub1", Type: "landingzone-corp"},
		},
	}

	out := Compute(m, Options{})

	y := func(id string) float64 {
		n, ok := out.NodeByID(id)
		if !ok || n.Bounds == nil {
			t.Fatalf("node %s unpositioned", id)
		}
		return n.Bounds.Y
	}

	if !(y("net") < y("svc") && y("svc") < y("web") && y("web") < y("db")) {
		t.Errorf("stack order wrong: vnet=%v service=%v tier=%v paas=%v",
			y("net"), y("svc"), y("web"), y("db"))
	}
}

func TestComputeCategoryGap(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a", SubscriptionID: "sub1", EntityType: model.EntityVNet},
			{ID: "b", SubscriptionID: "sub1", EntityType: model.EntityVNet},
			{ID: "c", SubscriptionID: "sub1", EntityType: model.EntityService},
		},
		Subscriptions: []model.Subscription{{ID: "sub1", Type: "platform-core"}},
	}

	out := Compute(m, Options{})

	a, _ := out.NodeByID("a")
	b, _ := out.NodeByID("b")
	c, _ := out.NodeByID("c")

	// Same category: nodeHeight + 10 apart.
	if b.Bounds.Y-a.Bounds.Y != 70+10 {
		t.Errorf("same-category pitch = %v, want 80", b.Bounds.Y-a.Bounds.Y)
	}
	// Category switch adds an extra 20.
	if c.Bounds.Y-b.Bounds.Y != 70+10+20 {
		t.Errorf("cross-category pitch = %v, want 100", c.Bounds.Y-b.Bounds.Y)
	}
}

func TestComputeUnmatchedSubscriptionLeavesNodeUnpositioned(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "orphan", SubscriptionID: "nope", Layer: model.LayerCompute},
		},
		Subscriptions: []model.Subscription{{ID: "sub1", Type: "platform-core"}},
	}

	out := Compute(m, Options{})

	n, _ := out.NodeByID("orphan")
	if n.Bounds != nil {
		t.Errorf("orphan bounds = %+v, want absent", *n.Bounds)
	}
}

func TestComputeEmptySubscription(t *testing.T) {
	m := model.ArchitectureModel{
		Subscriptions: []model.Subscription{{ID: "empty", Type: "platform-core"}},
	}

	out := Compute(m, Options{})

	if out.Subscriptions[0].Bounds == nil {
		t.Error("empty subscription should still get a container box")
	}
}

func TestComputeStampsEdgeRouting(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a", SubscriptionID: "sub1"},
			{ID: "b", SubscriptionID: "sub1"},
		},
		Edges:         []model.Edge{{From: "a", To: "b"}},
		Subscriptions: []model.Subscription{{ID: "sub1", Type: "platform-core"}},
	}

	out := Compute(m, Options{})

	e := out.Edges[0]
	if e.Routing == nil || !e.Routing.Routed {
		t.Error("edge routing marker not stamped")
	}
}

func TestComputeCustomOptions(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a", SubscriptionID: "sub1", EntityType: model.EntityVNet},
		},
		Subscriptions: []model.Subscription{{ID: "sub1", Type: "platform-core"}},
	}

	out := Compute(m, Options{NodeWidth: 100, NodeHeight: 40, ContainerPadding: 10, ColumnSpacing: 200})

	sub := out.Subscriptions[0]
	if sub.Bounds.X != 50+200 {
		t.Errorf("sub x = %v, want 250 with 200 column spacing", sub.Bounds.X)
	}
	n, _ := out.NodeByID("a")
	if n.Bounds.X != sub.Bounds.X+10 {
		t.Errorf("node x = %v, want container padding 10", n.Bounds.X)
	}
	if n.Bounds.Width != 100 || n.Bounds.Height != 40 {
		t.Errorf("node size = %vx%v, want 100x40", n.Bounds.Width, n.Bounds.Height)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{}.WithDefaults()
	want := Options{
		NodeWidth:        120,
		NodeHeight:       70,
		ColumnSpacing:    180,
		RowSpacing:       90,
		ContainerPadding: 20,
	}
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}

	// Explicit values survive.
	got = Options{NodeWidth: 60}.WithDefaults()
	if got.NodeWidth != 60 {
		t.Errorf("explicit NodeWidth overridden: %v", got.NodeWidth)
	}
}

func testModel() model.ArchitectureModel {
	return model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "vnet-hub", SubscriptionID: "p1", EntityType: model.EntityVNet, Layer: model.LayerNetworking},
			{ID: "aks", SubscriptionID: "lz1", EntityType: model.EntityService, Layer: model.LayerCompute},
			{ID: "sql", SubscriptionID: "lz1", EntityType: model.EntityPaaS, Layer: model.LayerData},
		},
		Edges: []model.Edge{{From: "aks", To: "sql"}},
		Subscriptions: []model.Subscription{
			{ID: "p1", Type: "platform-connectivity"},
			{ID: "lz1", Type: "landingzone-corp"},
		},
		ManagementGroups: []model.ManagementGroup{{ID: "root"}},
	}
}
