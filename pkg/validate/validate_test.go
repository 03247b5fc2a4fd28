package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cloudplot/cloudplot/pkg/model"
)

func TestSanitizeDefaultsMissingLayer(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "n1"}},
	}

	res := Sanitize(m)

	if res.Model.Nodes[0].Layer != model.DefaultLayer {
		t.Errorf("layer = %q, want %q", res.Model.Nodes[0].Layer, model.DefaultLayer)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(res.Warnings))
	}
	if res.Warnings[0].Kind != KindDefaultedLayer {
		t.Errorf("warning kind = %q, want %q", res.Warnings[0].Kind, KindDefaultedLayer)
	}
	// Layer defaulting alone does not invalidate the model.
	if !res.IsValid {
		t.Error("IsValid = false, want true for defaulting-only warnings")
	}
}

func TestSanitizeRenamesDuplicateID(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "vm1", Layer: model.LayerCompute},
			{ID: "vm1", Layer: model.LayerCompute},
		},
	}

	res := Sanitize(m)

	if res.IsValid {
		t.Error("IsValid = true, want false after a rename")
	}
	ids := map[string]bool{}
	for _, n := range res.Model.Nodes {
		if ids[n.ID] {
			t.Fatalf("duplicate id %q survived sanitization", n.ID)
		}
		ids[n.ID] = true
	}
	if res.Model.Nodes[0].ID != "vm1" {
		t.Errorf("first node id = %q, want original %q", res.Model.Nodes[0].ID, "vm1")
	}
	if !strings.HasPrefix(res.Model.Nodes[1].ID, "vm1_") {
		t.Errorf("renamed id = %q, want vm1_ prefix", res.Model.Nodes[1].ID)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Kind == KindRenamedNode && strings.Contains(w.Message, "renamed") {
			found = true
		}
	}
	if !found {
		t.Error("expected a renamed-node warning mentioning renaming")
	}
}

func TestSanitizeDuplicateIDKeepsEdgesOnOriginal(t *testing.T) {
	// An edge authored against a duplicated id stays resolvable: it keeps
	// pointing at the first node that owned the id, never the renamed one.
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "vm1", Layer: model.LayerCompute},
			{ID: "vm1", Layer: model.LayerCompute},
			{ID: "db", Layer: model.LayerData},
		},
		Edges: []model.Edge{{From: "vm1", To: "db"}},
	}

	res := Sanitize(m)

	if len(res.Model.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(res.Model.Edges))
	}
	if res.Model.Edges[0].From != "vm1" {
		t.Errorf("edge from = %q, want %q", res.Model.Edges[0].From, "vm1")
	}
}

func TestSanitizeDropsSelfEdge(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "a", Layer: model.LayerCompute}},
		Edges: []model.Edge{{From: "a", To: "a"}},
	}

	res := Sanitize(m)

	if len(res.Model.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(res.Model.Edges))
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != KindSelfEdge {
		t.Errorf("warnings = %v, want one self-edge warning", res.Warnings)
	}
	if res.IsValid {
		t.Error("IsValid = true, want false after dropping a self-edge")
	}
}

func TestSanitizeDropsDanglingEdge(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "a", Layer: model.LayerCompute}},
		Edges: []model.Edge{{From: "a", To: "ghost"}},
	}

	res := Sanitize(m)

	if len(res.Model.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(res.Model.Edges))
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != KindDanglingEdge {
		t.Errorf("warnings = %v, want one dangling-edge warning", res.Warnings)
	}
}

func TestSanitizeDropsDuplicateEdges(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a", Layer: model.LayerCompute},
			{ID: "b", Layer: model.LayerData},
		},
		Edges: []model.Edge{
			{From: "a", To: "b", Label: "reads"},
			{From: "a", To: "b", Label: "reads"},
			{From: "a", To: "b", Label: "writes"}, // different label, kept
		},
	}

	res := Sanitize(m)

	if len(res.Model.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(res.Model.Edges))
	}
	if res.Warnings[0].Kind != KindDuplicateEdge {
		t.Errorf("warning kind = %q, want %q", res.Warnings[0].Kind, KindDuplicateEdge)
	}
}

func TestSanitizeReferentialIntegrity(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a"},
			{ID: "a"},
			{ID: "b", Layer: model.LayerData},
		},
		Edges: []model.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "missing"},
			{From: "b", To: "b"},
		},
	}

	res := Sanitize(m)

	ids := map[string]bool{}
	for _, n := range res.Model.Nodes {
		ids[n.ID] = true
	}
	for _, e := range res.Model.Edges {
		if !ids[e.From] || !ids[e.To] {
			t.Errorf("edge %s -> %s has unresolvable endpoint", e.From, e.To)
		}
		if e.From == e.To {
			t.Errorf("self-edge %s survived", e.From)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "a"},
			{ID: "a"},
			{ID: "b", Layer: model.LayerData},
		},
		Edges: []model.Edge{
			{From: "a", To: "b"},
			{From: "a", To: "b"},
			{From: "a", To: "ghost"},
		},
	}

	first := Sanitize(m)
	second := Sanitize(first.Model)

	if len(second.Warnings) != 0 {
		t.Errorf("second pass warnings = %v, want none", second.Warnings)
	}
	if !second.IsValid {
		t.Error("second pass IsValid = false, want true")
	}
	if !reflect.DeepEqual(first.Model, second.Model) {
		t.Error("second pass changed the model")
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "n1"}},
		Edges: []model.Edge{{From: "n1", To: "n1"}},
	}

	Sanitize(m)

	if m.Nodes[0].Layer != "" {
		t.Error("input node layer was mutated")
	}
	if len(m.Edges) != 1 {
		t.Error("input edges were mutated")
	}
}

func TestKindStructural(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindDefaultedLayer, false},
		{KindRenamedNode, true},
		{KindSelfEdge, true},
		{KindDuplicateEdge, true},
		{KindDanglingEdge, true},
	}
	for _, tt := range tests {
		if got := tt.kind.Structural(); got != tt.want {
			t.Errorf("%s.Structural() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestRenameAvoidsExistingIDs(t *testing.T) {
	// A collision with the positional candidate re-suffixes until free.
	m := model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "x", Layer: model.LayerCompute},
			{ID: "x_1", Layer: model.LayerCompute},
			{ID: "x", Layer: model.LayerCompute}, // candidate x_2
		},
	}

	res := Sanitize(m)

	ids := map[string]int{}
	for _, n := range res.Model.Nodes {
		ids[n.ID]++
	}
	for id, count := range ids {
		if count > 1 {
			t.Errorf("id %q appears %d times", id, count)
		}
	}
}
