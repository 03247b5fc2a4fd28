package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cloudplot/cloudplot/pkg/cache"
	"github.com/cloudplot/cloudplot/pkg/model"
)

func testModel() model.ArchitectureModel {
	return model.ArchitectureModel{
		Nodes: []model.Node{
			{ID: "fw", Type: "firewall", Layer: model.LayerConnectivity, SubscriptionID: "p1", EntityType: model.EntityService},
			{ID: "aks", Type: "aks", Layer: model.LayerCompute, SubscriptionID: "lz1", EntityType: model.EntityService},
			{ID: "sql", Type: "sql", Layer: model.LayerData, SubscriptionID: "lz1", EntityType: model.EntityPaaS},
		},
		Edges: []model.Edge{
			{From: "fw", To: "aks"},
			{From: "aks", To: "sql"},
		},
		Subscriptions: []model.Subscription{
			{ID: "p1", Type: "platform-connectivity"},
			{ID: "lz1", Type: "landingzone-corp"},
		},
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{}
	if err := opts.Validate(); err != nil {
		t.Fatalf("empty options should validate: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatMermaid {
		t.Errorf("default formats = %v", opts.Formats)
	}
	if opts.Direction != DefaultDirection {
		t.Errorf("default direction = %q", opts.Direction)
	}
	if opts.Layout.NodeWidth == 0 {
		t.Error("layout defaults not applied")
	}

	bad := Options{Formats: []string{"png"}}
	if err := bad.Validate(); err == nil {
		t.Error("invalid format should fail validation")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatMermaid, FormatPlantUML, FormatDOT, FormatSVG, FormatJSON} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(ctx, testModel(), Options{
		Formats: []string{FormatMermaid, FormatPlantUML, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if !result.IsValid {
		t.Errorf("clean model reported invalid: %v", result.Warnings)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.ModelHash == "" {
		t.Error("model hash missing")
	}

	mermaidOut := result.Artifacts[FormatMermaid]
	if !bytes.HasPrefix(mermaidOut, []byte("flowchart TB\n")) {
		t.Errorf("mermaid artifact wrong:\n%s", mermaidOut)
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPlantUML], []byte("@startuml")) {
		t.Error("plantuml artifact wrong")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatDOT], []byte("digraph")) {
		t.Error("dot artifact wrong")
	}

	// The json artifact is the positioned model.
	positioned, err := model.UnmarshalModel(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact not a model: %v", err)
	}
	if positioned.Subscriptions[0].Bounds == nil {
		t.Error("json artifact missing layout bounds")
	}
}

func TestRunnerExecuteReportsWarnings(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	m := model.ArchitectureModel{
		Nodes: []model.Node{{ID: "a"}, {ID: "a"}},
	}

	result, err := r.Execute(ctx, m, Options{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.IsValid {
		t.Error("duplicate id should invalidate")
	}
	if len(result.Warnings) == 0 {
		t.Error("warnings missing")
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Formats: []string{FormatMermaid}}

	first, err := r.Execute(ctx, testModel(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should be a cache miss")
	}

	second, err := r.Execute(ctx, testModel(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatMermaid], second.Artifacts[FormatMermaid]) {
		t.Error("cached artifact differs from computed one")
	}

	// Different render options must not share cache entries.
	styled, err := r.Execute(ctx, testModel(), Options{Formats: []string{FormatMermaid}, Styled: true})
	if err != nil {
		t.Fatalf("styled Execute: %v", err)
	}
	if styled.CacheInfo.RenderHit {
		t.Error("styled render should not reuse the unstyled artifact")
	}
}

func TestRunnerDeterministicAcrossRuns(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	opts := Options{Formats: []string{FormatMermaid, FormatDOT}}
	first, err := r.Execute(ctx, testModel(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := r.Execute(ctx, testModel(), opts)
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if again.ModelHash != first.ModelHash {
			t.Fatal("model hash not deterministic")
		}
		for format, data := range first.Artifacts {
			if !bytes.Equal(data, again.Artifacts[format]) {
				t.Fatalf("%s artifact not deterministic", format)
			}
		}
	}
}

func TestRunnerRejectsBadFormat(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), testModel(), Options{Formats: []string{"gif"}})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("error = %v", err)
	}
}
