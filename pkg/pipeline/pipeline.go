// Package pipeline provides the core diagram-generation pipeline.
//
// This package implements the complete sanitize → layout → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// behavior stays consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Sanitize: repair the raw architecture model, collecting warnings
//  2. Layout: compute container and node bounds for the canvas
//  3. Render: serialize the model into the requested diagram languages
//
// Each stage is a pure function of its input; the Runner only adds
// caching and logging around them. Because of that purity, concurrent
// requests need no coordination beyond not sharing model instances.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats:   []string{pipeline.FormatMermaid},
//	    Direction: "LR",
//	}
//	result, err := runner.Execute(ctx, m, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text := result.Artifacts[pipeline.FormatMermaid]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudplot/cloudplot/pkg/cache"
	"github.com/cloudplot/cloudplot/pkg/layout"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// Output format constants.
const (
	FormatMermaid  = "mermaid"
	FormatPlantUML = "plantuml"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatJSON     = "json" // positioned model, for the interactive canvas
)

// DefaultDirection is the default flowchart direction hint.
const DefaultDirection = "TB"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMermaid:  true,
	FormatPlantUML: true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatJSON:     true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: mermaid, plantuml, dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats   []string `json:"formats,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Styled    bool     `json:"styled,omitempty"`
	Title     string   `json:"title,omitempty"`

	// Layout options
	Layout layout.Options `json:"layout,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults applies defaults for omitted fields. Idempotent.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatMermaid}
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the requested formats.
func (o *Options) Validate() error {
	o.SetDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:        o.Layout.NodeWidth,
		NodeHeight:       o.Layout.NodeHeight,
		ColumnSpacing:    o.Layout.ColumnSpacing,
		RowSpacing:       o.Layout.RowSpacing,
		ContainerPadding: o.Layout.ContainerPadding,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Direction: o.Direction,
		Styled:    o.Styled,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Sanitized is the repaired model.
	Sanitized model.ArchitectureModel

	// Warnings are the sanitizer diagnostics.
	Warnings []validate.Warning

	// IsValid is false when structural repair was needed.
	IsValid bool

	// Positioned is the layouted model (bounds populated).
	Positioned model.ArchitectureModel

	// ModelHash is the content hash of the sanitized model.
	ModelHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	SanitizeTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}
