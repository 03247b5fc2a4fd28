package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudplot/cloudplot/pkg/cache"
	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/layout"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/render/dot"
	"github.com/cloudplot/cloudplot/pkg/render/mermaid"
	"github.com/cloudplot/cloudplot/pkg/render/plantuml"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the diagram pipeline with caching support.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil c disables caching, a nil
// keyer selects the default keyer, and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the full pipeline on a model: sanitize, layout, then render
// each requested format. Layout results and rendered artifacts are cached
// keyed by the sanitized model's content hash, so repeated requests for the
// same model skip recomputation.
func (r *Runner) Execute(ctx context.Context, m model.ArchitectureModel, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid pipeline options")
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: sanitize.
	start := time.Now()
	vres := validate.Sanitize(m)
	result.Sanitized = vres.Model
	result.Warnings = vres.Warnings
	result.IsValid = vres.IsValid
	result.Stats.SanitizeTime = time.Since(start)
	result.Stats.NodeCount = len(vres.Model.Nodes)
	result.Stats.EdgeCount = len(vres.Model.Edges)

	for _, w := range vres.Warnings {
		logger.Warn("model sanitized", "kind", w.Kind, "detail", w.Message)
	}

	canonical, err := model.MarshalModel(vres.Model)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to hash model")
	}
	hash := cache.Hash(canonical)
	result.ModelHash = hash

	// Stage 2: layout, cached by model hash and layout options.
	start = time.Now()
	positioned, layoutHit, err := r.layoutStage(ctx, vres.Model, hash, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Positioned = positioned
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = layoutHit

	// Stage 3: render each requested format, cached per format.
	start = time.Now()
	allHit := true
	for _, format := range opts.Formats {
		artifact, hit, err := r.renderStage(ctx, positioned, hash, format, opts, logger)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = artifact
		if !hit {
			allHit = false
		}
	}
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = allHit

	logger.Debug("pipeline complete",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"formats", len(opts.Formats),
		"layout_hit", layoutHit,
		"render_hit", allHit)

	return result, nil
}

// layoutStage computes node and container bounds, consulting the cache first.
func (r *Runner) layoutStage(ctx context.Context, sanitized model.ArchitectureModel, hash string, opts Options, logger *log.Logger) (model.ArchitectureModel, bool, error) {
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		m, uerr := model.UnmarshalModel(data)
		if uerr == nil {
			logger.Debug("layout cache hit", "key", key)
			return m, true, nil
		}
		logger.Warn("discarding corrupt layout cache entry", "key", key, "error", uerr)
	} else if err != nil {
		logger.Warn("layout cache read failed", "error", err)
	}

	positioned := layout.Compute(sanitized, opts.Layout)

	if data, err := model.MarshalModel(positioned); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			logger.Warn("layout cache write failed", "error", err)
		}
	}
	return positioned, false, nil
}

// renderStage produces one output artifact, consulting the cache first.
func (r *Runner) renderStage(ctx context.Context, positioned model.ArchitectureModel, hash, format string, opts Options, logger *log.Logger) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))

	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		logger.Debug("artifact cache hit", "format", format, "key", key)
		return data, true, nil
	} else if err != nil {
		logger.Warn("artifact cache read failed", "format", format, "error", err)
	}

	artifact, err := r.renderFormat(positioned, format, opts, logger)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, artifact, cache.TTLArtifact); err != nil {
		logger.Warn("artifact cache write failed", "format", format, "error", err)
	}
	return artifact, false, nil
}

func (r *Runner) renderFormat(positioned model.ArchitectureModel, format string, opts Options, logger *log.Logger) ([]byte, error) {
	switch format {
	case FormatMermaid:
		text := mermaid.Render(positioned, mermaid.Options{
			Direction: opts.Direction,
			Styled:    opts.Styled,
			Logger:    logger,
		})
		return []byte(text), nil

	case FormatPlantUML:
		text := plantuml.Render(positioned, plantuml.Options{
			Title:  opts.Title,
			Logger: logger,
		})
		return []byte(text), nil

	case FormatDOT:
		text := dot.ToDOT(positioned, dot.Options{
			RankDir: opts.Direction,
			Logger:  logger,
		})
		return []byte(text), nil

	case FormatSVG:
		text := dot.ToDOT(positioned, dot.Options{
			RankDir: opts.Direction,
			Logger:  logger,
		})
		return dot.RenderSVG(text)

	case FormatJSON:
		return model.MarshalModel(positioned)

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// Close releases runner resources (cache connections).
func (r *Runner) Close() error {
	return r.Cache.Close()
}
