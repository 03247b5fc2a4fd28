package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/pipeline"
)

// formatExtensions maps output formats to file extensions.
var formatExtensions = map[string]string{
	pipeline.FormatMermaid:  ".mmd",
	pipeline.FormatPlantUML: ".puml",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatJSON:     ".json",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (single format) or base path (multiple)
	formats   []string // output formats: mermaid, plantuml, dot, svg, json
	direction string   // flowchart direction: TB, BT, LR, RL
	styled    bool     // styled mermaid mode with edge buckets
	title     string   // diagram title (plantuml)
	noCache   bool     // bypass the pipeline cache
	stdout    bool     // write to stdout instead of files
}

// renderCommand creates the render command for generating diagram text.
//
// Default settings:
//   - format: mermaid
//   - direction: TB
//   - caching: enabled (file cache under ~/.cache/cloudplot/)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{direction: pipeline.DefaultDirection}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an architecture model to diagram text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): mermaid (default), plantuml, dot, svg, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", opts.direction, "flow direction: TB, BT, LR, RL")
	cmd.Flags().BoolVar(&opts.styled, "styled", false, "styled mermaid mode with edge classification")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title (plantuml)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the pipeline cache")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write diagram text to stdout")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	m, err := model.ReadModelFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	spin := newSpinner(ctx, "Rendering diagram...")
	if !opts.stdout {
		spin.Start()
	}
	result, err := runner.Execute(ctx, m, pipeline.Options{
		Formats:   opts.formats,
		Direction: opts.direction,
		Styled:    opts.styled,
		Title:     opts.title,
		Logger:    c.Logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	if spin.Cancelled() {
		return ctx.Err()
	}

	if opts.stdout {
		for _, format := range opts.formats {
			os.Stdout.Write(result.Artifacts[format])
		}
		return nil
	}

	for _, format := range opts.formats {
		out := outputPath(path, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}

	if !result.IsValid {
		printWarning("model needed structural repair (%d warnings, run 'cloudplot validate' for details)", len(result.Warnings))
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	printSuccess("Rendered %d format(s)", len(opts.formats))
	return nil
}

// outputPath derives the output file name for a format. With multiple
// formats the explicit output acts as a base path and the extension is
// swapped per format.
func outputPath(input, output, format string, multi bool) string {
	ext := formatExtensions[format]
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		out := base + ext
		if out == input {
			// json output would clobber the json input
			out = base + ".positioned" + ext
		}
		return out
	}
	if multi {
		base := strings.TrimSuffix(output, filepath.Ext(output))
		return base + ext
	}
	return output
}
