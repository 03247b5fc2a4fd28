package cli

import (
	"github.com/spf13/cobra"

	"github.com/cloudplot/cloudplot/pkg/layout"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		opts   layout.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute canvas positions for an architecture model",
		Long: `Layout sanitizes a model and assigns bounds to management groups,
subscriptions and nodes using the fixed column scheme (management
groups, platform subscriptions, landing zones, shared services).
The positioned model is written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ReadModelFile(args[0])
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			res := validate.Sanitize(m)
			for _, w := range res.Warnings {
				c.Logger.Warn("model sanitized", "kind", w.Kind, "detail", w.Message)
			}
			positioned := layout.Compute(res.Model, opts)
			p.done("Computed layout")

			out := output
			if out == "" {
				out = outputPath(args[0], "", "json", false)
			}
			if err := model.WriteModelFile(positioned, out); err != nil {
				return err
			}
			printFile(out)
			printStats(len(positioned.Nodes), len(positioned.Edges), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the positioned model")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "node width in canvas units (0 = default)")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "node height in canvas units (0 = default)")
	cmd.Flags().Float64Var(&opts.ColumnSpacing, "column-spacing", 0, "horizontal column pitch (0 = default)")
	cmd.Flags().Float64Var(&opts.RowSpacing, "row-spacing", 0, "vertical gap between subscriptions (0 = default)")
	cmd.Flags().Float64Var(&opts.ContainerPadding, "container-padding", 0, "padding inside containers (0 = default)")

	return cmd
}
