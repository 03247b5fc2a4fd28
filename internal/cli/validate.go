package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// validateCommand creates the validate command for checking raw models.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Sanitize an architecture model and report repairs",
		Long: `Validate reads a raw architecture model, repairs structural problems
(duplicate IDs, dangling edges, self-loops, missing layers) and reports
every repair as a warning. With --output the repaired model is written
out; with --strict a structurally repaired model fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ReadModelFile(args[0])
			if err != nil {
				return err
			}

			p := newProgress(c.Logger)
			res := validate.Sanitize(m)
			p.done(fmt.Sprintf("Sanitized %d nodes, %d edges", len(res.Model.Nodes), len(res.Model.Edges)))

			for _, w := range res.Warnings {
				printWarning("%s: %s", w.Kind, w.Message)
			}

			if output != "" {
				if err := model.WriteModelFile(res.Model, output); err != nil {
					return err
				}
				printFile(output)
			}

			if res.IsValid {
				printSuccess("Model is valid (%d warnings)", len(res.Warnings))
				return nil
			}
			printError("Model needed structural repair (%d warnings)", len(res.Warnings))
			if strict {
				return fmt.Errorf("model is not structurally valid")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the repaired model to this file")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when structural repair was needed")

	return cmd
}
