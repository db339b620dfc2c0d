package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pxp/n8nctl/internal/workflow"
)

func (a *App) getCmd() *cobra.Command {
	var (
		output string
		brief  bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a workflow and print a summary",
		Long: `Fetches GET {url}/api/v1/workflows/{id} and prints the workflow name,
its nodes and connections followed by the full JSON document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			c := a.newClient()
			p := a.printer(cmd.OutOrStdout())
			if !raw {
				p.Info("Fetching workflow from " + c.BaseURL() + "/api/v1/workflows/" + a.cfg.WorkflowID)
			}

			wf, err := c.GetWorkflow(cmd.Context(), a.cfg.WorkflowID)
			if err != nil {
				return err
			}

			if output != "" {
				if err := workflow.WriteFile(output, wf); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				a.log.Info().Str("path", output).Msg("workflow written")
			}

			if raw {
				return p.Document(wf)
			}
			return p.Summary(wf, brief)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the fetched workflow JSON to this file")
	cmd.Flags().BoolVar(&brief, "brief", false, "print the summary without the full JSON document")
	cmd.Flags().BoolVar(&raw, "json", false, "print only the workflow JSON")
	return cmd
}
