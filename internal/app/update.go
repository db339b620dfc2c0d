package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pxp/n8nctl/internal/client"
	"github.com/pxp/n8nctl/internal/ui/confirm"
	"github.com/pxp/n8nctl/internal/workflow"
)

func (a *App) updateCmd() *cobra.Command {
	var (
		file string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace a workflow with the contents of a local JSON file",
		Long: `Reads a workflow document from --file (default modified_workflow.json,
env N8N_INPUT_FILE) and sends it with PUT {url}/api/v1/workflows/{id}.
On a terminal the update is confirmed interactively unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("file") {
				a.cfg.InputFile = file
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			// Read and check the document before any request is made.
			doc, err := client.LoadInput(a.cfg.InputFile)
			if err != nil {
				return err
			}

			c := a.newClient()
			send := func(ctx context.Context) (workflow.Workflow, error) {
				return c.UpdateWorkflow(ctx, a.cfg.WorkflowID, doc)
			}

			out := cmd.OutOrStdout()
			var resp workflow.Workflow
			if !yes && !a.plain && a.interactive(a.stdin, out) {
				resp, err = confirm.Run(cmd.Context(), a.stdin, out, confirm.Prompt{
					URL:        c.BaseURL(),
					WorkflowID: a.cfg.WorkflowID,
					File:       a.cfg.InputFile,
					Document:   doc,
				}, send)
			} else {
				a.printer(out).Info("Updating workflow " + a.cfg.WorkflowID + " from " + a.cfg.InputFile)
				resp, err = send(cmd.Context())
			}
			if err != nil {
				return err
			}

			return a.printer(out).UpdateResult(a.cfg.WorkflowID, resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "workflow JSON file to upload (env N8N_INPUT_FILE)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
