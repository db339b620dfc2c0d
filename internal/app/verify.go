package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pxp/n8nctl/internal/probe"
)

func (a *App) verifyCmd() *cobra.Command {
	var (
		server bool
		minGo  string
	)

	cmd := &cobra.Command{
		Use:   "verify [package...]",
		Short: "Check the runtime and that required packages are linked in",
		Long: `Reports the Go runtime version and, for each named package or module,
whether it is available in this binary. With no arguments the HTTP client
package (net/http) is checked. --server also checks that the n8n server
answers its health endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = []string{probe.HTTPClient}
			}

			report := probe.Check(names...)
			p := a.printer(cmd.OutOrStdout())
			p.Probe(report)

			ok, err := report.MeetsMinimum(minGo)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("go runtime %s is older than the required %s", report.GoVersion, minGo)
			}
			if missing := report.Missing(); len(missing) > 0 {
				return fmt.Errorf("not available: %s", strings.Join(missing, ", "))
			}

			if server {
				if a.cfg.BaseURL == "" {
					return fmt.Errorf("--server needs a base URL (--url or N8N_URL)")
				}
				if err := a.newClient().Health(cmd.Context()); err != nil {
					return err
				}
				p.Info("Server " + a.cfg.BaseURL + " is reachable")
			}

			p.Info("Success: the runtime and required packages are available")
			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "server", false, "also check the server health endpoint")
	cmd.Flags().StringVar(&minGo, "min-go", probe.MinimumGo, "minimum supported Go runtime version")
	return cmd
}
