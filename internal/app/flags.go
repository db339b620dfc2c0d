package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pxp/n8nctl/internal/config"
)

// applyFlags overrides cfg with every persistent flag the user set explicitly.
func (a *App) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("url") {
		cfg.BaseURL = a.flags.url
	}
	if changed("api-key") {
		cfg.APIKey = a.flags.apiKey
	}
	if changed("workflow") {
		cfg.WorkflowID = a.flags.workflowID
	}
	if changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if changed("timeout") {
		d, err := time.ParseDuration(a.flags.timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", a.flags.timeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
