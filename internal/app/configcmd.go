package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pxp/n8nctl/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the resolved configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:       %s\n", a.cfg.BaseURL)
			fmt.Fprintf(out, "api key:   %s\n", maskKey(a.cfg.APIKey))
			fmt.Fprintf(out, "workflow:  %s\n", a.cfg.WorkflowID)
			fmt.Fprintf(out, "file:      %s\n", a.cfg.InputFile)
			fmt.Fprintf(out, "timeout:   %s\n", a.cfg.Timeout)
			fmt.Fprintf(out, "log level: %s\n", a.cfg.LogLevel)
			return nil
		},
	}

	var includeKey bool
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the resolved configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolvedConfigPath()
			if err != nil {
				return err
			}
			if err := a.cfg.SaveTo(path, includeKey); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			a.printer(cmd.OutOrStdout()).Info("Configuration saved to " + path)
			return nil
		},
	}
	save.Flags().BoolVar(&includeKey, "include-key", false, "also store the API key (file is written with mode 0600)")

	cmd.AddCommand(show, save)
	return cmd
}

func (a *App) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	if p := os.Getenv("N8NCTL_CONFIG"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

// maskKey keeps the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
