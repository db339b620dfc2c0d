package app

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pxp/n8nctl/internal/client"
	"github.com/pxp/n8nctl/internal/config"
	"github.com/pxp/n8nctl/internal/logging"
	"github.com/pxp/n8nctl/internal/render"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// App carries the state shared by every command of one invocation.
type App struct {
	cfg        *config.Config
	configPath string
	plain      bool
	log        zerolog.Logger

	flags flagValues

	// overridable in tests
	stdin       io.Reader
	interactive func(in io.Reader, out io.Writer) bool
}

// flagValues holds the raw values of the persistent flags.
type flagValues struct {
	url        string
	apiKey     string
	workflowID string
	timeout    string
	logLevel   string
}

// New creates an App reading from stdin.
func New() *App {
	return &App{
		stdin:       os.Stdin,
		interactive: isTerminal,
		log:         zerolog.Nop(),
	}
}

// Execute runs the CLI with args and returns the process exit code:
// 0 on success, 1 on any failure.
func (a *App) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.RootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(a.stdin)

	if err := root.ExecuteContext(ctx); err != nil {
		a.printer(stderr).Failure(err)
		return 1
	}
	return 0
}

// RootCmd builds the command tree.
func (a *App) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "n8nctl",
		Short:         "Fetch and update n8n workflows through the public REST API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/n8nctl/config.json, env N8NCTL_CONFIG)")
	pf.StringVarP(&a.flags.url, "url", "u", "", "n8n base URL, e.g. http://localhost:5678 (env N8N_URL)")
	pf.StringVarP(&a.flags.apiKey, "api-key", "k", "", "n8n API key (env N8N_API_KEY)")
	pf.StringVarP(&a.flags.workflowID, "workflow", "w", "", "workflow ID (env N8N_WORKFLOW_ID)")
	pf.StringVar(&a.flags.timeout, "timeout", "", "request timeout, e.g. 10s (env N8N_TIMEOUT)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (env N8NCTL_LOG_LEVEL)")
	pf.BoolVar(&a.plain, "plain", false, "disable colours and interactive prompts")

	root.AddCommand(
		a.getCmd(),
		a.updateCmd(),
		a.verifyCmd(),
		a.configCmd(),
	)
	return root
}

// newClient builds an API client from the resolved configuration.
func (a *App) newClient() *client.Client {
	return client.New(a.cfg.BaseURL, a.cfg.APIKey,
		client.WithTimeout(a.cfg.Timeout),
		client.WithLogger(a.log),
		client.WithUserAgent("n8nctl/"+Version),
	)
}

// printer returns a Printer for w, styled only on a terminal and wrapped
// to its width.
func (a *App) printer(w io.Writer) *render.Printer {
	styled := !a.plain && isTerminal(nil, w)
	p := render.New(w, styled)
	if styled {
		p.SetWidth(terminalWidth(w))
	}
	return p
}

// setup resolves configuration: defaults, config file, environment, flags.
func (a *App) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("N8NCTL_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := a.applyFlags(cmd, cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	a.log.Debug().
		Str("url", cfg.BaseURL).
		Str("workflow", cfg.WorkflowID).
		Dur("timeout", cfg.Timeout).
		Msg("configuration resolved")
	return nil
}

// isTerminal reports whether out (and in, when given) are terminals.
func isTerminal(in io.Reader, out io.Writer) bool {
	if !isTTY(out) {
		return false
	}
	return in == nil || isTTY(in)
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func isTTY(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
