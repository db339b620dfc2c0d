package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pxp/n8nctl/internal/client"
	"github.com/pxp/n8nctl/internal/probe"
	"github.com/pxp/n8nctl/internal/ui/theme"
	"github.com/pxp/n8nctl/internal/workflow"
)

const notAvailable = "N/A"

// Printer writes human readable output for the CLI.
// Styled output uses lipgloss colours and glamour; plain output is stable
// text suitable for pipes and tests.
type Printer struct {
	w      io.Writer
	styled bool
	width  int
}

// New creates a Printer writing to w.
func New(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled, width: 100}
}

// SetWidth sets the wrap width used for styled documents.
func (p *Printer) SetWidth(width int) {
	if width > 0 {
		p.width = width
	}
}

func (p *Printer) paint(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

func (p *Printer) println(parts ...string) {
	fmt.Fprintln(p.w, strings.Join(parts, ""))
}

// Summary prints the workflow name, nodes and connections and, unless
// brief is set, the full document.
func (p *Printer) Summary(wf workflow.Workflow, brief bool) error {
	name := wf.Name()
	if name == "" {
		name = notAvailable
	}
	id := wf.ID()
	if id == "" {
		id = notAvailable
	}
	active := "no"
	if wf.Active() {
		active = "yes"
	}

	p.println(p.paint(theme.TitleStyle, "Workflow: "), p.paint(theme.TextStyle, name))
	p.println(p.paint(theme.SubtitleStyle, fmt.Sprintf("ID: %s   Active: %s", id, active)))

	nodes := wf.Nodes()
	p.println()
	p.println(p.paint(theme.TitleStyle, fmt.Sprintf("Nodes (%d)", len(nodes))))
	if len(nodes) == 0 {
		p.println("  ", p.paint(theme.HintStyle, "none"))
	}
	for i, n := range nodes {
		p.println(fmt.Sprintf("  %d. ", i+1),
			p.paint(theme.TextStyle, orNA(n.Name)), "  ",
			p.paint(theme.SubtitleStyle, orNA(n.Type)), "  ",
			p.paint(theme.HintStyle, "id="+orNA(n.ID)))
	}

	edges := wf.Connections()
	p.println()
	p.println(p.paint(theme.TitleStyle, fmt.Sprintf("Connections (%d)", len(edges))))
	if len(edges) == 0 {
		p.println("  ", p.paint(theme.HintStyle, "none"))
	}
	for i, e := range edges {
		p.println(fmt.Sprintf("  %d. ", i+1),
			p.paint(theme.TextStyle, e.From+" -> "+orNA(e.To)), "  ",
			p.paint(theme.SubtitleStyle, fmt.Sprintf("%s[%d] -> %s[%d]", e.Output, e.OutputIndex, orNA(e.InputType), e.InputIndex)))
	}

	if brief {
		return nil
	}
	p.println()
	p.println(p.paint(theme.TitleStyle, "Full workflow JSON"))
	return p.Document(wf)
}

// Document prints the workflow as indented JSON.
func (p *Printer) Document(wf workflow.Workflow) error {
	data, err := wf.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encoding workflow: %w", err)
	}
	if p.styled {
		fmt.Fprintln(p.w, renderJSON(string(data), p.width))
		return nil
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

// UpdateResult prints the server's confirmation of an update.
func (p *Printer) UpdateResult(id string, resp workflow.Workflow) error {
	p.println(p.paint(theme.SuccessStyle, "Successfully updated workflow "+id))
	if len(resp) == 0 {
		return nil
	}
	if name := resp.Name(); name != "" {
		p.println(p.paint(theme.SubtitleStyle, "Name: "+name))
	}
	if updated, ok := resp["updatedAt"].(string); ok {
		p.println(p.paint(theme.SubtitleStyle, "Updated at: "+updated))
	}
	p.println(p.paint(theme.TitleStyle, "Response:"))
	return p.Document(resp)
}

// Failure prints a concise description of err.
func (p *Printer) Failure(err error) {
	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		p.println(p.paint(theme.ErrorStyle, "error: "+err.Error()))
		return
	}

	switch apiErr.Kind {
	case client.KindHTTPStatus:
		p.println(p.paint(theme.ErrorStyle, "error: server rejected the request"))
		p.println(p.paint(theme.SubtitleStyle, fmt.Sprintf("status: %d", apiErr.StatusCode)))
		if apiErr.Body != "" {
			p.println(p.paint(theme.SubtitleStyle, "body: "+client.Snippet(apiErr.Body)))
		}
		if client.IsAuthError(apiErr) {
			p.println(p.paint(theme.HintStyle, "hint: check the API key (--api-key or N8N_API_KEY)"))
		}
	default:
		p.println(p.paint(theme.ErrorStyle, "error: "+apiErr.Error()))
	}
}

// Probe prints a capability report.
func (p *Printer) Probe(r probe.Report) {
	p.println(p.paint(theme.TitleStyle, "Runtime: "), r.GoVersion)
	if r.Module != "" {
		p.println(p.paint(theme.TitleStyle, "Module: "), r.Module, " ", orNA(r.ModuleVersion))
	}
	for _, d := range r.Dependencies {
		if d.Available {
			p.println(p.paint(theme.SuccessStyle, "ok      "), d.Name, " ", p.paint(theme.SubtitleStyle, orNA(d.Version)))
		} else {
			p.println(p.paint(theme.ErrorStyle, "missing "), d.Name)
		}
	}
}

// Info prints a single informational line.
func (p *Printer) Info(msg string) {
	p.println(p.paint(theme.HintStyle, msg))
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
