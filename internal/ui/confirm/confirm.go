package confirm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pxp/n8nctl/internal/ui/theme"
	"github.com/pxp/n8nctl/internal/workflow"
)

// ErrCancelled is returned when the user declines the update.
var ErrCancelled = errors.New("update cancelled")

// UpdateFunc performs the remote update once the user has confirmed.
type UpdateFunc func(ctx context.Context) (workflow.Workflow, error)

// Prompt describes the update being confirmed.
type Prompt struct {
	URL        string
	WorkflowID string
	File       string
	Document   workflow.Workflow
}

type state int

const (
	stateAsking state = iota
	stateRunning
	stateDone
	stateCancelled
)

// resultMsg is sent when the update request completes.
type resultMsg struct {
	Workflow workflow.Workflow
	Err      error
}

// Model asks for confirmation, then runs the update behind a spinner.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	prompt  Prompt
	update  UpdateFunc
	spinner spinner.Model
	state   state
	result  workflow.Workflow
	err     error
}

// New creates a confirmation model.
func New(ctx context.Context, p Prompt, update UpdateFunc) Model {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		prompt:  p,
		update:  update,
		spinner: s,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) run() tea.Cmd {
	return func() tea.Msg {
		wf, err := m.update(m.ctx)
		return resultMsg{Workflow: wf, Err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if IsQuit(msg) {
			// Abandon an in-flight request too; its result is discarded.
			m.cancel()
			m.state = stateCancelled
			return m, tea.Quit
		}
		if m.state != stateAsking {
			return m, nil
		}
		switch {
		case IsAccept(msg):
			m.state = stateRunning
			return m, tea.Batch(m.spinner.Tick, m.run())
		case IsCancel(msg):
			m.cancel()
			m.state = stateCancelled
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		if m.state != stateRunning {
			return m, nil
		}
		m.cancel()
		m.state = stateDone
		m.result = msg.Workflow
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case stateAsking:
		name := m.prompt.Document.Name()
		if name == "" {
			name = "N/A"
		}
		return lipgloss.JoinVertical(
			lipgloss.Left,
			theme.TitleStyle.Render("Replace workflow "+m.prompt.WorkflowID),
			theme.SubtitleStyle.Render("  server: "+m.prompt.URL),
			theme.SubtitleStyle.Render("  file:   "+m.prompt.File),
			theme.SubtitleStyle.Render(fmt.Sprintf("  name:   %s (%d nodes)", name, len(m.prompt.Document.Nodes()))),
			"",
			theme.WarningStyle.Render("Replace workflow? [y/N] "),
		) + "\n"
	case stateRunning:
		return m.spinner.View() + " Updating workflow " + m.prompt.WorkflowID + "...\n"
	}
	return ""
}

// Result returns the outcome once the program has finished.
func (m Model) Result() (workflow.Workflow, error) {
	switch m.state {
	case stateDone:
		return m.result, m.err
	case stateCancelled:
		return nil, ErrCancelled
	}
	return nil, errors.New("update did not complete")
}

// Run shows the prompt on in/out and performs the update if confirmed.
func Run(ctx context.Context, in io.Reader, out io.Writer, p Prompt, update UpdateFunc) (workflow.Workflow, error) {
	m := New(ctx, p, update)
	defer m.cancel()

	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("running confirmation prompt: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return nil, errors.New("unexpected prompt model")
	}
	return fm.Result()
}
