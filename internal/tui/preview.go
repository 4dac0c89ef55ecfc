// Package tui implements the interactive preview: the formatter runs behind
// a spinner, the resulting edits render as a scrollable styled diff, and the
// user either applies them or walks away.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/coderelay/fmtbridge/internal/format"
	"github.com/coderelay/fmtbridge/pkg/patch"
)

// Params wire the preview to its collaborators.
type Params struct {
	Engine     *format.Engine
	Doc        format.Document
	Descriptor format.Descriptor
	// Apply is invoked once when the user accepts the edits.
	Apply func(edits []patch.Edit) error
}

type editsMsg struct{ edits []patch.Edit }
type failMsg struct{ err error }

type model struct {
	ctx    context.Context
	params Params

	spin    spinner.Model
	vp      viewport.Model
	ready   bool
	waiting bool

	edits    []patch.Edit
	applied  bool
	runErr   error
	applyErr error

	headerStyle lipgloss.Style
	addStyle    lipgloss.Style
	delStyle    lipgloss.Style
	helpStyle   lipgloss.Style
}

func newModel(ctx context.Context, params Params) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		ctx:         ctx,
		params:      params,
		spin:        sp,
		waiting:     true,
		headerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		addStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		delStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runFormatter)
}

func (m *model) runFormatter() tea.Msg {
	edits, err := m.params.Engine.Edits(m.ctx, m.params.Doc, m.params.Descriptor)
	if err != nil {
		return failMsg{err: err}
	}
	return editsMsg{edits: edits}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.Model{Width: msg.Width, Height: msg.Height - 2}
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 2
		}
		m.vp.SetContent(m.renderEdits())
		return m, nil

	case editsMsg:
		m.waiting = false
		m.edits = msg.edits
		if m.ready {
			m.vp.SetContent(m.renderEdits())
		}
		return m, nil

	case failMsg:
		m.waiting = false
		m.runErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "a":
			if !m.waiting && len(m.edits) > 0 && m.params.Apply != nil {
				m.applyErr = m.params.Apply(m.edits)
				m.applied = m.applyErr == nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if m.waiting {
		return fmt.Sprintf("%s running %s…\n", m.spin.View(), m.params.Descriptor.Tool)
	}
	if len(m.edits) == 0 {
		return "document already formatted — press q to exit\n"
	}
	help := m.helpStyle.Render("a apply · q quit · ↑/↓ scroll")
	return m.vp.View() + "\n" + help
}

// renderEdits produces the styled diff body shown in the viewport.
func (m *model) renderEdits() string {
	docLines := strings.Split(m.params.Doc.Text, "\n")

	var b strings.Builder
	for _, e := range m.edits {
		switch e.Action {
		case patch.ActionInsert:
			b.WriteString(m.headerStyle.Render(fmt.Sprintf("@@ insert at line %d @@", e.Start.Line+1)))
		default:
			b.WriteString(m.headerStyle.Render(fmt.Sprintf("@@ lines %d-%d @@", e.Start.Line+1, e.End.Line)))
		}
		b.WriteString("\n")

		if e.Action != patch.ActionInsert {
			for line := e.Start.Line; line < e.End.Line && line < len(docLines); line++ {
				b.WriteString(m.delStyle.Render("- " + docLines[line]))
				b.WriteString("\n")
			}
		}
		if e.Action != patch.ActionDelete {
			for _, line := range splitEditText(e.Text) {
				b.WriteString(m.addStyle.Render("+ " + line))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// splitEditText splits edit text into display lines, dropping the artifact of
// the trailing terminator.
func splitEditText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Run executes the preview program and reports the outcome: whether the edits
// were applied, and any formatter or apply failure.
func Run(ctx context.Context, params Params) (bool, error) {
	lipgloss.SetColorProfile(termenv.ColorProfile())

	prog := tea.NewProgram(newModel(ctx, params), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(*model)
	if !ok {
		return false, nil
	}
	if m.runErr != nil {
		return false, m.runErr
	}
	if m.applyErr != nil {
		return false, m.applyErr
	}
	return m.applied, nil
}
