// Package tui renders the todo list in a terminal.
package tui

import (
	"context"
	"strconv"
	"strings"

	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/adapter/view"
	"todo-web/pkg/entity/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type todosMsg struct {
	todos []*model.Todo
	err   error
}

// Model is the bubbletea model of the todo list. The program mounts it on
// start, so a new Model is already pending.
type Model struct {
	ctx    context.Context
	todos  controller.Todo
	logger *zap.Logger

	state   view.State
	spinner spinner.Model
	table   table.Model
}

// New creates a model fetching from todos. ctx bounds the request.
func New(ctx context.Context, todos controller.Todo, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		todos:   todos,
		logger:  logger,
		state:   view.StatePending,
		spinner: s,
	}
}

// State returns the fetch state.
func (m Model) State() view.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m Model) fetch() tea.Msg {
	todos, err := m.todos.List(m.ctx)
	return todosMsg{todos: todos, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.state != view.StatePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case todosMsg:
		if m.state != view.StatePending {
			return m, nil
		}
		var items []model.Todo
		m.state, items, _ = view.Settle(m.logger, msg.todos, msg.err)
		if m.state == view.StateSucceeded {
			m.table = newTable(items)
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case view.StatePending:
		return m.spinner.View() + " Loading...\n"
	case view.StateFailed:
		return "Error :(\n"
	case view.StateSucceeded:
		var b strings.Builder
		b.WriteString(titleStyle.Render("Todos"))
		b.WriteString("\n\n")
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q: quit"))
		b.WriteString("\n")
		return b.String()
	default:
		return ""
	}
}

func newTable(todos []model.Todo) table.Model {
	idWidth, titleWidth := len("id"), len("title")
	rows := make([]table.Row, 0, len(todos))
	for _, t := range todos {
		idWidth = max(idWidth, lipgloss.Width(t.ID))
		titleWidth = max(titleWidth, lipgloss.Width(t.Title))
		rows = append(rows, table.Row{t.ID, t.Title, strconv.FormatBool(t.Completed)})
	}

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "id", Width: idWidth},
			{Title: "title", Width: titleWidth},
			{Title: "completed", Width: len("completed")},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	tbl.SetStyles(s)
	// header with its bottom border plus every row
	tbl.SetHeight(len(rows) + 3)

	return tbl
}
