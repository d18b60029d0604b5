package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tictactoe/internal/core"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// Results table layout constants
const (
	maxResults      = 50 // Max results to load
	resultsChrome   = 6  // Title, totals, help and margins
	minTableHeight  = 3
	loadResultsWait = 2 * time.Second
)

// ResultSource lists recently finished games, newest first.
type ResultSource interface {
	RecentResults(ctx context.Context, limit int) ([]tictactoe.GameResult, error)
}

// ResultsKeyMap defines the key bindings for the results table.
type ResultsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/tab", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel shows the result log in a table. It is embedded in Model
// rather than run as its own program.
type ResultsModel struct {
	source  ResultSource
	results []tictactoe.GameResult
	err     error
	table   table.Model
	help    help.Model
	keys    ResultsKeyMap
	width   int
	height  int
}

// NewResultsModel creates a results table over source. source may be nil,
// in which case the table stays empty.
func NewResultsModel(source ResultSource, width, height int) ResultsModel {
	m := ResultsModel{
		source: source,
		help:   help.New(),
		keys:   DefaultResultsKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Result", Width: 8},
		{Title: "Level", Width: 8},
		{Title: "Moves", Width: 6},
		{Title: "Finished", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Clamp(m.height-resultsChrome, minTableHeight, maxResults)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Reload fetches the latest results from the source.
func (m *ResultsModel) Reload() {
	m.results, m.err = nil, nil
	if m.source != nil {
		ctx, cancel := context.WithTimeout(context.Background(), loadResultsWait)
		defer cancel()
		m.results, m.err = m.source.RecentResults(ctx, maxResults)
	}
	m.updateTableRows()
}

func (m *ResultsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.Outcome,
			r.Difficulty.String(),
			fmt.Sprintf("%d", r.Moves),
			r.FinishedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// SetSize adapts the table to a new terminal size.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.table = m.createTable()
	m.updateTableRows()
}

// Results returns the currently loaded results.
func (m ResultsModel) Results() []tictactoe.GameResult {
	return m.results
}

// Update scrolls the table.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results table.
func (m ResultsModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RECENT GAMES", m.width)))
	b.WriteString("\n\n")

	switch {
	case m.source == nil:
		b.WriteString(centerText("Results are not being recorded.", m.width))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(centerText("Could not load results: "+m.err.Error(), m.width))
		b.WriteString("\n")
	case len(m.results) == 0:
		b.WriteString(centerText("No games finished yet.", m.width))
		b.WriteString("\n")
	default:
		var wins, losses, draws int
		for _, r := range m.results {
			switch r.Outcome {
			case tictactoe.OutcomeWin:
				wins++
			case tictactoe.OutcomeLoss:
				losses++
			case tictactoe.OutcomeDraw:
				draws++
			}
		}
		b.WriteString(centerText(fmt.Sprintf("Won %d  Lost %d  Drawn %d", wins, losses, draws), m.width))
		b.WriteString("\n")

		tableStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
