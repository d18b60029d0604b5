package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tictactoe/internal/core"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// footerLines is the space below the board for the notice and help lines.
const footerLines = 2

// Options configures a Model.
type Options struct {
	Config  core.RuntimeConfig
	Results ResultSource // may be nil
	Logger  *log.Logger

	// Sound is the bell the m key switches. Without it the key only shows
	// a notice.
	Sound *BellAudio
	// SoundPref remembers the switch across runs. May be nil.
	SoundPref *tictactoe.AudioPref
}

// Model is the Bubble Tea model for one game session.
type Model struct {
	session *tictactoe.Session
	screen  *core.Screen
	config  core.RuntimeConfig
	keys    KeyMap
	help    help.Model
	results ResultsModel
	logger  *log.Logger

	sound     *BellAudio
	soundPref *tictactoe.AudioPref

	cursor      int
	turn        uint64 // token of the opponent turn currently scheduled
	notice      string // transient message, cleared by the next key
	showResults bool
	quitting    bool
}

// NewModel creates a Bubble Tea model driving session.
func NewModel(session *tictactoe.Session, opts Options) Model {
	cfg := opts.Config
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		session: session,
		screen:  core.NewScreen(cfg.ScreenW, boardHeight(cfg.ScreenH)),
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    h,
		results: NewResultsModel(opts.Results, cfg.ScreenW, cfg.ScreenH),
		logger:  logger,
		cursor:  4,

		sound:     opts.Sound,
		soundPref: opts.SoundPref,
	}
}

func boardHeight(screenH int) int {
	return max(screenH-footerLines, 1)
}

// Init resumes a computer turn that was pending when the session was loaded.
func (m Model) Init() tea.Cmd {
	if m.session.OpponentPending() {
		return thinkCmd(m.config.ThinkingDelay, m.turn)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showResults {
			return m.handleResultsKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case OpponentTurnMsg:
		return m.handleOpponentTurn(msg)
	}

	return m, nil
}

// handleKey processes keyboard input on the game screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		m.cursor = core.MoveCursor(m.cursor, action)

	case core.ActionPlace:
		return m.place(m.cursor)

	case core.ActionUndo:
		if m.session.UndoTurn() == 0 {
			m.notice = "Nothing to undo."
		}
		m.turn++

	case core.ActionReset:
		m.session.ResetBoard()
		m.turn++

	case core.ActionDifficulty1, core.ActionDifficulty2, core.ActionDifficulty3:
		if err := m.session.SetDifficulty(action.Difficulty()); err != nil {
			m.notice = err.Error()
		}
		m.turn++

	case core.ActionScores:
		m.results.Reload()
		m.showResults = true

	case core.ActionSound:
		m.toggleSound()
	}

	return m, nil
}

// toggleSound flips the bell and saves the choice.
func (m *Model) toggleSound() {
	if m.sound == nil {
		m.notice = "Sound is not available."
		return
	}

	on := !m.sound.Enabled()
	m.sound.SetEnabled(on)
	m.notice = "Sound off."
	if on {
		m.notice = "Sound on."
	}

	if m.soundPref == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.soundPref.Save(ctx, on); err != nil {
		m.logger.Error("save sound setting", "error", err)
	}
}

// handleResultsKey processes keyboard input while the results table is shown.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.results.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.results.keys.Back):
		m.showResults = false
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// handleMouse places a mark on the clicked cell.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showResults || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	cell, ok := tictactoe.CellAt(m.screen.Width(), m.screen.Height(), msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.notice = ""
	m.cursor = cell
	return m.place(cell)
}

// place submits the human move and schedules the computer's reply.
func (m Model) place(cell int) (tea.Model, tea.Cmd) {
	if m.session.OpponentPending() {
		m.notice = "Wait for the computer's move."
		return m, nil
	}

	next, err := m.session.SubmitHumanMove(cell)
	if err != nil {
		m.notice = moveNotice(m.session, err)
		return m, nil
	}
	if !next {
		return m, nil
	}

	m.turn++
	return m, thinkCmd(m.config.ThinkingDelay, m.turn)
}

func moveNotice(s *tictactoe.Session, err error) string {
	switch {
	case !errors.Is(err, tictactoe.ErrIllegalMove):
		return err.Error()
	case !s.Active():
		return "Game over. Press r for a new round."
	default:
		return "That cell is taken."
	}
}

// handleOpponentTurn lets the computer move unless the turn was cancelled.
func (m Model) handleOpponentTurn(msg OpponentTurnMsg) (tea.Model, tea.Cmd) {
	if msg.turn != m.turn || !m.session.OpponentPending() {
		return m, nil
	}
	if _, err := m.session.SubmitOpponentTurn(); err != nil {
		m.logger.Error("opponent turn", "error", err)
		m.notice = err.Error()
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, boardHeight(msg.Height))
	m.help.Width = msg.Width
	m.results.SetSize(msg.Width, msg.Height)
	return m, nil
}

// saveScreenshot saves the current board to a file.
func (m *Model) saveScreenshot() {
	tictactoe.RenderView(m.screen, m.session.View(), m.cursor)

	home, err := os.UserHomeDir()
	if err != nil {
		m.notice = "Screenshot failed: " + err.Error()
		return
	}
	dir := filepath.Join(home, ".tictactoe", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.notice = "Screenshot failed: " + err.Error()
		return
	}

	filename := fmt.Sprintf("tictactoe_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.notice = "Screenshot failed: " + err.Error()
		return
	}
	m.notice = "Saved " + path
}

// Cursor returns the highlighted cell.
func (m Model) Cursor() int {
	return m.cursor
}

// Session returns the session the model drives.
func (m Model) Session() *tictactoe.Session {
	return m.session
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showResults {
		return m.results.View()
	}

	cursor := m.cursor
	if !m.session.Active() {
		cursor = -1
	}
	tictactoe.RenderView(m.screen, m.session.View(), cursor)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	b.WriteString(noticeStyle.Render(centerText(m.notice, m.config.ScreenW)))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the Bubble Tea program for session.
func Run(session *tictactoe.Session, opts Options) error {
	model := NewModel(session, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click to place
	)

	_, err := p.Run()
	return err
}
