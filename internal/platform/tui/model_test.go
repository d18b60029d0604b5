package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tictactoe/internal/core"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

type fakeResults struct {
	results []tictactoe.GameResult
	err     error
}

func (f *fakeResults) RecentResults(_ context.Context, limit int) ([]tictactoe.GameResult, error) {
	if len(f.results) > limit {
		return f.results[:limit], f.err
	}
	return f.results, f.err
}

func newTestModel(t *testing.T, results ResultSource, opts ...tictactoe.Option) Model {
	t.Helper()
	s := tictactoe.New(append([]tictactoe.Option{tictactoe.WithSeed(1)}, opts...)...)
	return NewModel(s, Options{
		Config: core.RuntimeConfig{
			ScreenW:       40,
			ScreenH:       18,
			ThinkingDelay: time.Millisecond,
		},
		Results: results,
		Logger:  log.New(io.Discard),
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return mm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, k)
	}
	return m
}

func TestModelCursorMovement(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, 4, m.Cursor())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.Cursor())

	m = press(t, m, runes("h"))
	assert.Equal(t, 0, m.Cursor())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 8, m.Cursor())

	m = press(t, m, runes("j"))
	assert.Equal(t, 2, m.Cursor())
}

func TestModelPlaceAndOpponentReply(t *testing.T) {
	m := newTestModel(t, nil, tictactoe.WithDifficulty(tictactoe.Hard))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tictactoe.X, m.Session().Board()[0])
	assert.True(t, m.Session().OpponentPending())
	assert.Contains(t, m.View(), "Computer is thinking...")

	msg := cmd()
	require.IsType(t, OpponentTurnMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Equal(t, tictactoe.O, m.Session().Board()[4])
	assert.Equal(t, tictactoe.Human, m.Session().CurrentPlayer())
	assert.Contains(t, m.View(), "Your turn!")
}

func TestModelUndoCancelsPendingTurn(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	stale := cmd()

	m = press(t, m, runes("u"))
	assert.Equal(t, tictactoe.Board{}, m.Session().Board())

	m, _ = update(t, m, stale)
	assert.Equal(t, tictactoe.Board{}, m.Session().Board())
	assert.Equal(t, tictactoe.Human, m.Session().CurrentPlayer())
}

func TestModelNotices(t *testing.T) {
	m := newTestModel(t, nil, tictactoe.WithDifficulty(tictactoe.Hard))

	m = press(t, m, runes("u"))
	assert.Contains(t, m.View(), "Nothing to undo.")

	// Human takes the corner, then tries to move again before the reply.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Wait for the computer's move.")

	m, _ = update(t, m, cmd())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 4, m.Cursor())
	assert.Contains(t, m.View(), "That cell is taken.")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.NotContains(t, m.View(), "That cell is taken.")
}

func TestModelGameOverNotice(t *testing.T) {
	m := newTestModel(t, nil)
	s := m.Session()
	for _, c := range []int{0, 1, 2} {
		require.NoError(t, s.ApplyMove(c, tictactoe.Human))
	}
	require.False(t, s.Active())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Game over. Press r for a new round.")

	m = press(t, m, runes("r"))
	assert.True(t, s.Active())
	assert.Equal(t, tictactoe.Board{}, s.Board())
}

func TestModelDifficultyKeys(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, tictactoe.Easy, m.Session().Difficulty())

	m = press(t, m, runes("3"))
	assert.Equal(t, tictactoe.Hard, m.Session().Difficulty())
	assert.Contains(t, m.View(), "Difficulty: Hard")

	m = press(t, m, runes("2"))
	assert.Equal(t, tictactoe.Medium, m.Session().Difficulty())
}

func TestModelMouseClickPlaces(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, tea.MouseMsg{X: 19, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	assert.Equal(t, tictactoe.X, m.Session().Board()[4])

	// Borders and releases are ignored.
	m, cmd = update(t, m, tea.MouseMsg{X: 17, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	m, cmd = update(t, m, tea.MouseMsg{X: 14, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	b := m.Session().Board()
	assert.Equal(t, 1, b.Count())
}

func TestModelInitResumesPendingTurn(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Nil(t, m.Init())

	_, err := m.Session().SubmitHumanMove(0)
	require.NoError(t, err)
	assert.NotNil(t, m.Init())
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModelResultsOverlay(t *testing.T) {
	source := &fakeResults{results: []tictactoe.GameResult{
		{ID: "a", Outcome: tictactoe.OutcomeWin, Difficulty: tictactoe.Hard, Moves: 5, FinishedAt: time.Now()},
		{ID: "b", Outcome: tictactoe.OutcomeDraw, Difficulty: tictactoe.Easy, Moves: 9, FinishedAt: time.Now()},
	}}
	m := newTestModel(t, source)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	view := m.View()
	assert.Contains(t, view, "RECENT GAMES")
	assert.Contains(t, view, "Won 1  Lost 0  Drawn 1")
	assert.Len(t, m.results.Results(), 2)

	// Game keys are inert while the table is shown.
	m = press(t, m, runes("3"))
	assert.Equal(t, tictactoe.Easy, m.Session().Difficulty())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.View(), "TIC-TAC-TOE")
}

func TestModelResultsWithoutSource(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), "Results are not being recorded.")

	failing := newTestModel(t, &fakeResults{err: errors.New("disk on fire")})
	failing = press(t, failing, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, failing.View(), "disk on fire")
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 8})
	assert.Contains(t, m.View(), "Window too small")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 24})
	assert.Contains(t, m.View(), "TIC-TAC-TOE")
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runes("w"), core.ActionUp},
		{runes("s"), core.ActionDown},
		{runes("a"), core.ActionLeft},
		{runes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionPlace},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionPlace},
		{tea.KeyMsg{Type: tea.KeyBackspace}, core.ActionUndo},
		{runes("n"), core.ActionReset},
		{runes("1"), core.ActionDifficulty1},
		{runes("2"), core.ActionDifficulty2},
		{runes("3"), core.ActionDifficulty3},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionScores},
		{runes("m"), core.ActionSound},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("x"), core.ActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keys.Action(tt.msg), "key %q", tt.msg.String())
	}
}

func TestBellAudio(t *testing.T) {
	var buf bytes.Buffer
	a := NewBellAudio(&buf)

	require.NoError(t, a.Play(tictactoe.SoundClick))
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	require.NoError(t, a.Play(tictactoe.SoundWin))
	assert.Equal(t, "\a\a", buf.String())

	buf.Reset()
	a.SetEnabled(false)
	assert.False(t, a.Enabled())
	require.NoError(t, a.Play(tictactoe.SoundLose))
	assert.Empty(t, buf.String())
}

type prefStore struct {
	data map[string][]byte
}

func (p *prefStore) LoadSnapshot(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := p.data[key]
	return data, ok, nil
}

func (p *prefStore) SaveSnapshot(_ context.Context, key string, data []byte) error {
	p.data[key] = data
	return nil
}

func (p *prefStore) DeleteSnapshot(_ context.Context, key string) error {
	delete(p.data, key)
	return nil
}

func TestModelSoundToggle(t *testing.T) {
	var buf bytes.Buffer
	bell := NewBellAudio(&buf)
	store := &prefStore{data: make(map[string][]byte)}
	pref := tictactoe.NewAudioPref(store, "")

	s := tictactoe.New(tictactoe.WithSeed(1), tictactoe.WithAudio(bell))
	m := NewModel(s, Options{
		Config:    core.RuntimeConfig{ScreenW: 40, ScreenH: 18, ThinkingDelay: time.Millisecond},
		Logger:    log.New(io.Discard),
		Sound:     bell,
		SoundPref: pref,
	})

	m = press(t, m, runes("m"))
	assert.False(t, bell.Enabled())
	assert.Contains(t, m.View(), "Sound off.")

	on, err := pref.Load(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, on, "choice is remembered")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, tictactoe.X, m.Session().Board()[4])
	assert.Empty(t, buf.String(), "muted bell stays silent")

	m = press(t, m, runes("m"))
	assert.True(t, bell.Enabled())
	assert.Contains(t, m.View(), "Sound on.")
	on, err = pref.Load(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestModelSoundToggleWithoutBell(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, runes("m"))

	assert.Contains(t, m.View(), "Sound is not available.")
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawColorText(0, 0, "HELLO", core.ColorBrightYellow)
	s.DrawText(0, 1, "world")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "HELLO")
	assert.Contains(t, lines[1], "world")
}
