// Package tui provides the Bubble Tea front end: the local game loop, key
// bindings, the results table and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// OpponentTurnMsg asks the model to let the computer move. turn must match
// the model's current turn token or the message is stale and ignored.
type OpponentTurnMsg struct {
	turn uint64
}

// thinkCmd returns a command that delivers an OpponentTurnMsg after delay.
func thinkCmd(delay time.Duration, turn uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return OpponentTurnMsg{turn: turn}
	})
}
