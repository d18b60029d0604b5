package tui

import (
	"io"
	"strings"
	"sync"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// BellAudio plays sound cues as terminal bells: one for a click, two for
// the end of a game. A muted bell stays silent.
type BellAudio struct {
	mu    sync.Mutex
	w     io.Writer
	muted bool
}

// NewBellAudio creates an unmuted bell writer for w, usually the terminal or
// an SSH session.
func NewBellAudio(w io.Writer) *BellAudio {
	return &BellAudio{w: w}
}

// Enabled reports whether the bell rings.
func (a *BellAudio) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.muted
}

// SetEnabled switches the bell on or off.
func (a *BellAudio) SetEnabled(on bool) {
	a.mu.Lock()
	a.muted = !on
	a.mu.Unlock()
}

// Play implements tictactoe.Audio.
func (a *BellAudio) Play(s tictactoe.Sound) error {
	n := 1
	if s != tictactoe.SoundClick {
		n = 2
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.muted {
		return nil
	}
	_, err := io.WriteString(a.w, strings.Repeat("\a", n))
	return err
}
