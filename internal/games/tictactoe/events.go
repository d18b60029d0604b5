package tictactoe

// EventKind identifies the session operation that produced an event.
type EventKind uint8

const (
	EventMove EventKind = iota
	EventGameOver
	EventUndo
	EventReset
	EventDifficultyChanged
	EventRestored
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventGameOver:
		return "game_over"
	case EventUndo:
		return "undo"
	case EventReset:
		return "reset"
	case EventDifficultyChanged:
		return "difficulty_changed"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Event is emitted after every completed mutating session operation.
// Move is set for EventMove, Result for EventGameOver, Undone for EventUndo.
// Snapshot is the session state after the operation.
type Event struct {
	Kind     EventKind
	Move     Move
	Result   Result
	Undone   int
	Snapshot Snapshot
}

// Observer receives session events. Observers run synchronously on the
// goroutine that mutated the session and must not call back into it.
type Observer interface {
	OnEvent(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

// OnEvent calls f(ev).
func (f ObserverFunc) OnEvent(ev Event) {
	f(ev)
}

// Sound is a discrete audio cue.
type Sound uint8

const (
	SoundClick Sound = iota
	SoundWin
	SoundLose
	SoundTie
)

// String returns the sound name.
func (s Sound) String() string {
	switch s {
	case SoundClick:
		return "click"
	case SoundWin:
		return "win"
	case SoundLose:
		return "lose"
	case SoundTie:
		return "tie"
	default:
		return "unknown"
	}
}

// Audio plays sound cues. Playback errors are logged by the session and
// never affect game state.
type Audio interface {
	Play(s Sound) error
}
