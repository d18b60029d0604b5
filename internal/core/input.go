package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // Move the cursor one row up
	ActionDown               // Move the cursor one row down
	ActionLeft               // Move the cursor one cell back
	ActionRight              // Move the cursor one cell forward
	ActionPlace              // Enter, Space - place a mark under the cursor
	ActionUndo               // U - undo the last turn
	ActionReset              // R - start a new round
	ActionDifficulty1        // 1 - easy opponent
	ActionDifficulty2        // 2 - medium opponent
	ActionDifficulty3        // 3 - hard opponent
	ActionScores             // Tab - toggle the results table
	ActionSound              // M - switch sound on or off
	ActionQuit               // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPlace:
		return "Place"
	case ActionUndo:
		return "Undo"
	case ActionReset:
		return "Reset"
	case ActionDifficulty1:
		return "Difficulty1"
	case ActionDifficulty2:
		return "Difficulty2"
	case ActionDifficulty3:
		return "Difficulty3"
	case ActionScores:
		return "Scores"
	case ActionSound:
		return "Sound"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Difficulty returns the difficulty level selected by a difficulty action,
// or 0 if the action does not select one.
func (a Action) Difficulty() int {
	switch a {
	case ActionDifficulty1:
		return 1
	case ActionDifficulty2:
		return 2
	case ActionDifficulty3:
		return 3
	default:
		return 0
	}
}

// MoveCursor returns the cursor index after a navigation action on a 3x3 grid.
// Left and right wrap through all nine cells; up and down wrap by column.
func MoveCursor(cursor int, a Action) int {
	switch a {
	case ActionRight:
		return (cursor + 1) % 9
	case ActionLeft:
		return (cursor + 8) % 9
	case ActionUp:
		return (cursor - 3 + 9) % 9
	case ActionDown:
		return (cursor + 3) % 9
	default:
		return cursor
	}
}
