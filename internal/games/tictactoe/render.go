package tictactoe

import (
	"fmt"

	"github.com/vovakirdan/tictactoe/internal/core"
)

const (
	cellWidth  = 4 // Width of each cell including its left border
	cellHeight = 2 // Height of each cell including its top border
	gridSide   = 3

	gridW = gridSide*cellWidth + 1
	gridH = gridSide*cellHeight + 1

	// Title, difficulty and a gap above the grid; gap, status and scores below.
	hudTop    = 3
	hudBottom = 3

	// MinScreenW and MinScreenH are the smallest screen RenderView lays out.
	MinScreenW = 32
	MinScreenH = hudTop + gridH + hudBottom
)

// RenderView draws v into dst with the cursor on the given cell.
// A negative cursor hides it.
func RenderView(dst *core.Screen, v View, cursor int) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		renderTooSmall(dst)
		return
	}

	top := (dst.Height() - MinScreenH) / 2
	gridX, gridY := gridOrigin(dst.Width(), dst.Height())

	dst.DrawTextCentered(top, "TIC-TAC-TOE", core.ColorBrightYellow)
	dst.DrawTextCentered(top+1, "Difficulty: "+v.Difficulty.String(), core.ColorGray)

	renderGrid(dst, gridX, gridY)
	renderMarks(dst, v, cursor, gridX, gridY)

	statusY := gridY + gridH + 1
	dst.DrawTextCentered(statusY, v.Status.Message(), statusColor(v.Status))
	dst.DrawTextCentered(statusY+1, fmt.Sprintf("You: %d  Computer: %d  Ties: %d",
		v.Scores.Human, v.Scores.Opponent, v.Scores.Ties), core.ColorDefault)
}

// CellAt maps a screen position to the board cell drawn there by RenderView
// on a screen of the given size. Borders and the HUD map to no cell.
func CellAt(width, height, x, y int) (int, bool) {
	if width < MinScreenW || height < MinScreenH {
		return 0, false
	}
	gridX, gridY := gridOrigin(width, height)
	inner := core.NewRect(gridX+1, gridY+1, gridW-2, gridH-2)
	if !inner.Contains(x, y) {
		return 0, false
	}
	dx, dy := x-gridX, y-gridY
	if dx%cellWidth == 0 || dy%cellHeight == 0 {
		return 0, false
	}
	return (dy/cellHeight)*gridSide + dx/cellWidth, true
}

func gridOrigin(width, height int) (int, int) {
	top := (height - MinScreenH) / 2
	return (width - gridW) / 2, top + hudTop
}

func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// renderGrid draws the 3x3 cell borders.
func renderGrid(dst *core.Screen, gridX, gridY int) {
	frame := core.NewRect(gridX, gridY, gridW, gridH)
	dst.DrawBox(frame, core.ColorGray)

	for i := 1; i < gridSide; i++ {
		x := gridX + i*cellWidth
		y := gridY + i*cellHeight
		for py := frame.Y + 1; py < frame.Bottom()-1; py++ {
			dst.SetCell(x, py, '│', core.ColorGray)
		}
		for px := frame.X + 1; px < frame.Right()-1; px++ {
			dst.SetCell(px, y, '─', core.ColorGray)
		}
		dst.SetCell(x, frame.Y, '┬', core.ColorGray)
		dst.SetCell(x, frame.Bottom()-1, '┴', core.ColorGray)
		dst.SetCell(frame.X, y, '├', core.ColorGray)
		dst.SetCell(frame.Right()-1, y, '┤', core.ColorGray)
	}

	for i := 1; i < gridSide; i++ {
		for j := 1; j < gridSide; j++ {
			dst.SetCell(gridX+i*cellWidth, gridY+j*cellHeight, '┼', core.ColorGray)
		}
	}
}

func renderMarks(dst *core.Screen, v View, cursor, gridX, gridY int) {
	for i, cv := range v.Cells {
		x := gridX + (i%gridSide)*cellWidth + 1
		y := gridY + (i/gridSide)*cellHeight + 1

		if i == cursor {
			dst.SetCell(x, y, '[', core.ColorBrightYellow)
			dst.SetCell(x+2, y, ']', core.ColorBrightYellow)
		}

		if cv.Mark == Empty {
			continue
		}
		dst.SetCell(x+1, y, []rune(cv.Mark.String())[0], markColor(cv))
	}
}

func markColor(cv CellView) core.Color {
	switch {
	case cv.Winning:
		return core.ColorBrightGreen
	case cv.Mark == X:
		return core.ColorBrightCyan
	default:
		return core.ColorBrightRed
	}
}

func statusColor(s Status) core.Color {
	switch s {
	case StatusHumanWon:
		return core.ColorBrightGreen
	case StatusOpponentWon:
		return core.ColorBrightRed
	case StatusDraw:
		return core.ColorYellow
	case StatusOpponentThinking:
		return core.ColorGray
	default:
		return core.ColorDefault
	}
}
