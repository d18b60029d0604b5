package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	require.Equal(t, 80, s.Width())
	require.Equal(t, 24, s.Height())

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("new screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, 'X', ColorCyan)
	assert.Equal(t, Cell{Rune: 'X', Color: ColorCyan}, s.GetCell(5, 5))

	// Out of bounds writes are ignored and reads return a blank cell
	s.SetCell(-1, 0, 'A', ColorRed)
	s.SetCell(100, 0, 'A', ColorRed)
	s.SetCell(0, -1, 'A', ColorRed)
	s.SetCell(0, 100, 'A', ColorRed)

	assert.Equal(t, ' ', s.Get(-1, 0))
	assert.Equal(t, ColorDefault, s.GetCell(100, 0).Color)
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			s.SetCell(x, y, 'O', ColorMagenta)
		}
	}

	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, blankCell, s.GetCell(x, y))
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(12, 3)

	s.DrawColorText(1, 1, "You win!", ColorBrightGreen)
	assert.Equal(t, " You win!   ", s.Row(1))
	assert.Equal(t, ColorBrightGreen, s.GetCell(1, 1).Color)

	// Clipped at the right edge
	s.DrawText(10, 0, "abc")
	assert.Equal(t, "          ab", s.Row(0))
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "XO", ColorDefault)
	assert.Equal(t, "    XO    ", s.Row(0))
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawBox(NewRect(0, 0, 5, 3), ColorGray)

	assert.Equal(t, "┌───┐", s.Row(0))
	assert.Equal(t, "│   │", s.Row(1))
	assert.Equal(t, "└───┘", s.Row(2))
}

func TestScreenResizePreservesContent(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "abcd")

	s.Resize(2, 3)
	require.Equal(t, 2, s.Width())
	require.Equal(t, 3, s.Height())
	assert.Equal(t, "ab", s.Row(0))
	assert.Equal(t, "  ", s.Row(2))
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "X|O")

	lines := strings.Split(s.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "X|O", lines[0])
	assert.Equal(t, "   ", lines[1])
}
