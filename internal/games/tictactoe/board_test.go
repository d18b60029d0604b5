package tictactoe

import (
	"testing"
)

// parseBoard builds a board from a 9-rune string of 'X', 'O' and '.'.
func parseBoard(t *testing.T, s string) Board {
	t.Helper()
	if len(s) != BoardSize {
		t.Fatalf("parseBoard: %q has %d cells", s, len(s))
	}
	var b Board
	for i, r := range s {
		switch r {
		case 'X':
			b[i] = X
		case 'O':
			b[i] = O
		case '.':
		default:
			t.Fatalf("parseBoard: bad rune %q", r)
		}
	}
	return b
}

func TestPlayerMarks(t *testing.T) {
	if Human.Mark() != X {
		t.Errorf("Human.Mark() = %v, want X", Human.Mark())
	}
	if Opponent.Mark() != O {
		t.Errorf("Opponent.Mark() = %v, want O", Opponent.Mark())
	}
	if Human.Other() != Opponent || Opponent.Other() != Human {
		t.Error("Other() should swap players")
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
		ok   bool
	}{
		{"", Empty, true},
		{"X", X, true},
		{"O", O, true},
		{"x", Empty, false},
		{"XO", Empty, false},
	}
	for _, tt := range tests {
		got, ok := ParseCell(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCell(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBoardSetClear(t *testing.T) {
	var b Board
	b.Set(4, Human)
	b.Set(0, Opponent)

	if b.IsEmpty(4) || b.IsEmpty(0) {
		t.Fatal("cells should be occupied after Set")
	}
	if p, ok := b.Owner(0); !ok || p != Opponent {
		t.Errorf("Owner(0) = %v, %v; want opponent", p, ok)
	}
	if b.Count() != 2 {
		t.Errorf("Count() = %d, want 2", b.Count())
	}

	b.Clear(4)
	if !b.IsEmpty(4) {
		t.Error("cell 4 should be empty after Clear")
	}
	if _, ok := b.Owner(4); ok {
		t.Error("Owner of an empty cell should report false")
	}
}

func TestBoardOutOfRange(t *testing.T) {
	var b Board
	for _, i := range []int{-1, 9, 100} {
		if b.IsEmpty(i) {
			t.Errorf("IsEmpty(%d) = true, want false", i)
		}
		if InBounds(i) {
			t.Errorf("InBounds(%d) = true", i)
		}
	}
}

func TestBoardEmptyCells(t *testing.T) {
	b := parseBoard(t, "X.O.X.O..")
	got := b.EmptyCells()
	want := []int{1, 3, 5, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("EmptyCells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EmptyCells() = %v, want %v", got, want)
		}
	}

	full := parseBoard(t, "XOXXOOOXX")
	if !full.IsFull() {
		t.Error("IsFull() = false on a full board")
	}
	if len(full.EmptyCells()) != 0 {
		t.Error("full board should have no empty cells")
	}
}

func TestBoardString(t *testing.T) {
	b := parseBoard(t, "X...O...X")
	want := "X..\n.O.\n..X"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
