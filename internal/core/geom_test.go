package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		action Action
		want   int
	}{
		{"right", 0, ActionRight, 1},
		{"right wraps to start", 8, ActionRight, 0},
		{"left wraps to end", 0, ActionLeft, 8},
		{"up wraps by column", 1, ActionUp, 7},
		{"up", 4, ActionUp, 1},
		{"down", 4, ActionDown, 7},
		{"down wraps by column", 7, ActionDown, 1},
		{"non-navigation keeps cursor", 5, ActionPlace, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MoveCursor(tc.cursor, tc.action); got != tc.want {
				t.Errorf("MoveCursor(%d, %s) = %d, want %d", tc.cursor, tc.action, got, tc.want)
			}
		})
	}
}

func TestActionDifficulty(t *testing.T) {
	if ActionDifficulty1.Difficulty() != 1 || ActionDifficulty2.Difficulty() != 2 || ActionDifficulty3.Difficulty() != 3 {
		t.Error("difficulty actions should map to levels 1..3")
	}
	if ActionPlace.Difficulty() != 0 {
		t.Error("non-difficulty action should map to 0")
	}
}
