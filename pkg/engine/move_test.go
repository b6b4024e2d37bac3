package engine

import (
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		input string
		want  Move
		ok    bool
	}{
		{"B4-C4", Move{1, 3, 2, 3}, true},
		{"B4C4", Move{1, 3, 2, 3}, true},
		{"A1-H8", Move{0, 0, 7, 7}, true},
		{" H8-A1 ", Move{7, 7, 0, 0}, true},
		{"Z9-A1", Move{25, 8, 0, 0}, true},
		{"B4-C", Move{}, false},
		{"B4-C45", Move{}, false},
		{"", Move{}, false},
	}

	for _, tc := range tests {
		got, err := ParseMove(tc.input)
		if (err == nil) != tc.ok {
			t.Errorf("ParseMove(%q) error = %v, want ok=%v", tc.input, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseMove(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestMoveString(t *testing.T) {
	for _, s := range []string{"B4-C4", "A1-H8", "G6-F5"} {
		if got := MustParseMove(s).String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestMoveIsCapture(t *testing.T) {
	m := MustParseMove("C3-E5")
	if !m.IsCapture() {
		t.Error("C3-E5 should be a capture")
	}
	col, row := m.Midpoint()
	if col != 3 || row != 3 {
		t.Errorf("Midpoint() = (%d, %d), want (3, 3)", col, row)
	}
	if MustParseMove("C3-D4").IsCapture() {
		t.Error("C3-D4 should not be a capture")
	}
}

func movesToStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValidMovesInitial(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		player Player
		want   []string
	}{
		{Black, []string{"A6-B5", "C6-D5", "C6-B5", "E6-F5", "E6-D5", "G6-H5", "G6-F5"}},
		{White, []string{"B3-C4", "B3-A4", "D3-E4", "D3-C4", "F3-G4", "F3-E4", "H3-G4"}},
	}

	for _, tc := range tests {
		got := movesToStrings(ValidMoves(&b, tc.player))
		if !equalStrings(got, tc.want) {
			t.Errorf("ValidMoves(%v) = %v, want %v", tc.player, got, tc.want)
		}
	}
}

func TestValidMovesAreLegal(t *testing.T) {
	b := NewBoard()
	player := Black

	// Walk a few plies, checking every generated move at each step
	for turn := 1; turn <= 6; turn++ {
		moves := ValidMoves(&b, player)
		if len(moves) == 0 {
			t.Fatalf("turn %d: no moves", turn)
		}
		for _, m := range moves {
			if err := Check(&b, m, player); err != nil {
				t.Errorf("turn %d: generated %s is illegal: %v", turn, m, err)
			}
		}
		Apply(&b, moves[len(moves)-1], player)
		player = player.Opponent()
	}
}

func TestValidMovesCapture(t *testing.T) {
	var b Board
	b.Set(2, 5, BlackPiece) // C6
	b.Set(3, 4, WhitePiece) // D5

	got := movesToStrings(ValidMoves(&b, Black))
	want := []string{"C6-E4", "C6-B5"}
	if !equalStrings(got, want) {
		t.Errorf("ValidMoves = %v, want %v", got, want)
	}

	// White steps south-east and jumps C6 to the south-west
	got = movesToStrings(ValidMoves(&b, White))
	want = []string{"D5-E6", "D5-B7"}
	if !equalStrings(got, want) {
		t.Errorf("ValidMoves(White) = %v, want %v", got, want)
	}
}

func TestHasMoves(t *testing.T) {
	var b Board
	if HasMoves(&b, Black) || HasMoves(&b, White) {
		t.Error("empty board should have no moves")
	}

	// A black piece on the top edge can't go anywhere
	b.Set(1, 0, BlackPiece)
	if HasMoves(&b, Black) {
		t.Error("black piece on row 1 should be stuck")
	}

	b.Set(1, 0, BlackTower)
	if !HasMoves(&b, Black) {
		t.Error("black tower on row 1 should move")
	}
}
