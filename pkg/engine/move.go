package engine

import (
	"fmt"
	"strings"
)

// MaxMoves is an upper bound on the legal moves of one side: 12 units with
// four directions each
const MaxMoves = 48

// Text encoding of a move
const (
	MoveLen    = 4   // source column, source row, target column, target row
	MoveDash   = '-' // optional separator, ignored on input
	colOffset  = 'A'
	rowOffset  = '1'
	northDelta = -1
	southDelta = 1
	eastDelta  = 1
	westDelta  = -1
)

// Move is a single action from a source cell to a target cell.
// Coordinates are 0-based; they are not range-checked until Check.
type Move struct {
	SrcCol int `json:"src_col"`
	SrcRow int `json:"src_row"`
	TgtCol int `json:"tgt_col"`
	TgtRow int `json:"tgt_row"`
}

// NewMove builds a move from 0-based coordinates
func NewMove(srcCol, srcRow, tgtCol, tgtRow int) Move {
	return Move{SrcCol: srcCol, SrcRow: srcRow, TgtCol: tgtCol, TgtRow: tgtRow}
}

// ParseMove parses the four-character form "B4C4". Dashes are ignored.
// Letters and digits outside A-H / 1-8 are accepted here and rejected by Check.
func ParseMove(s string) (Move, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), string(MoveDash), "")
	if len(s) != MoveLen {
		return Move{}, fmt.Errorf("move %q: want %d characters, got %d", s, MoveLen, len(s))
	}
	return Move{
		SrcCol: int(s[0]) - colOffset,
		SrcRow: int(s[1]) - rowOffset,
		TgtCol: int(s[2]) - colOffset,
		TgtRow: int(s[3]) - rowOffset,
	}, nil
}

// MustParseMove is like ParseMove but panics on malformed input
func MustParseMove(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String formats the move as "B4-C4"
func (m Move) String() string {
	return fmt.Sprintf("%c%c-%c%c",
		rune(m.SrcCol+colOffset), rune(m.SrcRow+rowOffset),
		rune(m.TgtCol+colOffset), rune(m.TgtRow+rowOffset))
}

// IsCapture reports whether the move jumps two rows
func (m Move) IsCapture() bool {
	return abs(m.TgtRow-m.SrcRow) == CaptureStep
}

// Midpoint returns the cell jumped over by a capture
func (m Move) Midpoint() (col, row int) {
	return m.SrcCol + (m.TgtCol-m.SrcCol)/2, m.SrcRow + (m.TgtRow-m.SrcRow)/2
}

// directions in generation order: north-east, south-east, south-west, north-west
var directions = [4][2]int{
	{northDelta, eastDelta},
	{southDelta, eastDelta},
	{southDelta, westDelta},
	{northDelta, westDelta},
}

// ValidMoves returns the player's legal moves in generation order: cells in
// row-major order, then directions NE, SE, SW, NW. A capture in a direction
// is tried only when the single step that way is illegal. An empty result
// means the player cannot move.
func ValidMoves(b *Board, player Player) []Move {
	moves := make([]Move, 0, MaxMoves)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			owner, ok := b.At(col, row).Owner()
			if !ok || owner != player {
				continue
			}
			for _, d := range directions {
				moves = appendMoveInDir(moves, b, col, row, d[0], d[1], player)
			}
		}
	}
	return moves
}

// appendMoveInDir appends the legal move from (col, row) in one direction,
// falling back to the capture when the step is illegal
func appendMoveInDir(moves []Move, b *Board, col, row, rowDiff, colDiff int, player Player) []Move {
	m := NewMove(col, row, col+colDiff, row+rowDiff)
	if IsLegal(b, m, player) {
		return append(moves, m)
	}
	if abs(rowDiff) == MoveStep {
		return appendMoveInDir(moves, b, col, row, CaptureStep*rowDiff, CaptureStep*colDiff, player)
	}
	return moves
}

// HasMoves reports whether the player has at least one legal move
func HasMoves(b *Board, player Player) bool {
	return len(ValidMoves(b, player)) > 0
}

// ApplyMove applies a move to a copy of the board and returns the copy
func ApplyMove(board Board, m Move, player Player) Board {
	result := board
	Apply(&result, m, player)
	return result
}
