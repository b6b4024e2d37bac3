// Package engine provides the public API for the checkers engine.
package engine

import "github.com/yourusername/checkers/internal/positionid"

// Size is the number of rows and columns on the board
const Size = 8

const (
	rowsWithPieces = 3 // initial rows filled for each side
	rowsWithout    = 2 // empty rows between the sides
)

// Material weights
const (
	CostPiece = 1
	CostTower = 3
)

// Cell is the state of a single board cell
type Cell uint8

const (
	Empty Cell = iota
	BlackPiece
	WhitePiece
	BlackTower
	WhiteTower
)

// Symbol returns the display character of the cell
func (c Cell) Symbol() byte {
	switch c {
	case BlackPiece:
		return 'b'
	case WhitePiece:
		return 'w'
	case BlackTower:
		return 'B'
	case WhiteTower:
		return 'W'
	}
	return '.'
}

// IsTower reports whether the cell holds a promoted piece
func (c Cell) IsTower() bool {
	return c == BlackTower || c == WhiteTower
}

// Owner returns the player owning the cell. ok is false for empty cells.
func (c Cell) Owner() (p Player, ok bool) {
	switch c {
	case BlackPiece, BlackTower:
		return Black, true
	case WhitePiece, WhiteTower:
		return White, true
	}
	return Black, false
}

// Player identifies a side. Black moves first and maximizes the cost.
type Player int8

const (
	White Player = 0
	Black Player = 1
)

// NumPlayers is the number of sides
const NumPlayers = 2

// Opponent returns the other player
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

// String returns "BLACK" or "WHITE"
func (p Player) String() string {
	if p == Black {
		return "BLACK"
	}
	return "WHITE"
}

// ForTurn returns the player to move on a 1-indexed turn. Odd turns are Black's.
func ForTurn(turn int) Player {
	return Player(turn % NumPlayers)
}

// Piece returns the player's plain piece cell
func (p Player) Piece() Cell {
	if p == Black {
		return BlackPiece
	}
	return WhitePiece
}

// Tower returns the player's tower cell
func (p Player) Tower() Cell {
	if p == Black {
		return BlackTower
	}
	return WhiteTower
}

// Forward returns the row direction a plain piece advances in.
// Black advances north (decreasing row), White south.
func (p Player) Forward() int {
	if p == Black {
		return -1
	}
	return 1
}

// PromotionRow returns the row on which the player's pieces become towers
func (p Player) PromotionRow() int {
	if p == Black {
		return 0
	}
	return Size - 1
}

// Board is the 8x8 grid indexed [row][col]. Row 0 is displayed as '1',
// column 0 as 'A'. Board is a value type; assignment copies it.
type Board [Size][Size]Cell

// NewBoard returns the standard starting layout: white pieces on rows 0-2,
// black pieces on rows 5-7, checkered cells only.
func NewBoard() Board {
	var b Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if col%2 != (row+1)%2 {
				continue
			}
			switch {
			case row < rowsWithPieces:
				b[row][col] = WhitePiece
			case row >= rowsWithPieces+rowsWithout:
				b[row][col] = BlackPiece
			}
		}
	}
	return b
}

// Copy returns an independent copy of the board
func (b *Board) Copy() Board {
	return *b
}

// InBounds reports whether (col, row) lies on the board
func InBounds(col, row int) bool {
	return col >= 0 && col < Size && row >= 0 && row < Size
}

// At returns the cell at (col, row). The coordinates must be in bounds.
func (b *Board) At(col, row int) Cell {
	return b[row][col]
}

// Set stores a cell at (col, row). The coordinates must be in bounds.
func (b *Board) Set(col, row int, c Cell) {
	b[row][col] = c
}

// Count returns the number of cells of the given kind
func (b *Board) Count(kind Cell) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == kind {
				n++
			}
		}
	}
	return n
}

// Evaluate returns the material cost of the board. Positive favors Black.
func (b *Board) Evaluate() int {
	return CostPiece*b.Count(BlackPiece) - CostPiece*b.Count(WhitePiece) +
		CostTower*b.Count(BlackTower) - CostTower*b.Count(WhiteTower)
}

// Counts returns the number of cells of each kind, indexed by Cell
func (b *Board) Counts() [WhiteTower + 1]int {
	var counts [WhiteTower + 1]int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if c := b[row][col]; c <= WhiteTower {
				counts[c]++
			}
		}
	}
	return counts
}

// Key returns the compact position key of the board
func (b *Board) Key() positionid.PositionKey {
	return positionid.MakePositionKey(b.codes())
}

// PositionID returns the 32-character position ID of the board
func (b *Board) PositionID() string {
	return positionid.PositionID(b.codes())
}

// Diagram returns the '/'-separated text diagram of the board
func (b *Board) Diagram() string {
	return positionid.Diagram(b.codes())
}

func (b *Board) codes() positionid.Board {
	var out positionid.Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out[row][col] = uint8(b[row][col])
		}
	}
	return out
}

// ParseBoard decodes a position ID or a diagram into a board
func ParseBoard(s string) (Board, error) {
	codes, err := positionid.Parse(s)
	if err != nil {
		return Board{}, err
	}
	var b Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			b[row][col] = Cell(codes[row][col])
		}
	}
	return b, nil
}
