// Package positionid implements position encoding/decoding for checkers boards.
//
// Three encodings are provided:
//   - PositionKey: 4 bits per cell packed into 8 uint32s, used as a cache key
//   - position ID: a 32-character base64 string, 3 bits per cell
//   - diagram: 8 rows of cell symbols separated by '/', row 1 first
package positionid

import (
	"errors"
	"strings"
)

const (
	// Size is the number of rows and columns on the board
	Size = 8
	// NumCells is the number of cells on the board
	NumCells = Size * Size
	// PositionIDLength is the length of a position ID string
	PositionIDLength = 32
	// MaxCell is the highest valid cell code
	MaxCell = 4

	bitsPerCell = 3
	idBytes     = NumCells * bitsPerCell / 8
)

// Cell codes. They match the engine's cell kinds.
const (
	CodeEmpty uint8 = iota
	CodeBlackPiece
	CodeWhitePiece
	CodeBlackTower
	CodeWhiteTower
)

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Diagram symbols indexed by cell code
const symbols = ".bwBW"

// Board is a checkers board as [row][col] cell codes
type Board [Size][Size]uint8

// PositionKey is a compact binary representation of a board position
// Uses 8 uint32s to encode the position (4 bits per cell, one row per word)
type PositionKey struct {
	Data [8]uint32
}

var (
	// ErrInvalidPositionID is returned when a position ID is invalid
	ErrInvalidPositionID = errors.New("invalid position ID")
	// ErrInvalidDiagram is returned when a board diagram is malformed
	ErrInvalidDiagram = errors.New("invalid board diagram")
)

// MakePositionKey creates a compact key from a board position
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	for row := 0; row < Size; row++ {
		var w uint32
		for col := 0; col < Size; col++ {
			w |= uint32(board[row][col]&0x0f) << (4 * col)
		}
		key.Data[row] = w
	}
	return key
}

// BoardFromKey reconstructs a board from a position key
func BoardFromKey(key PositionKey) Board {
	var board Board
	for row := 0; row < Size; row++ {
		w := key.Data[row]
		for col := 0; col < Size; col++ {
			board[row][col] = uint8((w >> (4 * col)) & 0x0f)
		}
	}
	return board
}

// packBoard packs 3 bits per cell in row-major order
func packBoard(board Board) [idBytes]uint8 {
	var out [idBytes]uint8
	bitPos := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			v := uint32(board[row][col] & 0x07)
			k := bitPos / 8
			r := uint(bitPos & 0x7)
			b := v << r
			out[k] |= uint8(b)
			if r > 8-bitsPerCell {
				out[k+1] |= uint8(b >> 8)
			}
			bitPos += bitsPerCell
		}
	}
	return out
}

func unpackBoard(data [idBytes]uint8) Board {
	var board Board
	bitPos := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			k := bitPos / 8
			r := uint(bitPos & 0x7)
			v := uint32(data[k]) >> r
			if r > 8-bitsPerCell {
				v |= uint32(data[k+1]) << (8 - r)
			}
			board[row][col] = uint8(v & 0x07)
			bitPos += bitsPerCell
		}
	}
	return board
}

// PositionID generates a base64 position ID string from a board
func PositionID(board Board) string {
	data := packBoard(board)
	result := make([]byte, PositionIDLength)
	puch := data[:]

	for i := 0; i < idBytes/3; i++ {
		result[i*4] = base64Chars[puch[0]>>2]
		result[i*4+1] = base64Chars[((puch[0]&0x03)<<4)|(puch[1]>>4)]
		result[i*4+2] = base64Chars[((puch[1]&0x0F)<<2)|(puch[2]>>6)]
		result[i*4+3] = base64Chars[puch[2]&0x3F]
		puch = puch[3:]
	}

	return string(result)
}

// base64Decode decodes a base64 character to its value
func base64Decode(ch byte) uint8 {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A'
	}
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 26
	}
	if ch >= '0' && ch <= '9' {
		return ch - '0' + 52
	}
	if ch == '+' {
		return 62
	}
	if ch == '/' {
		return 63
	}
	return 255
}

// BoardFromPositionID decodes a base64 position ID string to a board
func BoardFromPositionID(posID string) (Board, error) {
	var board Board
	var data [idBytes]uint8

	if len(posID) != PositionIDLength {
		return board, ErrInvalidPositionID
	}

	ach := make([]uint8, PositionIDLength)
	for i := 0; i < PositionIDLength; i++ {
		ach[i] = base64Decode(posID[i])
		if ach[i] == 255 {
			return board, ErrInvalidPositionID
		}
	}

	pch := ach
	for i := 0; i < idBytes; i += 3 {
		data[i] = (pch[0] << 2) | (pch[1] >> 4)
		data[i+1] = (pch[1] << 4) | (pch[2] >> 2)
		data[i+2] = (pch[2] << 6) | pch[3]
		pch = pch[4:]
	}

	board = unpackBoard(data)
	if !CheckPosition(board) {
		return board, ErrInvalidPositionID
	}
	return board, nil
}

// CheckPosition validates that every cell holds a known code
func CheckPosition(board Board) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if board[row][col] > MaxCell {
				return false
			}
		}
	}
	return true
}

// Diagram renders the board as eight '/'-separated rows of symbols
func Diagram(board Board) string {
	var sb strings.Builder
	sb.Grow(NumCells + Size - 1)
	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := 0; col < Size; col++ {
			c := board[row][col]
			if c > MaxCell {
				c = CodeEmpty
			}
			sb.WriteByte(symbols[c])
		}
	}
	return sb.String()
}

// ParseDiagram parses a board diagram. Rows may be separated by '/' or newlines.
func ParseDiagram(s string) (Board, error) {
	var board Board
	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n' || r == '\r'
	})
	if len(rows) != Size {
		return board, ErrInvalidDiagram
	}
	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != Size {
			return board, ErrInvalidDiagram
		}
		for col := 0; col < Size; col++ {
			idx := strings.IndexByte(symbols, line[col])
			if idx < 0 {
				return board, ErrInvalidDiagram
			}
			board[row][col] = uint8(idx)
		}
	}
	return board, nil
}

// Parse accepts either a position ID or a diagram
func Parse(s string) (Board, error) {
	s = strings.TrimSpace(s)
	// IDs may contain '/', so length decides
	if len(s) == PositionIDLength {
		return BoardFromPositionID(s)
	}
	return ParseDiagram(s)
}

// EqualBoards returns true if two boards are identical
func EqualBoards(b1, b2 Board) bool {
	return b1 == b2
}
