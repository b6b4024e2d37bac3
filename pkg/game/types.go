// Package game provides game records for checkers: the bulk input stream,
// transcript import/export and replay from the starting board.
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/checkers/pkg/engine"
)

// Command is the single-character token that ends a bulk move list.
type Command byte

const (
	CommandNone       Command = 0
	CommandPredictOne Command = 'A' // Predict the next move
	CommandPredictTen Command = 'P' // Predict the next ten moves
)

// Predictions returns how many engine moves the command asks for.
// Unknown commands ask for none.
func (c Command) Predictions() int {
	switch c {
	case CommandPredictOne:
		return engine.PredictOne
	case CommandPredictTen:
		return engine.PredictTen
	}
	return 0
}

// String returns the command character, or "" for CommandNone.
func (c Command) String() string {
	if c == CommandNone {
		return ""
	}
	return string(rune(c))
}

// Record is a game between two players, starting from the standard board
// with Black to move.
type Record struct {
	ID      string        // Record ID (UUID)
	Black   string        // Name of the black player
	White   string        // Name of the white player
	Date    string        // Game date (YYYY-MM-DD format)
	Event   string        // Event name
	Moves   []engine.Move // Moves in turn order, Black first
	Command Command       // Trailing bulk command, if any
}

// NewRecord creates a new empty record with a fresh ID.
func NewRecord(black, white string) *Record {
	return &Record{
		ID:    uuid.NewString(),
		Black: black,
		White: white,
		Date:  time.Now().Format("2006-01-02"),
		Moves: make([]engine.Move, 0),
	}
}

// AddMove appends a move for the next player.
func (r *Record) AddMove(m engine.Move) {
	r.Moves = append(r.Moves, m)
}

// NextTurn returns the 1-indexed turn after the recorded moves.
func (r *Record) NextTurn() int {
	return len(r.Moves) + 1
}

// NextPlayer returns the player to move after the recorded moves.
func (r *Record) NextPlayer() engine.Player {
	return engine.ForTurn(r.NextTurn())
}
