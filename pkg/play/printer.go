// Package play provides the console modes: bulk replay with predictions and
// interactive play against the engine.
package play

import (
	"errors"
	"fmt"
	"io"

	"github.com/yourusername/checkers/pkg/engine"
)

// Banner is printed before the mode prompt.
const Banner = "_________ .__                   __         \n" +
	"\\_   ___ \\|  |__   ____   ____ |  | __ ___________  ______\n" +
	"/    \\  \\/|  |  \\_/ __ \\_/ ___\\|  |/ // __ \\_  __ \\/  ___/\n" +
	"\\     \\___|   Y  \\  ___/\\  \\___|    <\\  ___/|  | \\/\\___ \\ \n" +
	" \\______  /___|  /\\___  >\\___  >__|_ \\___  >__|  /____  >\n" +
	"        \\/     \\/     \\/     \\/     \\/    \\/          \\/ \n"

// Board layout
const (
	divider        = "=====================================\n"
	colDisplay     = "     A   B   C   D   E   F   G   H\n"
	cellDivider    = "|"
	rowDivider     = "   +---+---+---+---+---+---+---+---+\n"
	computedMarker = "*** "
)

// Error lines, one per rule violation
const (
	msgSourceOutOfBounds = "ERROR: Source cell is outside of the board."
	msgTargetOutOfBounds = "ERROR: Target cell is outside of the board."
	msgSourceEmpty       = "ERROR: Source cell is empty."
	msgTargetOccupied    = "ERROR: Target cell is not empty."
	msgOpponentPiece     = "ERROR: Source cell holds opponent's piece/tower."
	msgIllegalAction     = "ERROR: Illegal action."
)

// Printer writes game output in the console format.
// Write errors are sticky: after the first one nothing more is written and
// Err reports it.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Setup prints the board size, the piece counts and the board.
func (p *Printer) Setup(b engine.Board) {
	p.printf("BOARD SIZE: %dx%d\n", engine.Size, engine.Size)
	p.printf("#BLACK PIECES: %d\n", b.Count(engine.BlackPiece))
	p.printf("#WHITE PIECES: %d\n", b.Count(engine.WhitePiece))
	p.Board(b)
}

// Board prints the grid, row 1 at the top.
func (p *Printer) Board(b engine.Board) {
	p.printf(colDisplay)
	p.printf(rowDivider)
	for row := 0; row < engine.Size; row++ {
		p.printf(" %d ", row+1)
		for col := 0; col < engine.Size; col++ {
			p.printf(cellDivider)
			p.printf(" %c ", b.At(col, row).Symbol())
		}
		p.printf(cellDivider)
		p.printf("\n")
		p.printf(rowDivider)
	}
}

// Action prints a played move, the board cost after it and the board.
// Engine moves are marked as computed.
func (p *Printer) Action(m engine.Move, turn int, b engine.Board, computed bool) {
	p.printf(divider)
	if computed {
		p.printf(computedMarker)
	}
	p.printf("%s ACTION #%d: ", engine.ForTurn(turn), turn)
	p.printf("%s\n", m)
	p.printf("BOARD COST: %d\n", b.Evaluate())
	p.Board(b)
}

// Winner prints the win line for the player.
func (p *Printer) Winner(w engine.Player) {
	p.printf("%s WIN!\n", w)
}

// Error prints the error line for a rule violation.
func (p *Printer) Error(err error) {
	p.printf("%s\n", ErrorMessage(err))
}

// ErrorMessage returns the console line for a rule violation.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrSourceOutOfBounds):
		return msgSourceOutOfBounds
	case errors.Is(err, engine.ErrTargetOutOfBounds):
		return msgTargetOutOfBounds
	case errors.Is(err, engine.ErrSourceEmpty):
		return msgSourceEmpty
	case errors.Is(err, engine.ErrTargetOccupied):
		return msgTargetOccupied
	case errors.Is(err, engine.ErrOpponentPiece):
		return msgOpponentPiece
	}
	return msgIllegalAction
}
