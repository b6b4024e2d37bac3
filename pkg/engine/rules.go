package engine

import "errors"

// Step lengths
const (
	MoveStep    = 1 // a normal move
	CaptureStep = 2 // a capture jumps over one cell
)

// Rule violations, reported by Check in this order.
var (
	ErrSourceOutOfBounds = errors.New("source cell is outside of the board")
	ErrTargetOutOfBounds = errors.New("target cell is outside of the board")
	ErrSourceEmpty       = errors.New("source cell is empty")
	ErrTargetOccupied    = errors.New("target cell is not empty")
	ErrOpponentPiece     = errors.New("source cell holds opponent's piece/tower")

	// ErrIllegalAction matches the direction, geometry and capture violations
	ErrIllegalAction = errors.New("illegal action")

	ErrIllegalDirection error = &actionError{reason: "piece moving backward"}
	ErrIllegalGeometry  error = &actionError{reason: "not a one or two step diagonal"}
	ErrIllegalCapture   error = &actionError{reason: "no opponent piece to capture"}
)

// actionError is a movement violation. All of them print as "illegal action".
type actionError struct {
	reason string
}

func (e *actionError) Error() string { return ErrIllegalAction.Error() }

func (e *actionError) Unwrap() error { return ErrIllegalAction }

// Reason returns the specific cause behind an illegal action, or "" when err
// is not a movement violation.
func Reason(err error) string {
	var ae *actionError
	if errors.As(err, &ae) {
		return ae.reason
	}
	return ""
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Check validates a move for the player and returns the first violated rule,
// or nil when the move is legal.
func Check(b *Board, m Move, player Player) error {
	if !InBounds(m.SrcCol, m.SrcRow) {
		return ErrSourceOutOfBounds
	}
	if !InBounds(m.TgtCol, m.TgtRow) {
		return ErrTargetOutOfBounds
	}

	src := b.At(m.SrcCol, m.SrcRow)
	if src == Empty {
		return ErrSourceEmpty
	}
	if b.At(m.TgtCol, m.TgtRow) != Empty {
		return ErrTargetOccupied
	}
	if owner, _ := src.Owner(); owner != player {
		return ErrOpponentPiece
	}

	// Only plain pieces are bound to their forward direction
	rowDiff := m.TgtRow - m.SrcRow
	if (rowDiff > 0 && src == BlackPiece) || (rowDiff < 0 && src == WhitePiece) {
		return ErrIllegalDirection
	}

	colDiff := m.TgtCol - m.SrcCol
	if abs(rowDiff) != abs(colDiff) || abs(rowDiff) > CaptureStep || abs(rowDiff) < MoveStep {
		return ErrIllegalGeometry
	}

	if abs(rowDiff) == CaptureStep {
		capCol, capRow := m.Midpoint()
		owner, ok := b.At(capCol, capRow).Owner()
		if !ok || owner == player {
			return ErrIllegalCapture
		}
	}

	return nil
}

// IsLegal reports whether the player may make the move
func IsLegal(b *Board, m Move, player Player) bool {
	return Check(b, m, player) == nil
}

// Apply performs a move in place. The move must already have passed Check;
// Apply does no validation of its own.
func Apply(b *Board, m Move, player Player) {
	if m.TgtRow == player.PromotionRow() {
		b.Set(m.TgtCol, m.TgtRow, player.Tower())
	} else {
		b.Set(m.TgtCol, m.TgtRow, b.At(m.SrcCol, m.SrcRow))
	}

	b.Set(m.SrcCol, m.SrcRow, Empty)

	if m.IsCapture() {
		capCol, capRow := m.Midpoint()
		b.Set(capCol, capRow, Empty)
	}
}
