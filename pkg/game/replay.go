package game

import (
	"fmt"

	"github.com/yourusername/checkers/pkg/engine"
)

// ReplayError reports the first illegal move of a replay.
type ReplayError struct {
	Turn   int
	Player engine.Player
	Move   engine.Move
	Err    error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("%s action #%d %s: %v", e.Player, e.Turn, e.Move, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Ply is one applied move of a replay.
type Ply struct {
	Turn   int
	Player engine.Player
	Move   engine.Move
	Board  engine.Board // Board after the move
}

// State is the board reached by a replay and the turn to play next.
type State struct {
	Board engine.Board
	Turn  int
}

// Player returns the side to move.
func (s State) Player() engine.Player {
	return engine.ForTurn(s.Turn)
}

// Replay applies the record's moves from the starting board, checking each
// one. fn, if not nil, sees every applied move. On an illegal move Replay
// returns the state before it together with a *ReplayError.
func Replay(rec *Record, fn func(Ply)) (State, error) {
	st := State{Board: engine.NewBoard(), Turn: 1}

	for _, m := range rec.Moves {
		player := st.Player()
		if err := engine.Check(&st.Board, m, player); err != nil {
			return st, &ReplayError{Turn: st.Turn, Player: player, Move: m, Err: err}
		}
		engine.Apply(&st.Board, m, player)
		if fn != nil {
			fn(Ply{Turn: st.Turn, Player: player, Move: m, Board: st.Board})
		}
		st.Turn++
	}

	return st, nil
}
