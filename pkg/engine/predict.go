package engine

import "context"

// Prediction counts for the bulk commands
const (
	PredictOne = 1  // 'A'
	PredictTen = 10 // 'P'
)

// Step is one engine move of a prediction
type Step struct {
	Turn       int    `json:"turn"`
	Player     Player `json:"-"`
	Move       Move   `json:"-"`
	SearchCost int    `json:"search_cost"`
	BoardCost  int    `json:"board_cost"` // Cost of the board after the move
	Board      Board  `json:"-"`
}

// Prediction is the outcome of Predict
type Prediction struct {
	Steps  []Step
	Board  Board  // Board after the last step
	Turn   int    // Next turn to play
	Winner Player // Valid when Decided is set
	// Decided is set when a search returned a sentinel cost and the
	// prediction stopped early
	Decided bool
}

// StepFunc receives every step as it is played
type StepFunc func(Step)

// Predict lets the engine play up to n moves from the board, starting with
// turn. It stops early when a search reports a sentinel cost (the side to move
// or its opponent has run out of moves) and records the winner. The context is
// checked between moves.
func (e *Engine) Predict(ctx context.Context, b Board, turn, n int, fn StepFunc) (*Prediction, error) {
	p := &Prediction{Board: b, Turn: turn}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return p, err
		}

		player := ForTurn(p.Turn)
		r := e.BestMove(p.Board, player)

		if w, ok := r.Winner(); ok {
			p.Winner = w
			p.Decided = true
			break
		}
		if !r.HasMove {
			break
		}

		Apply(&p.Board, r.Move, player)
		step := Step{
			Turn:       p.Turn,
			Player:     player,
			Move:       r.Move,
			SearchCost: r.Cost,
			BoardCost:  p.Board.Evaluate(),
			Board:      p.Board,
		}
		p.Steps = append(p.Steps, step)
		if fn != nil {
			fn(step)
		}
		p.Turn++
	}

	return p, nil
}
