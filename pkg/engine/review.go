package engine

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PlayerReview contains review stats for one player across a game.
type PlayerReview struct {
	Name       string  `json:"name"`
	TotalMoves int     `json:"total_moves"`
	Unforced   int     `json:"unforced"`    // Moves with a real choice
	TotalLoss  float64 `json:"total_loss"`  // Sum of material lost
	MeanLoss   float64 `json:"mean_loss"`   // Average loss per unforced move
	StdDevLoss float64 `json:"stddev_loss"` // Spread of the loss
	WorstLoss  float64 `json:"worst_loss"`
	Blunders   int     `json:"blunders"` // Very bad
	Errors     int     `json:"errors"`   // Bad
	Doubtful   int     `json:"doubtful"` // Doubtful
}

// GameReview is the tutor's review of a whole game
type GameReview struct {
	Moves   []MoveReview             `json:"-"`
	Players [NumPlayers]PlayerReview `json:"players"` // Indexed by Player
	Final   Board                    `json:"-"`
}

// ReviewGame replays moves from the starting board, alternating from Black,
// and reviews each one. An illegal move aborts the review with an error
// naming its turn. The context is checked between moves.
func (e *Engine) ReviewGame(ctx context.Context, moves []Move) (*GameReview, error) {
	gr := &GameReview{
		Moves: make([]MoveReview, 0, len(moves)),
		Final: NewBoard(),
	}
	gr.Players[Black].Name = Black.String()
	gr.Players[White].Name = White.String()

	var losses [NumPlayers][]float64

	for i, m := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		turn := i + 1
		player := ForTurn(turn)

		mr, err := e.ReviewMove(gr.Final, player, m)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", turn, err)
		}
		Apply(&gr.Final, m, player)
		gr.Moves = append(gr.Moves, *mr)

		ps := &gr.Players[player]
		ps.TotalMoves++
		if mr.IsForced {
			continue
		}
		ps.Unforced++
		losses[player] = append(losses[player], float64(mr.Loss))

		switch mr.Skill {
		case SkillVeryBad:
			ps.Blunders++
		case SkillBad:
			ps.Errors++
		case SkillDoubtful:
			ps.Doubtful++
		}
	}

	for p := range gr.Players {
		summarizeLosses(&gr.Players[p], losses[p])
	}

	return gr, nil
}

// summarizeLosses fills in the loss statistics of a player
func summarizeLosses(ps *PlayerReview, xs []float64) {
	if len(xs) == 0 {
		return
	}
	ps.TotalLoss = floats.Sum(xs)
	ps.WorstLoss = floats.Max(xs)
	ps.MeanLoss = stat.Mean(xs, nil)
	if len(xs) > 1 {
		ps.StdDevLoss = stat.StdDev(xs, nil)
	}
}
