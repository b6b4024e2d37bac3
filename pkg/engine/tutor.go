// Package engine provides tutor mode for error detection and skill ratings.
package engine

import "fmt"

// SkillType represents the skill rating of a move.
type SkillType int

const (
	SkillVeryBad  SkillType = iota // Blunder: loses >= 3 material
	SkillBad                       // Error: loses 2 material
	SkillDoubtful                  // Doubtful: loses 1 material
	SkillNone                      // Good or best move
)

// String returns the display name of the skill type.
func (s SkillType) String() string {
	return [...]string{"Very Bad", "Bad", "Doubtful", "None"}[s]
}

// Abbr returns the abbreviated notation (?, ??, ?!).
func (s SkillType) Abbr() string {
	return [...]string{"??", "?", "?!", ""}[s]
}

// SkillThresholds are the cost loss thresholds for skill ratings.
// A tower is worth three pieces, so losing one outright is a blunder.
var SkillThresholds = [4]int{
	CostTower, // very bad
	2,         // bad
	CostPiece, // doubtful
	0,         // none
}

// MaxLoss caps the loss of a move that throws away a won game or walks into
// a lost one, so that sentinel costs do not swamp the statistics.
const MaxLoss = 100

// ClassifySkill returns the skill rating based on cost loss.
// loss should be positive for moves worse than best.
func ClassifySkill(loss int) SkillType {
	if loss >= SkillThresholds[0] {
		return SkillVeryBad
	} else if loss >= SkillThresholds[1] {
		return SkillBad
	} else if loss >= SkillThresholds[2] {
		return SkillDoubtful
	}
	return SkillNone
}

// MoveReview is the tutor's verdict on a played move
type MoveReview struct {
	Player     Player    `json:"-"`
	Played     Move      `json:"-"`
	Best       Move      `json:"-"`
	PlayedCost int       `json:"played_cost"`
	BestCost   int       `json:"best_cost"`
	Loss       int       `json:"loss"` // Capped at MaxLoss
	Skill      SkillType `json:"skill"`
	IsForced   bool      `json:"is_forced"` // Only one legal move
	NumMoves   int       `json:"num_moves"`
}

// lossFor returns how much worse cost is than best for the player, capped at
// MaxLoss
func lossFor(player Player, best, cost int) int {
	d := int64(best) - int64(cost)
	if player == White {
		d = -d
	}
	if d < 0 {
		d = 0
	}
	if d > MaxLoss {
		d = MaxLoss
	}
	return int(d)
}

// ReviewMove analyzes a played move against the engine's ranking and
// classifies it. The move must be legal for the player.
func (e *Engine) ReviewMove(b Board, player Player, played Move) (*MoveReview, error) {
	if err := Check(&b, played, player); err != nil {
		return nil, fmt.Errorf("review %s: %w", played, err)
	}

	analysis := e.AnalyzeMoves(b, player)

	review := &MoveReview{
		Player:   player,
		Played:   played,
		Best:     analysis.BestMove,
		BestCost: analysis.BestCost,
		NumMoves: analysis.NumMoves,
		IsForced: analysis.NumMoves == 1,
	}

	for _, mc := range analysis.Moves {
		if mc.Move == played {
			review.PlayedCost = mc.Cost
			break
		}
	}

	review.Loss = lossFor(player, review.BestCost, review.PlayedCost)
	review.Skill = ClassifySkill(review.Loss)
	return review, nil
}
