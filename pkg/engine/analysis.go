package engine

import "sort"

// MoveWithCost is a move together with its minimax cost
type MoveWithCost struct {
	Move Move
	Cost int
}

// AnalysisResult contains the result of move analysis
type AnalysisResult struct {
	Player   Player
	Moves    []MoveWithCost // All moves ranked best first for Player
	BestMove Move           // Best move
	BestCost int            // Best cost
	NumMoves int            // Total number of legal moves
	Nodes    int64          // Nodes visited
}

// AnalyzeMoves generates all legal moves, searches each one at the engine
// depth and returns them ranked for the player. Ties keep generation order, so
// the first move matches BestMove whenever BestMove records one.
func (e *Engine) AnalyzeMoves(b Board, player Player) *AnalysisResult {
	moves := ValidMoves(&b, player)

	result := &AnalysisResult{
		Player:   player,
		NumMoves: len(moves),
	}
	if len(moves) == 0 {
		return result
	}

	s := &searcher{maxDepth: e.depth}
	result.Moves = make([]MoveWithCost, len(moves))
	for i, m := range moves {
		result.Moves[i] = MoveWithCost{Move: m, Cost: s.childCost(&b, m, player, rootDepth)}
	}
	result.Nodes = s.nodes

	sort.SliceStable(result.Moves, func(i, j int) bool {
		return better(player, result.Moves[i].Cost, result.Moves[j].Cost)
	})

	result.BestMove = result.Moves[0].Move
	result.BestCost = result.Moves[0].Cost

	return result
}

// RankMoves returns the top n analyzed moves.
// If n <= 0, returns all moves ranked
func (e *Engine) RankMoves(b Board, player Player, n int) []MoveWithCost {
	analysis := e.AnalyzeMoves(b, player)

	if n <= 0 || n > len(analysis.Moves) {
		return analysis.Moves
	}

	return analysis.Moves[:n]
}
