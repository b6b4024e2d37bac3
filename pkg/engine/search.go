package engine

import "math"

// Search sentinels. A root cost equal to one of them means the side to move
// (or its opponent) runs out of moves within the search horizon.
const (
	Infinity    = math.MaxInt32
	NegInfinity = math.MinInt32
)

const (
	// DefaultDepth is the search depth used when none is configured
	DefaultDepth = 3
	rootDepth    = 0
)

// Result is the outcome of a root search
type Result struct {
	Move    Move  // Best move; meaningful only when HasMove is set
	HasMove bool  // False at depth 0 and when no move beat the sentinel
	Cost    int   // Minimax cost, or Infinity / NegInfinity
	Nodes   int64 // Number of nodes visited
}

// Winner decodes the sentinel cost: Infinity is a Black win and
// NegInfinity a White win.
func (r Result) Winner() (Player, bool) {
	switch r.Cost {
	case Infinity:
		return Black, true
	case NegInfinity:
		return White, true
	}
	return Black, false
}

// worstCost is the starting value for the player's best cost
func worstCost(p Player) int {
	if p == Black {
		return NegInfinity
	}
	return Infinity
}

// better reports whether cost strictly improves on best for the player.
// Black maximizes, White minimizes; ties keep the earlier move.
func better(p Player, cost, best int) bool {
	if p == Black {
		return cost > best
	}
	return cost < best
}

// searcher holds the per-search state
type searcher struct {
	maxDepth int
	nodes    int64
}

// BestMove runs an exhaustive minimax search to maxDepth plies and returns
// the best root move and its cost. With maxDepth <= 0 it returns the board's
// cost and no move.
func BestMove(b Board, player Player, maxDepth int) Result {
	s := &searcher{maxDepth: maxDepth}
	r := s.minimax(&b, player, rootDepth)
	r.Nodes = s.nodes
	return r
}

// minimax returns the cost of the board for the player to move. The move is
// only recorded at the root; deeper levels pass the cost up.
func (s *searcher) minimax(b *Board, player Player, depth int) Result {
	s.nodes++

	if depth >= s.maxDepth {
		return Result{Cost: b.Evaluate()}
	}

	best := Result{Cost: worstCost(player)}

	for _, m := range ValidMoves(b, player) {
		cost := s.childCost(b, m, player, depth)
		if better(player, cost, best.Cost) {
			if depth == rootDepth {
				best.Move = m
				best.HasMove = true
			}
			best.Cost = cost
		}
	}

	return best
}

// childCost returns the minimax cost of the board after the player's move
// made at the given depth. Analysis calls it with rootDepth to value each
// root move exactly as minimax does.
func (s *searcher) childCost(b *Board, m Move, player Player, depth int) int {
	child := b.Copy()
	Apply(&child, m, player)
	return s.minimax(&child, player.Opponent(), depth+1).Cost
}
