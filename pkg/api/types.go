// Package api provides the HTTP/JSON analysis API for the checkers engine.
package api

import "github.com/yourusername/checkers/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// EvaluateRequest is the request body for position evaluation.
type EvaluateRequest struct {
	Position string `json:"position"` // Position ID or diagram
}

// LegalRequest is the request body for move validation and application.
type LegalRequest struct {
	Position string `json:"position"`         // Position ID or diagram
	Player   string `json:"player,omitempty"` // "black" or "white" (default black)
	Move     string `json:"move"`             // Move, e.g. "B4-C5"
}

// MoveRequest is the request body for finding the best move.
type MoveRequest struct {
	Position string `json:"position"`         // Position ID or diagram
	Player   string `json:"player,omitempty"` // Side to move (default black)
	Depth    int    `json:"depth,omitempty"`  // Search depth (0 = engine default)
}

// AnalyzeRequest is the request body for ranking every legal move.
type AnalyzeRequest struct {
	Position string `json:"position"`            // Position ID or diagram
	Player   string `json:"player,omitempty"`    // Side to move (default black)
	NumMoves int    `json:"num_moves,omitempty"` // Max moves to return (0 = all)
}

// PredictRequest is the request body for engine self-play.
type PredictRequest struct {
	Position string `json:"position,omitempty"` // Start position (default starting board)
	Turn     int    `json:"turn,omitempty"`     // 1-indexed turn to play first (default 1)
	Count    int    `json:"count,omitempty"`    // Number of moves (default 1)
}

// ReplayRequest is the request body for replaying a bulk move list.
type ReplayRequest struct {
	Moves   []string `json:"moves"`             // Moves from the starting board, Black first
	Command string   `json:"command,omitempty"` // "A" or "P" to predict after the moves
}

// ReviewRequest is the request body for reviewing a whole game.
type ReviewRequest struct {
	Moves []string `json:"moves"` // Moves from the starting board, Black first
}

// ============================================================================
// Response Types
// ============================================================================

// BoardResponse describes a board.
type BoardResponse struct {
	Position    string `json:"position"` // Position ID
	Diagram     string `json:"diagram"`  // Text diagram, row 1 first
	Cost        int    `json:"cost"`     // Material cost, positive favors Black
	BlackPieces int    `json:"black_pieces"`
	WhitePieces int    `json:"white_pieces"`
	BlackTowers int    `json:"black_towers"`
	WhiteTowers int    `json:"white_towers"`
}

// EvaluateResponse is the response for position evaluation.
type EvaluateResponse struct {
	BoardResponse
	BlackMoves int `json:"black_moves"` // Legal moves for Black
	WhiteMoves int `json:"white_moves"` // Legal moves for White
}

// LegalResponse is the response for move validation.
type LegalResponse struct {
	Move   string `json:"move"`
	Player string `json:"player"`
	Legal  bool   `json:"legal"`
	Error  string `json:"error,omitempty"`  // Violated rule
	Reason string `json:"reason,omitempty"` // Detail behind "illegal action"
}

// ApplyResponse is the response for applying a move.
type ApplyResponse struct {
	Move    string        `json:"move"`
	Player  string        `json:"player"`
	Capture bool          `json:"capture"`
	Board   BoardResponse `json:"board"`
}

// MoveResponse is the response for a best move search.
type MoveResponse struct {
	Move   string `json:"move,omitempty"`   // Best move, empty when none was found
	Cost   int    `json:"cost"`             // Minimax cost
	Winner string `json:"winner,omitempty"` // Set when the cost is a win sentinel
	Depth  int    `json:"depth"`
	Nodes  int64  `json:"nodes"`
}

// RankedMove is a single move in an analysis.
type RankedMove struct {
	Move string `json:"move"`
	Cost int    `json:"cost"`
}

// AnalyzeResponse is the response for move analysis.
type AnalyzeResponse struct {
	Player   string       `json:"player"`
	Moves    []RankedMove `json:"moves"`     // Best first
	NumLegal int          `json:"num_legal"` // Total legal moves
	Depth    int          `json:"depth"`
}

// StepResponse is one predicted move.
type StepResponse struct {
	Turn       int    `json:"turn"`
	Player     string `json:"player"`
	Move       string `json:"move"`
	SearchCost int    `json:"search_cost"`
	BoardCost  int    `json:"board_cost"` // Cost after the move
}

// PredictResponse is the response for engine self-play.
type PredictResponse struct {
	Steps  []StepResponse `json:"steps"`
	Board  BoardResponse  `json:"board"` // Board after the last step
	Turn   int            `json:"turn"`  // Next turn
	Winner string         `json:"winner,omitempty"`
}

// ReplayResponse is the response for a replayed move list.
type ReplayResponse struct {
	Board      BoardResponse    `json:"board"`
	Turn       int              `json:"turn"`   // Next turn
	Player     string           `json:"player"` // Side to move
	Prediction *PredictResponse `json:"prediction,omitempty"`
}

// MoveReviewResponse is the review of one played move.
type MoveReviewResponse struct {
	Turn       int    `json:"turn"`
	Player     string `json:"player"`
	Played     string `json:"played"`
	Best       string `json:"best"`
	PlayedCost int    `json:"played_cost"`
	BestCost   int    `json:"best_cost"`
	Loss       int    `json:"loss"`
	Skill      string `json:"skill"`
	Forced     bool   `json:"forced"`
}

// ReviewResponse is the response for a game review.
type ReviewResponse struct {
	Moves []MoveReviewResponse `json:"moves"`
	Black engine.PlayerReview  `json:"black"`
	White engine.PlayerReview  `json:"white"`
	Board BoardResponse        `json:"board"` // Final board
}

// HealthResponse is the response for health checks.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Ready   bool       `json:"ready"`
	Depth   int        `json:"depth,omitempty"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes
const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeMissingPosition = "MISSING_POSITION"
	CodeInvalidPosition = "INVALID_POSITION"
	CodeInvalidPlayer   = "INVALID_PLAYER"
	CodeInvalidMove     = "INVALID_MOVE"
	CodeIllegalMove     = "ILLEGAL_MOVE"
	CodeInvalidDepth    = "INVALID_DEPTH"
	CodeServerBusy      = "SERVER_BUSY"
	CodeCancelled       = "CANCELLED"
)

// ============================================================================
// Conversion helpers
// ============================================================================

// BoardToResponse converts a board for the API.
func BoardToResponse(b engine.Board) BoardResponse {
	counts := b.Counts()
	return BoardResponse{
		Position:    b.PositionID(),
		Diagram:     b.Diagram(),
		Cost:        b.Evaluate(),
		BlackPieces: counts[engine.BlackPiece],
		WhitePieces: counts[engine.WhitePiece],
		BlackTowers: counts[engine.BlackTower],
		WhiteTowers: counts[engine.WhiteTower],
	}
}

// StepToResponse converts a predicted step for the API.
func StepToResponse(s engine.Step) StepResponse {
	return StepResponse{
		Turn:       s.Turn,
		Player:     playerName(s.Player),
		Move:       s.Move.String(),
		SearchCost: s.SearchCost,
		BoardCost:  s.BoardCost,
	}
}

// PredictionToResponse converts a prediction for the API.
func PredictionToResponse(p *engine.Prediction) *PredictResponse {
	resp := &PredictResponse{
		Steps: make([]StepResponse, len(p.Steps)),
		Board: BoardToResponse(p.Board),
		Turn:  p.Turn,
	}
	for i, s := range p.Steps {
		resp.Steps[i] = StepToResponse(s)
	}
	if p.Decided {
		resp.Winner = playerName(p.Winner)
	}
	return resp
}

// ResultToResponse converts a search result for the API.
func ResultToResponse(r engine.Result, depth int) MoveResponse {
	resp := MoveResponse{Cost: r.Cost, Depth: depth, Nodes: r.Nodes}
	if r.HasMove {
		resp.Move = r.Move.String()
	}
	if w, ok := r.Winner(); ok {
		resp.Winner = playerName(w)
	}
	return resp
}

// ReviewToResponse converts a game review for the API.
func ReviewToResponse(gr *engine.GameReview) ReviewResponse {
	resp := ReviewResponse{
		Moves: make([]MoveReviewResponse, len(gr.Moves)),
		Black: gr.Players[engine.Black],
		White: gr.Players[engine.White],
		Board: BoardToResponse(gr.Final),
	}
	for i, mr := range gr.Moves {
		resp.Moves[i] = MoveReviewResponse{
			Turn:       i + 1,
			Player:     playerName(mr.Player),
			Played:     mr.Played.String(),
			Best:       mr.Best.String(),
			PlayedCost: mr.PlayedCost,
			BestCost:   mr.BestCost,
			Loss:       mr.Loss,
			Skill:      mr.Skill.String(),
			Forced:     mr.IsForced,
		}
	}
	return resp
}
