package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/game"
)

// Request limits
const (
	MaxDepth       = 8  // Deepest search a request may ask for
	MaxPredictions = 50 // Most engine moves a prediction may play
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine  *engine.Engine
	version string
	pool    *WorkerPool
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return &Handlers{
		engine:  e,
		version: version,
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:  e,
		version: version,
		pool:    pool,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("writing response")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// decodeJSON reads the request body into v, writing an error response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), CodeInvalidJSON)
		return false
	}
	return true
}

// playerName is the lower-case wire name of a player.
func playerName(p engine.Player) string {
	return strings.ToLower(p.String())
}

// parsePlayer accepts "black" or "white" in any case. Empty means Black.
func parsePlayer(s string) (engine.Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "black", "b":
		return engine.Black, nil
	case "white", "w":
		return engine.White, nil
	}
	return engine.Black, fmt.Errorf("unknown player %q", s)
}

// parsePosition decodes a position ID or diagram, writing an error response
// on failure.
func parsePosition(w http.ResponseWriter, s string) (engine.Board, bool) {
	if s == "" {
		writeError(w, http.StatusBadRequest, "position is required", CodeMissingPosition)
		return engine.Board{}, false
	}
	b, err := engine.ParseBoard(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidPosition)
		return engine.Board{}, false
	}
	return b, true
}

// parseMoves parses a move list, writing an error response on failure.
func parseMoves(w http.ResponseWriter, list []string) ([]engine.Move, bool) {
	moves := make([]engine.Move, 0, len(list))
	for i, s := range list {
		m, err := engine.ParseMove(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("move %d: %v", i+1, err), CodeInvalidMove)
			return nil, false
		}
		moves = append(moves, m)
	}
	return moves, true
}

// classForDepth puts searches deeper than the default in the slow pool.
func classForDepth(depth int) Class {
	if depth > engine.DefaultDepth {
		return Slow
	}
	return Fast
}

// acquire takes a worker slot for the request. Fast requests wait for a slot;
// slow requests are refused with 503 when the slow pool is full.
func (h *Handlers) acquire(w http.ResponseWriter, r *http.Request, c Class) (func(), bool) {
	if h.pool == nil {
		return func() {}, true
	}

	if c == Slow {
		release, ok := h.pool.TryAcquire(Slow)
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "server busy, try again later", CodeServerBusy)
			return nil, false
		}
		return release, true
	}

	release, err := h.pool.Acquire(r.Context(), Fast)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting", CodeServerBusy)
		return nil, false
	}
	return release, true
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}
	if h.engine != nil {
		resp.Depth = h.engine.Depth()
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, ok := parsePosition(w, req.Position)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, evaluate(board))
}

func evaluate(board engine.Board) EvaluateResponse {
	return EvaluateResponse{
		BoardResponse: BoardToResponse(board),
		BlackMoves:    len(engine.ValidMoves(&board, engine.Black)),
		WhiteMoves:    len(engine.ValidMoves(&board, engine.White)),
	}
}

// Legal handles POST /api/legal
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	var req LegalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, player, m, ok := parseLegalRequest(w, req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, checkLegal(&board, m, player))
}

func checkLegal(board *engine.Board, m engine.Move, player engine.Player) LegalResponse {
	resp := LegalResponse{Move: m.String(), Player: playerName(player), Legal: true}
	if err := engine.Check(board, m, player); err != nil {
		resp.Legal = false
		resp.Error = err.Error()
		resp.Reason = engine.Reason(err)
	}
	return resp
}

func parseLegalRequest(w http.ResponseWriter, req LegalRequest) (engine.Board, engine.Player, engine.Move, bool) {
	board, ok := parsePosition(w, req.Position)
	if !ok {
		return board, 0, engine.Move{}, false
	}
	player, err := parsePlayer(req.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidPlayer)
		return board, 0, engine.Move{}, false
	}
	m, err := engine.ParseMove(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidMove)
		return board, 0, engine.Move{}, false
	}
	return board, player, m, true
}

// Apply handles POST /api/apply
func (h *Handlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req LegalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, player, m, ok := parseLegalRequest(w, req)
	if !ok {
		return
	}

	if err := engine.Check(&board, m, player); err != nil {
		msg := err.Error()
		if reason := engine.Reason(err); reason != "" {
			msg += ": " + reason
		}
		writeError(w, http.StatusUnprocessableEntity, msg, CodeIllegalMove)
		return
	}
	engine.Apply(&board, m, player)

	writeJSON(w, http.StatusOK, ApplyResponse{
		Move:    m.String(),
		Player:  playerName(player),
		Capture: m.IsCapture(),
		Board:   BoardToResponse(board),
	})
}

// Move handles POST /api/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, ok := parsePosition(w, req.Position)
	if !ok {
		return
	}
	player, err := parsePlayer(req.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidPlayer)
		return
	}
	depth, ok := h.searchDepth(w, req.Depth)
	if !ok {
		return
	}

	release, ok := h.acquire(w, r, classForDepth(depth))
	if !ok {
		return
	}
	defer release()

	res := h.engine.BestMoveDepth(board, player, depth)
	log.Debug().
		Str("player", playerName(player)).
		Int("depth", depth).
		Int64("nodes", res.Nodes).
		Int("cost", res.Cost).
		Msg("best move")

	writeJSON(w, http.StatusOK, ResultToResponse(res, depth))
}

// searchDepth validates a requested depth. Zero selects the engine default.
func (h *Handlers) searchDepth(w http.ResponseWriter, depth int) (int, bool) {
	if depth == 0 {
		return h.engine.Depth(), true
	}
	if depth < 0 || depth > MaxDepth {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("depth must be between 1 and %d", MaxDepth), CodeInvalidDepth)
		return 0, false
	}
	return depth, true
}

// Analyze handles POST /api/analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, ok := parsePosition(w, req.Position)
	if !ok {
		return
	}
	player, err := parsePlayer(req.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidPlayer)
		return
	}

	release, ok := h.acquire(w, r, classForDepth(h.engine.Depth()))
	if !ok {
		return
	}
	defer release()

	analysis := h.engine.AnalyzeMoves(board, player)
	moves := analysis.Moves
	if req.NumMoves > 0 && req.NumMoves < len(moves) {
		moves = moves[:req.NumMoves]
	}

	resp := AnalyzeResponse{
		Player:   playerName(player),
		Moves:    make([]RankedMove, len(moves)),
		NumLegal: analysis.NumMoves,
		Depth:    h.engine.Depth(),
	}
	for i, mc := range moves {
		resp.Moves[i] = RankedMove{Move: mc.Move.String(), Cost: mc.Cost}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Predict handles POST /api/predict
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	board := engine.NewBoard()
	if req.Position != "" {
		var ok bool
		if board, ok = parsePosition(w, req.Position); !ok {
			return
		}
	}
	turn, count, ok := predictParams(w, req.Turn, req.Count)
	if !ok {
		return
	}

	release, ok := h.acquire(w, r, Slow)
	if !ok {
		return
	}
	defer release()

	pred, err := h.engine.Predict(r.Context(), board, turn, count, nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "prediction cancelled", CodeCancelled)
		return
	}

	writeJSON(w, http.StatusOK, PredictionToResponse(pred))
}

// predictParams applies defaults and limits to a prediction's turn and count.
func predictParams(w http.ResponseWriter, turn, count int) (int, int, bool) {
	if turn <= 0 {
		turn = 1
	}
	if count <= 0 {
		count = engine.PredictOne
	}
	if count > MaxPredictions {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be at most %d", MaxPredictions), CodeInvalidJSON)
		return 0, 0, false
	}
	return turn, count, true
}

// Replay handles POST /api/replay
func (h *Handlers) Replay(w http.ResponseWriter, r *http.Request) {
	var req ReplayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	moves, ok := parseMoves(w, req.Moves)
	if !ok {
		return
	}

	rec := game.NewRecord("", "")
	rec.Moves = moves
	switch strings.ToUpper(req.Command) {
	case "":
	case "A":
		rec.Command = game.CommandPredictOne
	case "P":
		rec.Command = game.CommandPredictTen
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown command %q", req.Command), CodeInvalidMove)
		return
	}

	st, err := game.Replay(rec, nil)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), CodeIllegalMove)
		return
	}

	resp := ReplayResponse{
		Board:  BoardToResponse(st.Board),
		Turn:   st.Turn,
		Player: playerName(st.Player()),
	}

	if n := rec.Command.Predictions(); n > 0 {
		release, ok := h.acquire(w, r, Slow)
		if !ok {
			return
		}
		defer release()

		pred, err := h.engine.Predict(r.Context(), st.Board, st.Turn, n, nil)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "prediction cancelled", CodeCancelled)
			return
		}
		resp.Prediction = PredictionToResponse(pred)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Review handles POST /api/review
func (h *Handlers) Review(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	moves, ok := parseMoves(w, req.Moves)
	if !ok {
		return
	}

	release, ok := h.acquire(w, r, Slow)
	if !ok {
		return
	}
	defer release()

	gr, err := h.engine.ReviewGame(r.Context(), moves)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "review cancelled", CodeCancelled)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error(), CodeIllegalMove)
		return
	}

	writeJSON(w, http.StatusOK, ReviewToResponse(gr))
}
