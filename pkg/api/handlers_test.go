package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/checkers/internal/logging"
	"github.com/yourusername/checkers/pkg/engine"
)

// Keep debug output of the code under test out of the test log
func TestMain(m *testing.M) {
	if err := logging.ConfigureWriter(io.Discard, "disabled", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// getTestEngine returns a shallow engine so searches stay fast
func getTestEngine() *engine.Engine {
	return engine.NewEngine(engine.EngineOptions{Depth: 1})
}

func newTestServer() *Server {
	return NewServer(getTestEngine(), DefaultConfig(), "test-version")
}

func initialPosition() string {
	b := engine.NewBoard()
	return b.PositionID()
}

// do sends a request through the full router and returns the recorder
func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var resp ErrorResponse
	decode(t, w, &resp)
	require.Equal(t, code, resp.Code)
	require.NotEmpty(t, resp.Error)
}

func TestHealthHandler(t *testing.T) {
	h := NewHandlers(nil, "test-version")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	decode(t, w, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test-version", health.Version)
	require.False(t, health.Ready)
	require.Nil(t, health.Pool)
}

func TestHealthThroughRouter(t *testing.T) {
	s := newTestServer()
	w := do(t, s.Routes(), "GET", "/api/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))

	var health HealthResponse
	decode(t, w, &health)
	require.True(t, health.Ready)
	require.Equal(t, 1, health.Depth)
	require.NotNil(t, health.Pool)
	require.Equal(t, 4, health.Pool.MaxSlow)
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestServer().Routes(), "OPTIONS", "/api/move", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestEvaluateHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/evaluate", EvaluateRequest{Position: initialPosition()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp EvaluateResponse
	decode(t, w, &resp)
	require.Equal(t, initialPosition(), resp.Position)
	require.Equal(t, 0, resp.Cost)
	require.Equal(t, 12, resp.BlackPieces)
	require.Equal(t, 12, resp.WhitePieces)
	require.Equal(t, 0, resp.BlackTowers)
	require.Equal(t, 7, resp.BlackMoves)
	require.Equal(t, 7, resp.WhiteMoves)
}

func TestEvaluateAcceptsDiagram(t *testing.T) {
	b := engine.NewBoard()
	b.Set(0, 5, engine.Empty)

	w := do(t, newTestServer().Routes(), "POST", "/api/evaluate", EvaluateRequest{Position: b.Diagram()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp EvaluateResponse
	decode(t, w, &resp)
	require.Equal(t, -1, resp.Cost)
	require.Equal(t, b.PositionID(), resp.Position)
}

func TestEvaluateErrors(t *testing.T) {
	router := newTestServer().Routes()

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"invalid json", "{not json", CodeInvalidJSON},
		{"missing position", EvaluateRequest{}, CodeMissingPosition},
		{"invalid position", EvaluateRequest{Position: "garbage"}, CodeInvalidPosition},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, "POST", "/api/evaluate", tc.body)
			requireError(t, w, http.StatusBadRequest, tc.code)
		})
	}
}

func TestLegalHandler(t *testing.T) {
	router := newTestServer().Routes()

	tests := []struct {
		name   string
		player string
		move   string
		legal  bool
		err    string
		reason string
	}{
		{"black step", "black", "A6-B5", true, "", ""},
		{"default player", "", "A6B5", true, "", ""},
		{"white step", "White", "B3-C4", true, "", ""},
		{"opponent piece", "white", "A6-B5", false, "source cell holds opponent's piece/tower", ""},
		{"straight move", "black", "A6-A5", false, "illegal action", "not a one or two step diagonal"},
		{"empty source", "black", "A5-B4", false, "source cell is empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, "POST", "/api/legal", LegalRequest{
				Position: initialPosition(),
				Player:   tc.player,
				Move:     tc.move,
			})
			require.Equal(t, http.StatusOK, w.Code)

			var resp LegalResponse
			decode(t, w, &resp)
			require.Equal(t, tc.legal, resp.Legal)
			require.Equal(t, tc.err, resp.Error)
			require.Equal(t, tc.reason, resp.Reason)
		})
	}
}

func TestLegalHandlerBadInput(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/legal", LegalRequest{Position: initialPosition(), Player: "red", Move: "A6-B5"})
	requireError(t, w, http.StatusBadRequest, CodeInvalidPlayer)

	w = do(t, router, "POST", "/api/legal", LegalRequest{Position: initialPosition(), Move: "A6"})
	requireError(t, w, http.StatusBadRequest, CodeInvalidMove)
}

func TestApplyHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/apply", LegalRequest{Position: initialPosition(), Move: "A6-B5"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ApplyResponse
	decode(t, w, &resp)
	require.Equal(t, "A6-B5", resp.Move)
	require.Equal(t, "black", resp.Player)
	require.False(t, resp.Capture)

	want := engine.NewBoard()
	engine.Apply(&want, engine.MustParseMove("A6-B5"), engine.Black)
	require.Equal(t, want.PositionID(), resp.Board.Position)

	w = do(t, router, "POST", "/api/apply", LegalRequest{Position: initialPosition(), Move: "A6-B7"})
	requireError(t, w, http.StatusUnprocessableEntity, CodeIllegalMove)
}

func TestMoveHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/move", MoveRequest{Position: initialPosition(), Player: "black"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp MoveResponse
	decode(t, w, &resp)
	require.Equal(t, "A6-B5", resp.Move)
	require.Equal(t, 1, resp.Depth)
	require.Empty(t, resp.Winner)
	require.Positive(t, resp.Nodes)

	w = do(t, router, "POST", "/api/move", MoveRequest{Position: initialPosition(), Depth: MaxDepth + 1})
	requireError(t, w, http.StatusBadRequest, CodeInvalidDepth)
}

func TestMoveHandlerDecided(t *testing.T) {
	var b engine.Board
	b.Set(0, 5, engine.BlackPiece)

	w := do(t, newTestServer().Routes(), "POST", "/api/move", MoveRequest{Position: b.PositionID(), Player: "white"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp MoveResponse
	decode(t, w, &resp)
	require.Empty(t, resp.Move)
	require.Equal(t, "black", resp.Winner)
}

func TestAnalyzeHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/analyze", AnalyzeRequest{Position: initialPosition(), NumMoves: 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	decode(t, w, &resp)
	require.Equal(t, "black", resp.Player)
	require.Equal(t, 7, resp.NumLegal)
	require.Len(t, resp.Moves, 3)
	require.Equal(t, "A6-B5", resp.Moves[0].Move)
}

func TestPredictHandler(t *testing.T) {
	w := do(t, newTestServer().Routes(), "POST", "/api/predict", PredictRequest{Count: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp PredictResponse
	decode(t, w, &resp)
	require.Len(t, resp.Steps, 2)
	require.Equal(t, "A6-B5", resp.Steps[0].Move)
	require.Equal(t, "black", resp.Steps[0].Player)
	require.Equal(t, "B3-C4", resp.Steps[1].Move)
	require.Equal(t, "white", resp.Steps[1].Player)
	require.Equal(t, 3, resp.Turn)
	require.Empty(t, resp.Winner)
}

func TestPredictHandlerTooMany(t *testing.T) {
	w := do(t, newTestServer().Routes(), "POST", "/api/predict", PredictRequest{Count: MaxPredictions + 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictServerBusy(t *testing.T) {
	s := newTestServer()
	router := s.Routes()

	var releases []func()
	for {
		release, ok := s.Pool().TryAcquire(Slow)
		if !ok {
			break
		}
		releases = append(releases, release)
	}
	defer func() {
		for _, release := range releases {
			release()
		}
	}()

	w := do(t, router, "POST", "/api/predict", PredictRequest{})
	requireError(t, w, http.StatusServiceUnavailable, CodeServerBusy)

	// Fast requests still go through
	w = do(t, router, "POST", "/api/evaluate", EvaluateRequest{Position: initialPosition()})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReplayHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/replay", ReplayRequest{Moves: []string{"A6-B5", "B3-C4"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReplayResponse
	decode(t, w, &resp)
	require.Equal(t, 3, resp.Turn)
	require.Equal(t, "black", resp.Player)
	require.Nil(t, resp.Prediction)

	w = do(t, router, "POST", "/api/replay", ReplayRequest{Moves: []string{"A6-B5"}, Command: "A"})
	require.Equal(t, http.StatusOK, w.Code)

	resp = ReplayResponse{}
	decode(t, w, &resp)
	require.NotNil(t, resp.Prediction)
	require.Len(t, resp.Prediction.Steps, 1)
	require.Equal(t, "B3-C4", resp.Prediction.Steps[0].Move)
}

func TestReplayHandlerErrors(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/replay", ReplayRequest{Moves: []string{"A6-B5", "A6-B5"}})
	requireError(t, w, http.StatusUnprocessableEntity, CodeIllegalMove)

	w = do(t, router, "POST", "/api/replay", ReplayRequest{Moves: []string{"A6"}})
	requireError(t, w, http.StatusBadRequest, CodeInvalidMove)

	w = do(t, router, "POST", "/api/replay", ReplayRequest{Command: "Z"})
	requireError(t, w, http.StatusBadRequest, CodeInvalidMove)
}

func TestReviewHandler(t *testing.T) {
	router := newTestServer().Routes()

	w := do(t, router, "POST", "/api/review", ReviewRequest{Moves: []string{"A6-B5", "B3-C4", "B5-A4"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReviewResponse
	decode(t, w, &resp)
	require.Len(t, resp.Moves, 3)
	require.Equal(t, "black", resp.Moves[0].Player)
	require.Equal(t, "white", resp.Moves[1].Player)
	require.Equal(t, 2, resp.Black.TotalMoves)
	require.Equal(t, 1, resp.White.TotalMoves)

	w = do(t, router, "POST", "/api/review", ReviewRequest{Moves: []string{"A6-B5", "A6-B5"}})
	requireError(t, w, http.StatusUnprocessableEntity, CodeIllegalMove)
}

func TestPredictSSE(t *testing.T) {
	w := do(t, newTestServer().Routes(), "GET", "/api/predict/stream?count=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	require.Equal(t, 2, strings.Count(body, "event: step\n"))
	require.Contains(t, body, "event: result\n")
	require.True(t, strings.HasSuffix(body, "event: done\n\n"))
}

func TestPredictSSEInvalidPosition(t *testing.T) {
	w := do(t, newTestServer().Routes(), "GET", "/api/predict/stream?position=garbage", nil)
	require.Contains(t, w.Body.String(), "event: error\n")
}

type wsReply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

func TestWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))

	send := func(typ, id string, payload interface{}) wsReply {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(WSMessage{Type: typ, ID: id, Payload: raw}))

		var reply wsReply
		require.NoError(t, conn.ReadJSON(&reply))
		require.Equal(t, id, reply.ID)
		return reply
	}

	reply := send("ping", "1", nil)
	require.Equal(t, "pong", reply.Type)

	reply = send("evaluate", "2", EvaluateRequest{Position: initialPosition()})
	require.Equal(t, "result", reply.Type)
	var eval EvaluateResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &eval))
	require.Equal(t, 7, eval.BlackMoves)

	reply = send("move", "3", MoveRequest{Position: initialPosition()})
	require.Equal(t, "result", reply.Type)
	var mv MoveResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &mv))
	require.Equal(t, "A6-B5", mv.Move)

	reply = send("legal", "4", LegalRequest{Position: initialPosition(), Player: "white", Move: "A6-B5"})
	require.Equal(t, "result", reply.Type)
	var legal LegalResponse
	require.NoError(t, json.Unmarshal(reply.Payload, &legal))
	require.False(t, legal.Legal)

	reply = send("evaluate", "5", EvaluateRequest{Position: "garbage"})
	require.Equal(t, "error", reply.Type)
	require.Equal(t, "invalid position", reply.Error)

	reply = send("resign", "6", nil)
	require.Equal(t, "error", reply.Type)
	require.Equal(t, "unknown message type", reply.Error)
}
