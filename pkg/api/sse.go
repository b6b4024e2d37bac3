package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
)

// PredictSSE streams a prediction as Server-Sent Events, one "step" event per
// engine move, then a "result" event with the final board and a "done" event.
// GET /api/predict/stream?position=...&turn=...&count=...
func (h *Handlers) PredictSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	query := r.URL.Query()
	board := engine.NewBoard()
	if position := query.Get("position"); position != "" {
		var err error
		if board, err = engine.ParseBoard(position); err != nil {
			writeSSEError(w, "invalid position: "+err.Error())
			return
		}
	}

	turn := parseIntParam(query.Get("turn"), 1)
	count := parseIntParam(query.Get("count"), engine.PredictTen)
	if turn <= 0 {
		turn = 1
	}
	if count <= 0 || count > MaxPredictions {
		writeSSEError(w, fmt.Sprintf("count must be between 1 and %d", MaxPredictions))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		release, ok := h.pool.TryAcquire(Slow)
		if !ok {
			writeSSEError(w, "server busy, try again later")
			return
		}
		defer release()
	}

	pred, err := h.engine.Predict(r.Context(), board, turn, count, func(s engine.Step) {
		writeSSEEvent(w, "step", StepToResponse(s))
		flusher.Flush()
	})
	if err != nil {
		log.Debug().Err(err).Int("steps", len(pred.Steps)).Msg("prediction stream closed")
		return
	}

	writeSSEEvent(w, "result", PredictionToResponse(pred))
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}
