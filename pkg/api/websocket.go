package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "evaluate", "move", "legal", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client. Messages are handled in
// the order they arrive.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for interactive analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer close(c.sendChan)
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "evaluate":
		c.handleEvaluate(msg)
	case "move":
		c.handleMove(msg)
	case "legal":
		c.handleLegal(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendError(msg, "unknown message type")
	}
}

func (c *WSClient) sendError(msg WSMessage, text string) {
	c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: text}
}

func (c *WSClient) handleEvaluate(msg WSMessage) {
	var req EvaluateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendError(msg, "invalid payload")
		return
	}
	board, err := engine.ParseBoard(req.Position)
	if err != nil {
		c.sendError(msg, "invalid position")
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: evaluate(board)}
}

func (c *WSClient) handleMove(msg WSMessage) {
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendError(msg, "invalid payload")
		return
	}
	board, err := engine.ParseBoard(req.Position)
	if err != nil {
		c.sendError(msg, "invalid position")
		return
	}
	player, err := parsePlayer(req.Player)
	if err != nil {
		c.sendError(msg, err.Error())
		return
	}

	e := c.handlers.engine
	depth := req.Depth
	if depth == 0 {
		depth = e.Depth()
	}
	if depth < 0 || depth > MaxDepth {
		c.sendError(msg, "invalid depth")
		return
	}

	if pool := c.handlers.pool; pool != nil {
		release, ok := pool.TryAcquire(classForDepth(depth))
		if !ok {
			c.sendError(msg, "server busy")
			return
		}
		defer release()
	}

	res := e.BestMoveDepth(board, player, depth)
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: ResultToResponse(res, depth)}
}

func (c *WSClient) handleLegal(msg WSMessage) {
	var req LegalRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendError(msg, "invalid payload")
		return
	}
	board, err := engine.ParseBoard(req.Position)
	if err != nil {
		c.sendError(msg, "invalid position")
		return
	}
	player, err := parsePlayer(req.Player)
	if err != nil {
		c.sendError(msg, err.Error())
		return
	}
	m, err := engine.ParseMove(req.Move)
	if err != nil {
		c.sendError(msg, "invalid move")
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: checkLegal(&board, m, player)}
}
