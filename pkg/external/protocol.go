// Package external implements a line-oriented TCP protocol for driving the
// checkers engine from other programs.
//
// Protocol overview:
//   - Server listens on a TCP port
//   - Client connects and sends one command per line
//   - Commands include: version, help, set, eval, best, legal, exit
//   - Positions are position IDs or diagrams
//   - Every response is a single line (help excepted)
package external

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
)

// ProtocolVersion is reported by the version command.
const ProtocolVersion = "checkers line protocol 1.0"

// MaxDepth is the deepest search a connection may select.
const MaxDepth = 8

// Server implements the line protocol server.
type Server struct {
	engine   *engine.Engine
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
	active   map[net.Conn]struct{}
	conns    sync.WaitGroup
}

// ServerOptions configures the protocol server.
type ServerOptions struct {
	Host          string // Host to bind to
	Port          int    // TCP port to listen on (0 picks a free port)
	Depth         int    // Initial search depth for new connections (0 = engine default)
	PromptEnabled bool   // Send prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Host:          "localhost",
		Port:          1234,
		PromptEnabled: true,
	}
}

// NewServer creates a new protocol server.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	return &Server{
		engine:  eng,
		options: opts,
		active:  make(map[net.Conn]struct{}),
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(s.options.Host, strconv.Itoa(s.options.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true

	log.Info().Str("addr", listener.Addr().String()).Msg("protocol server listening")
	go s.acceptLoop()

	return nil
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops accepting connections, closes open ones and waits for their
// handlers to return.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	err := s.listener.Close()
	for conn := range s.active {
		conn.Close()
	}
	s.mu.Unlock()

	s.conns.Wait()
	return err
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			log.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.active[conn] = struct{}{}
		s.conns.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)

			s.mu.Lock()
			delete(s.active, conn)
			s.mu.Unlock()
		}()
	}
}

// session is the per-connection state.
type session struct {
	engine *engine.Engine
	depth  int
}

func (s *Server) newSession() *session {
	depth := s.options.Depth
	if depth <= 0 {
		depth = s.engine.Depth()
	}
	return &session{engine: s.engine, depth: depth}
}

// handleConnection handles a single client connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("protocol client connected")
	defer log.Debug().Str("remote", remote).Msg("protocol client disconnected")

	if err := s.serve(s.newSession(), conn, conn); err != nil {
		log.Warn().Err(err).Str("remote", remote).Msg("protocol connection error")
	}
}

// serve runs the command loop until exit or end of input.
func (s *Server) serve(sess *session, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	if s.options.PromptEnabled {
		if _, err := io.WriteString(w, "> "); err != nil {
			return err
		}
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response, done := sess.processCommand(line)
		if _, err := io.WriteString(w, response); err != nil {
			return err
		}
		if done {
			return nil
		}

		if s.options.PromptEnabled {
			if _, err := io.WriteString(w, "> "); err != nil {
				return err
			}
		}
	}
}

// processCommand processes a single command and returns the response.
// done is set when the connection should close.
func (s *session) processCommand(cmd string) (response string, done bool) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n", false
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "version":
		return ProtocolVersion + "\n", false

	case "help":
		return helpResponse(), false

	case "exit", "quit":
		return "Goodbye\n", true

	case "set":
		return s.handleSet(args), false

	case "eval", "evaluation":
		return s.handleEval(args), false

	case "best":
		return s.handleBest(args), false

	case "legal":
		return s.handleLegal(args), false

	default:
		return fmt.Sprintf("Error: unknown command '%s'\n", command), false
	}
}

// helpResponse returns help text.
func helpResponse() string {
	return `Available commands:
  version                      - Show version information
  help                         - Show this help
  set depth <n>                - Set search depth (1-8)
  eval <pos>                   - Cost and legal move counts for a position
  best <pos> <black|white>     - Best move for a player
  legal <pos> <player> <move>  - Check a move
  exit                         - Close connection
`
}

func errorf(format string, args ...interface{}) string {
	return "Error: " + fmt.Sprintf(format, args...) + "\n"
}

// handleSet handles the set command.
func (s *session) handleSet(args []string) string {
	if len(args) < 2 {
		return errorf("set requires option and value")
	}

	option := strings.ToLower(args[0])
	switch option {
	case "depth":
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 1 || depth > MaxDepth {
			return errorf("depth must be 1-%d", MaxDepth)
		}
		s.depth = depth
		return fmt.Sprintf("depth set to %d\n", depth)

	default:
		return errorf("unknown option '%s'", option)
	}
}

// handleEval replies "<cost> <black moves> <white moves>".
func (s *session) handleEval(args []string) string {
	if len(args) != 1 {
		return errorf("usage: eval <pos>")
	}
	b, err := engine.ParseBoard(args[0])
	if err != nil {
		return errorf("%v", err)
	}

	return fmt.Sprintf("%d %d %d\n",
		b.Evaluate(),
		len(engine.ValidMoves(&b, engine.Black)),
		len(engine.ValidMoves(&b, engine.White)))
}

// handleBest replies "<move> <cost>", with "none" for a missing move and a
// trailing "winner <player>" when the search found a forced result.
func (s *session) handleBest(args []string) string {
	if len(args) != 2 {
		return errorf("usage: best <pos> <black|white>")
	}
	b, err := engine.ParseBoard(args[0])
	if err != nil {
		return errorf("%v", err)
	}
	player, err := parsePlayer(args[1])
	if err != nil {
		return errorf("%v", err)
	}

	r := s.engine.BestMoveDepth(b, player, s.depth)

	move := "none"
	if r.HasMove {
		move = r.Move.String()
	}
	resp := fmt.Sprintf("%s %d", move, r.Cost)
	if w, ok := r.Winner(); ok {
		resp += " winner " + strings.ToLower(w.String())
	}
	return resp + "\n"
}

// handleLegal replies "legal" or "illegal <rule>".
func (s *session) handleLegal(args []string) string {
	if len(args) != 3 {
		return errorf("usage: legal <pos> <player> <move>")
	}
	b, err := engine.ParseBoard(args[0])
	if err != nil {
		return errorf("%v", err)
	}
	player, err := parsePlayer(args[1])
	if err != nil {
		return errorf("%v", err)
	}
	m, err := engine.ParseMove(args[2])
	if err != nil {
		return errorf("%v", err)
	}

	if err := engine.Check(&b, m, player); err != nil {
		resp := "illegal " + err.Error()
		if reason := engine.Reason(err); reason != "" {
			resp += ": " + reason
		}
		return resp + "\n"
	}
	return "legal\n"
}

func parsePlayer(s string) (engine.Player, error) {
	switch strings.ToLower(s) {
	case "black", "b":
		return engine.Black, nil
	case "white", "w":
		return engine.White, nil
	}
	return engine.Black, fmt.Errorf("unknown player '%s'", s)
}
