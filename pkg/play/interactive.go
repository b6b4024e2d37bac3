package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/game"
)

// Mode selects a console mode.
type Mode int

const (
	ModePlay Mode = 1 // Play with bot
	ModeBulk Mode = 2 // Simulate game from bulk input
)

// Prompts
const (
	modePrompt    = "Choose mode ([1] Play with bot, [2] Simulate game): "
	modeRetry     = "Invalid value. Try again. Choose mode [1-Play with bot, 2-Bulk input mode): "
	humanPrompt   = "Human (White Pieces) Turn - Enter your action (eg. B4-C4): "
	humanRetry    = "Please try again. Enter your action (eg. B4-C4): "
	playHeaderFmt = "\n=================== PLAY WITH BOT MODE ====================\n" +
		"  * Human - White Pieces ('W' and 'w')\n" +
		"  * Bot (with MiniMax tree depth %d) - Black Pieces ('B' and 'b')\n"
)

// Human is the side the console player controls.
const Human = engine.White

// Run prints the banner, asks for a mode and runs it. End of input before a
// valid mode is chosen ends the run quietly.
func Run(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	br := bufio.NewReader(in)
	p := NewPrinter(out)
	p.printf(Banner)
	p.printf(modePrompt)

	mode, ok := readMode(br, p)
	if !ok {
		return p.Err()
	}

	log.Debug().Int("mode", int(mode)).Msg("mode selected")

	if mode == ModePlay {
		return RunInteractive(ctx, e, br, out)
	}
	return RunBulk(ctx, e, br, out)
}

// readMode reads lines until one holds 1 or 2
func readMode(br *bufio.Reader, p *Printer) (Mode, bool) {
	for {
		line, err := br.ReadString('\n')
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil {
			if m := Mode(n); m == ModePlay || m == ModeBulk {
				return m, true
			}
		}
		if err != nil {
			return 0, false
		}
		p.printf(modeRetry)
	}
}

// RunInteractive plays a game between the engine (Black) and a human (White)
// reading moves from in. Illegal moves are reported and asked for again. The
// game ends on a win, when the human has no legal move, or at end of input.
func RunInteractive(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	p := NewPrinter(out)
	p.printf(playHeaderFmt, e.Depth())

	board := engine.NewBoard()
	p.Setup(board)

	return interact(ctx, e, board, 1, game.NewScanner(in), p)
}

// interact runs the game loop from the given board and turn
func interact(ctx context.Context, e *engine.Engine, board engine.Board, turn int, s *game.Scanner, p *Printer) error {
	for ; ; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Err(); err != nil {
			return err
		}

		player := engine.ForTurn(turn)
		if player != Human {
			r := e.BestMove(board, player)
			if w, ok := r.Winner(); ok {
				p.Winner(w)
				return p.Err()
			}
			engine.Apply(&board, r.Move, player)
			p.Action(r.Move, turn, board, true)
			log.Debug().Int("turn", turn).Str("move", r.Move.String()).Int64("nodes", r.Nodes).Msg("engine move")
			continue
		}

		if !engine.HasMoves(&board, Human) {
			p.Winner(Human.Opponent())
			return p.Err()
		}

		p.printf(humanPrompt)
		m, ok := readHumanMove(s, &board, p)
		if !ok {
			if err := s.Err(); err != nil {
				return fmt.Errorf("reading move: %w", err)
			}
			return p.Err()
		}
		engine.Apply(&board, m, Human)
		p.Action(m, turn, board, false)
	}
}

// readHumanMove reads moves until a legal one arrives. Commands are skipped.
func readHumanMove(s *game.Scanner, b *engine.Board, p *Printer) (engine.Move, bool) {
	for s.Scan() {
		tok := s.Token()
		if tok.IsCommand {
			continue
		}
		if err := engine.Check(b, tok.Move, Human); err != nil {
			p.Error(err)
			p.printf(humanRetry)
			continue
		}
		return tok.Move, true
	}
	return engine.Move{}, false
}
