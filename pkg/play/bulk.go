package play

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/game"
)

const bulkHeader = "===================== BULK INPUT MODE =====================\n" +
	"Enter a list of actions (eg. B4-C4) followed by a command " +
	"[A-predict next move, P-predict next 10 moves]:\n"

// RunBulk replays the moves read from in, printing each one, then lets the
// engine play the number of moves the trailing command asks for. The first
// illegal move is reported and ends the run with a *game.ReplayError.
func RunBulk(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	p := NewPrinter(out)
	p.printf(bulkHeader)
	p.Setup(engine.NewBoard())

	rec, err := game.ReadBulk(in)
	if err != nil {
		return err
	}

	return playRecord(ctx, e, rec, p)
}

// playRecord replays a record and runs its command's predictions
func playRecord(ctx context.Context, e *engine.Engine, rec *game.Record, p *Printer) error {
	st, err := game.Replay(rec, func(ply game.Ply) {
		p.Action(ply.Move, ply.Turn, ply.Board, false)
	})
	if err != nil {
		var re *game.ReplayError
		if errors.As(err, &re) {
			p.Error(re.Err)
		}
		return err
	}

	n := rec.Command.Predictions()
	if n == 0 {
		return p.Err()
	}

	log.Debug().
		Str("command", rec.Command.String()).
		Int("turn", st.Turn).
		Int("depth", e.Depth()).
		Msg("predicting")

	pred, err := e.Predict(ctx, st.Board, st.Turn, n, func(s engine.Step) {
		p.Action(s.Move, s.Turn, s.Board, true)
	})
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	if pred.Decided {
		p.Winner(pred.Winner)
	}

	return p.Err()
}

// RunRecord plays a stored record the way RunBulk plays its input.
func RunRecord(ctx context.Context, e *engine.Engine, rec *game.Record, out io.Writer) error {
	p := NewPrinter(out)
	p.Setup(engine.NewBoard())
	return playRecord(ctx, e, rec, p)
}
