package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/game"
	"github.com/yourusername/checkers/pkg/play"
)

var playerFlag = &cli.StringFlag{
	Name:    "player",
	Aliases: []string{"p"},
	Usage:   "side to move (black or white)",
	Value:   "black",
}

var playCommand = &cli.Command{
	Name:  "play",
	Usage: "Play White against the bot",
	Action: func(cCtx *cli.Context) error {
		return play.RunInteractive(cCtx.Context, newEngine(cCtx), os.Stdin, os.Stdout)
	},
}

var bulkCommand = &cli.Command{
	Name:      "bulk",
	Usage:     "Simulate a game from a move list followed by A or P",
	ArgsUsage: "[file]",
	Action: func(cCtx *cli.Context) error {
		in, closeIn, err := openInput(cCtx.Args().First())
		if err != nil {
			return err
		}
		defer closeIn()

		err = play.RunBulk(cCtx.Context, newEngine(cCtx), in, os.Stdout)
		var re *game.ReplayError
		if errors.As(err, &re) {
			// Already reported on the board output
			return cli.Exit("", 2)
		}
		return err
	},
}

var evalCommand = &cli.Command{
	Name:      "eval",
	Usage:     "Show a position with its cost and legal move counts",
	ArgsUsage: "<position>",
	Action: func(cCtx *cli.Context) error {
		b, err := boardArg(cCtx)
		if err != nil {
			return err
		}

		p := play.NewPrinter(os.Stdout)
		p.Board(b)
		if err := p.Err(); err != nil {
			return err
		}

		fmt.Printf("POSITION ID: %s\n", b.PositionID())
		fmt.Printf("BOARD COST: %d\n", b.Evaluate())
		fmt.Printf("BLACK MOVES: %d\n", len(engine.ValidMoves(&b, engine.Black)))
		fmt.Printf("WHITE MOVES: %d\n", len(engine.ValidMoves(&b, engine.White)))
		return nil
	},
}

var bestCommand = &cli.Command{
	Name:      "best",
	Usage:     "Find the best move for a player",
	ArgsUsage: "<position>",
	Flags:     []cli.Flag{playerFlag},
	Action: func(cCtx *cli.Context) error {
		b, err := boardArg(cCtx)
		if err != nil {
			return err
		}
		player, err := parsePlayer(cCtx.String("player"))
		if err != nil {
			return err
		}

		e := newEngine(cCtx)
		r := e.BestMove(b, player)
		if w, ok := r.Winner(); ok {
			fmt.Printf("%s WIN!\n", w)
			return nil
		}
		fmt.Printf("%s ACTION: %s\nSEARCH COST: %d\nNODES: %d\n", player, r.Move, r.Cost, r.Nodes)
		return nil
	},
}

var analyzeCommand = &cli.Command{
	Name:      "analyze",
	Usage:     "Rank every legal move for a player",
	ArgsUsage: "<position>",
	Flags: []cli.Flag{
		playerFlag,
		&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Usage: "moves to show (0 = all)"},
	},
	Action: func(cCtx *cli.Context) error {
		b, err := boardArg(cCtx)
		if err != nil {
			return err
		}
		player, err := parsePlayer(cCtx.String("player"))
		if err != nil {
			return err
		}

		e := newEngine(cCtx)
		moves := e.RankMoves(b, player, cCtx.Int("top"))
		if len(moves) == 0 {
			fmt.Printf("%s has no legal moves\n", player)
			return nil
		}

		fmt.Printf("%s moves at depth %d:\n", player, e.Depth())
		for i, mc := range moves {
			fmt.Printf("%3d. %s %6d\n", i+1, mc.Move, mc.Cost)
		}
		return nil
	},
}

var reviewCommand = &cli.Command{
	Name:      "review",
	Usage:     "Review every move of a game transcript",
	ArgsUsage: "<transcript>",
	Action: func(cCtx *cli.Context) error {
		rec, err := readTranscript(cCtx)
		if err != nil {
			return err
		}

		gr, err := newEngine(cCtx).ReviewGame(cCtx.Context, rec.Moves)
		if err != nil {
			return err
		}

		for i, mr := range gr.Moves {
			mark := ""
			if mr.Skill != engine.SkillNone {
				mark = " " + mr.Skill.Abbr()
			}
			fmt.Printf("%3d. %-5s %s (best %s, loss %d)%s\n",
				i+1, mr.Player, mr.Played, mr.Best, mr.Loss, mark)
		}
		fmt.Println()
		for _, ps := range gr.Players {
			fmt.Printf("%-5s moves %d, unforced %d, mean loss %.2f, blunders %d, errors %d, doubtful %d\n",
				ps.Name, ps.TotalMoves, ps.Unforced, ps.MeanLoss, ps.Blunders, ps.Errors, ps.Doubtful)
		}
		return nil
	},
}

var replayCommand = &cli.Command{
	Name:      "replay",
	Usage:     "Replay a game transcript, then run its command",
	ArgsUsage: "<transcript>",
	Action: func(cCtx *cli.Context) error {
		rec, err := readTranscript(cCtx)
		if err != nil {
			return err
		}
		return play.RunRecord(cCtx.Context, newEngine(cCtx), rec, os.Stdout)
	},
}

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Convert a bulk move list to a transcript",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "black", Usage: "name of the black player"},
		&cli.StringFlag{Name: "white", Usage: "name of the white player"},
		&cli.StringFlag{Name: "event", Usage: "event name"},
	},
	Action: func(cCtx *cli.Context) error {
		in, closeIn, err := openInput(cCtx.Args().First())
		if err != nil {
			return err
		}
		defer closeIn()

		rec, err := game.ReadBulk(in)
		if err != nil {
			return err
		}
		if _, err := game.Replay(rec, nil); err != nil {
			return err
		}

		rec.Black = cCtx.String("black")
		rec.White = cCtx.String("white")
		rec.Event = cCtx.String("event")
		return game.ExportTranscript(os.Stdout, rec)
	},
}

// boardArg parses the first argument as a position ID or diagram. No
// argument means the starting board.
func boardArg(cCtx *cli.Context) (engine.Board, error) {
	arg := strings.TrimSpace(cCtx.Args().First())
	if arg == "" {
		return engine.NewBoard(), nil
	}
	b, err := engine.ParseBoard(arg)
	if err != nil {
		return b, fmt.Errorf("position %q: %w", arg, err)
	}
	return b, nil
}

// openInput opens the named file, or stdin for "" and "-"
func openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func readTranscript(cCtx *cli.Context) (*game.Record, error) {
	if cCtx.NArg() < 1 {
		return nil, errors.New("transcript file required")
	}
	in, closeIn, err := openInput(cCtx.Args().First())
	if err != nil {
		return nil, err
	}
	defer closeIn()

	rec, err := game.ImportTranscript(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cCtx.Args().First(), err)
	}
	return rec, nil
}
