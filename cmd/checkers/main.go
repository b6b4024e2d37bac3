// checkers - console checkers against a minimax bot, bulk game simulation
// and position analysis
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/yourusername/checkers/internal/logging"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/play"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("checkers failed")
		os.Exit(1)
	}
}

var globalFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "depth",
		Aliases: []string{"d"},
		Usage:   "minimax search depth in plies",
		Value:   engine.DefaultDepth,
		EnvVars: []string{"CHECKERS_DEPTH"},
	},
	&cli.IntFlag{
		Name:  "cache-size",
		Usage: "search cache entries (negative disables the cache)",
		Value: engine.DefaultCacheSize,
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (trace, debug, info, warn, error)",
		Value:   "warn",
		EnvVars: []string{"CHECKERS_LOG_LEVEL"},
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "checkers",
		Usage:   "Play checkers against a minimax bot or analyze positions",
		Version: version,
		Flags:   globalFlags,
		Before: func(cCtx *cli.Context) error {
			return logging.Configure(cCtx.String("log-level"), true)
		},
		Action: func(cCtx *cli.Context) error {
			return play.Run(cCtx.Context, newEngine(cCtx), os.Stdin, os.Stdout)
		},
		Commands: []*cli.Command{
			playCommand,
			bulkCommand,
			evalCommand,
			bestCommand,
			analyzeCommand,
			reviewCommand,
			replayCommand,
			exportCommand,
		},
	}
}

// newEngine builds the engine from the global flags
func newEngine(cCtx *cli.Context) *engine.Engine {
	opts := engine.EngineOptions{
		Depth:     cCtx.Int("depth"),
		CacheSize: cCtx.Int("cache-size"),
	}
	log.Debug().Int("depth", opts.Depth).Int("cache_size", opts.CacheSize).Msg("engine created")
	return engine.NewEngine(opts)
}

// parsePlayer reads the --player flag
func parsePlayer(s string) (engine.Player, error) {
	switch s {
	case "black", "b", "BLACK":
		return engine.Black, nil
	case "white", "w", "WHITE":
		return engine.White, nil
	}
	return engine.Black, fmt.Errorf("unknown player %q (want black or white)", s)
}
