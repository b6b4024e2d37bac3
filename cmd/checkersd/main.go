// Command checkersd runs the checkers analysis API and the TCP line protocol
// server.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/yourusername/checkers/internal/logging"
	"github.com/yourusername/checkers/pkg/api"
	"github.com/yourusername/checkers/pkg/engine"
	"github.com/yourusername/checkers/pkg/external"
)

const version = "1.0.0"

func main() {
	// .env only fills variables the environment does not already set
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Msg("no .env file found")
		} else {
			log.Warn().Err(err).Msg("error loading .env file")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("checkersd failed")
	}
}

func newApp() *cli.App {
	def := api.DefaultConfig()

	return &cli.App{
		Name:    "checkersd",
		Usage:   "Checkers analysis server (HTTP/JSON, WebSocket, SSE and TCP line protocol)",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "host to bind to (use 0.0.0.0 for all interfaces)",
				Value:   def.Host,
				EnvVars: []string{"CHECKERS_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port",
				Value:   def.Port,
				EnvVars: []string{"CHECKERS_PORT"},
			},
			&cli.IntFlag{
				Name:    "protocol-port",
				Usage:   "TCP line protocol port (0 disables it)",
				Value:   external.DefaultServerOptions().Port,
				EnvVars: []string{"CHECKERS_PROTOCOL_PORT"},
			},
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "default search depth in plies",
				Value:   engine.DefaultDepth,
				EnvVars: []string{"CHECKERS_DEPTH"},
			},
			&cli.IntFlag{
				Name:  "slow-workers",
				Usage: "max concurrent deep searches, predictions and reviews",
				Value: def.MaxSlowWorkers,
			},
			&cli.DurationFlag{
				Name:  "read-timeout",
				Usage: "HTTP read timeout",
				Value: def.ReadTimeout,
			},
			&cli.DurationFlag{
				Name:  "write-timeout",
				Usage: "HTTP write timeout",
				Value: def.WriteTimeout,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error)",
				Value:   logging.DefaultLevel,
				EnvVars: []string{"CHECKERS_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "human-readable console logs instead of JSON",
			},
		},
		Before: func(cCtx *cli.Context) error {
			return logging.Configure(cCtx.String("log-level"), cCtx.Bool("pretty"))
		},
		Action: serve,
	}
}

func serve(cCtx *cli.Context) error {
	eng := engine.NewEngine(engine.EngineOptions{Depth: cCtx.Int("depth")})
	log.Info().Int("depth", eng.Depth()).Msg("engine ready")

	if port := cCtx.Int("protocol-port"); port > 0 {
		proto := external.NewServer(eng, external.ServerOptions{
			Host:          cCtx.String("host"),
			Port:          port,
			PromptEnabled: true,
		})
		if err := proto.Start(); err != nil {
			return err
		}
		defer func() {
			if err := proto.Stop(); err != nil {
				log.Warn().Err(err).Msg("protocol server stop")
			}
		}()
	}

	config := api.DefaultConfig()
	config.Host = cCtx.String("host")
	config.Port = cCtx.Int("port")
	config.ReadTimeout = cCtx.Duration("read-timeout")
	config.WriteTimeout = cCtx.Duration("write-timeout")
	config.IdleTimeout = 60 * time.Second
	config.MaxSlowWorkers = cCtx.Int("slow-workers")

	server := api.NewServer(eng, config, version)
	return server.ListenAndServeWithGracefulShutdown(cCtx.Context)
}
