package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasenderos/orderbook-go/internal/config"
	"github.com/fasenderos/orderbook-go/internal/engine"
	"github.com/fasenderos/orderbook-go/internal/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.ParseServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var opts []engine.Option
	if cfg.Journaling {
		opts = append(opts, engine.WithJournaling(true), engine.WithOnOperation(func(op engine.OpLog) {
			log.Info().
				Uint64("seq", op.Seq).
				Str("op", op.Kind.String()).
				Str("status", op.Result.Status.String()).
				Msg("operation")
		}))
	}

	ob := engine.NewOrderBook(cfg.Symbol, opts...)
	srv := transport.NewServer(cfg.Addr, ob, cfg.Workers)

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
