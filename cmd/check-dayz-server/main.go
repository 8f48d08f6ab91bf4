// main is the entry point of check-dayz-server.
// It resolves the query port of a DayZ server once and keeps printing its status until interrupted.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iam-dane/check-dayz-server/internal/config"
	"github.com/iam-dane/check-dayz-server/internal/directory"
	"github.com/iam-dane/check-dayz-server/internal/game"
	"github.com/iam-dane/check-dayz-server/internal/geoip"
	"github.com/iam-dane/check-dayz-server/internal/logger"
	"github.com/iam-dane/check-dayz-server/internal/monitor"
	"github.com/iam-dane/check-dayz-server/internal/screen"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := directory.New(directory.Options{
		BaseURL: cfg.Steam.URL,
		APIKey:  cfg.Steam.APIKey,
		GameDir: cfg.Steam.GameDir,
		Timeout: cfg.Steam.Timeout,
	})

	poller := game.NewPoller(game.NewA2SQuerier(game.A2SOptions{
		Timeout:    cfg.A2S.Timeout,
		BufferSize: cfg.A2S.BufferSize,
	}), cfg.A2S.MinGap)

	runner := monitor.New(resolver, poller, screen.New(os.Stdout, !cfg.Monitor.NoClear), clockwork.NewRealClock(), monitor.Options{
		Style:    cfg.Monitor.TableFormat,
		Interval: cfg.Monitor.Interval.Duration(),
		Cooldown: cfg.Monitor.Cooldown.Duration(),
		Players:  cfg.Monitor.Players,
	})

	// country lookup is optional
	if cfg.GeoIP.Path != "" {
		if err := geoip.EnsureDB(ctx, cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
			log.Warn().Err(err).Msg("Failed to download GeoIP database")
		}

		if geoProvider, err := geoip.Open(cfg.GeoIP.Path); err != nil {
			log.Warn().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		} else {
			defer func() {
				if err := geoProvider.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing GeoIP provider")
				}
			}()
			runner.WithLocator(geoProvider)
		}
	}

	log.Debug().
		Str("address", cfg.Args.Address.String()).
		Dur("interval", cfg.Monitor.Interval.Duration()).
		Str("table_format", string(cfg.Monitor.TableFormat)).
		Msg("Starting monitor")

	err := runner.Run(ctx, cfg.Args.Address)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info().Msg("Interrupted, exiting")
		return 0
	case err != nil:
		log.Error().Err(err).Msg("Monitor stopped")
		return 1
	}

	return 0
}
