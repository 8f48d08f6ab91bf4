package game

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Poller performs one status query per call and never fails on expected network conditions:
// every call returns a classified models.Outcome.
type Poller struct {
	querier Querier
	limiter *rate.Limiter
}

// NewPoller creates a poller. Consecutive polls are spaced at least minGap apart; zero disables the throttle.
// The gap is measured on the wall clock, independent of the monitor's clock, so it only
// delays polls when the monitor interval is shorter than minGap (e.g. -i 250ms).
func NewPoller(q Querier, minGap time.Duration) *Poller {
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	}

	return &Poller{
		querier: q,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Poll queries A2S_INFO and, when wantPlayers is set, A2S_PLAYER on ep.
func (p *Poller) Poll(ctx context.Context, ep address.QueryEndpoint, wantPlayers bool) models.Outcome {
	if err := p.limiter.Wait(ctx); err != nil {
		return models.Failure(models.OutcomeTransient, err)
	}

	logCtx := log.With().Str("server", ep.String()).Logger()

	session, err := p.querier.Open(ep)
	if err != nil {
		logCtx.Debug().Err(err).Msg("Failed to open A2S session")
		return models.Failure(models.OutcomeFatal, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logCtx.Trace().Err(err).Msg("Failed to close A2S session")
		}
	}()

	status, err := session.Info()
	if err != nil {
		kind := classify(err)
		logCtx.Debug().Err(err).Stringer("outcome", kind).Msg("A2S_INFO query failed")
		return models.Failure(kind, err)
	}

	logCtx.Trace().
		Str("name", status.Name).
		Uint("players", status.Players).
		Uint("max_players", status.MaxPlayers).
		Dur("latency", status.Latency).
		Msg("A2S_INFO received")

	if !wantPlayers {
		return models.Success(status, nil)
	}

	durations, err := session.Players()
	if err != nil {
		kind := classify(err)
		logCtx.Debug().Err(err).Stringer("outcome", kind).Msg("A2S_PLAYER query failed")
		return models.Failure(kind, err)
	}

	return models.Success(status, Sessions(durations))
}

// Sessions numbers player durations from 1 in the order they were received, truncated to whole seconds.
func Sessions(durations []time.Duration) []models.PlayerSession {
	sessions := make([]models.PlayerSession, 0, len(durations))
	for i, d := range durations {
		sessions = append(sessions, models.PlayerSession{
			Ordinal:  uint(i + 1),
			Duration: d.Truncate(time.Second),
		})
	}

	return sessions
}

// classify maps a query error to Timeout or Transient.
func classify(err error) models.OutcomeKind {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return models.OutcomeTimeout
	case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return models.OutcomeTimeout
	// the a2s client may flatten the socket error into its message
	case strings.Contains(err.Error(), "i/o timeout"):
		return models.OutcomeTimeout
	default:
		return models.OutcomeTransient
	}
}
