// Package monitor runs the resolve-once, poll-forever loop and refreshes the status table.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/models"
	"github.com/iam-dane/check-dayz-server/internal/table"
	"github.com/iam-dane/check-dayz-server/internal/view"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	// ErrResolve wraps every failure of the one-shot directory lookup.
	ErrResolve = errors.New("failed to resolve server")

	// ErrPoll wraps a poll failure that is not retried.
	ErrPoll = errors.New("failed to query server")
)

// Resolver finds the query endpoint of a game address.
type Resolver interface {
	Resolve(ctx context.Context, ep address.Endpoint) (address.QueryEndpoint, error)
}

// Poller performs one classified status query.
type Poller interface {
	Poll(ctx context.Context, ep address.QueryEndpoint, wantPlayers bool) models.Outcome
}

// Locator maps an address to a country code. Optional.
type Locator interface {
	CountryCode(addr netip.Addr) string
}

// Display receives rendered frames.
type Display interface {
	io.Writer
	Clear() error
}

// Options tunes the run loop.
type Options struct {
	Style    table.Style
	Interval time.Duration
	Cooldown time.Duration
	Players  bool
}

// Runner drives a single monitored server from resolution to termination.
type Runner struct {
	resolver Resolver
	poller   Poller
	display  Display
	clock    clockwork.Clock
	locator  Locator
	opts     Options
	state    State
}

// New creates a runner. Time is read only through clock so tests can drive the loop.
func New(resolver Resolver, poller Poller, display Display, clock clockwork.Clock, opts Options) *Runner {
	if opts.Style == "" {
		opts.Style = table.Simple
	}

	return &Runner{
		resolver: resolver,
		poller:   poller,
		display:  display,
		clock:    clock,
		opts:     opts,
	}
}

// WithLocator enables logging the country of the resolved server.
func (r *Runner) WithLocator(l Locator) *Runner {
	r.locator = l
	return r
}

// State returns the current loop state. Not safe to call while Run is executing.
func (r *Runner) State() State {
	return r.state
}

// Run resolves ep and polls it until ctx is cancelled or a non-retryable failure occurs.
// Cancellation returns ctx.Err(); resolution failures wrap ErrResolve, poll failures ErrPoll.
// Timeouts are retried without limit after the cooldown.
func (r *Runner) Run(ctx context.Context, ep address.Endpoint) error {
	r.transition(StateResolving)

	target, err := r.resolver.Resolve(ctx, ep)
	if err != nil {
		r.transition(StateTerminated)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w %s: %w", ErrResolve, ep, err)
	}

	logEvt := log.Info().
		Str("game_address", ep.String()).
		Str("query_address", target.String())
	if r.locator != nil {
		if country := r.locator.CountryCode(target.Addr); country != "" {
			logEvt = logEvt.Str("country", country)
		}
	}
	logEvt.Msg("Server resolved")

	for {
		r.transition(StatePolling)

		out := r.poller.Poll(ctx, target, r.opts.Players)
		if ctx.Err() != nil {
			r.transition(StateTerminated)
			return ctx.Err()
		}

		wait := r.opts.Interval

		switch out.Kind {
		case models.OutcomeSuccess:
			if err := r.show(out); err != nil {
				r.transition(StateTerminated)
				return fmt.Errorf("render status: %w", err)
			}

		case models.OutcomeTimeout:
			wait = r.opts.Cooldown
			log.Warn().
				Err(out.Err).
				Str("server", target.String()).
				Dur("retry_in", wait).
				Msg("Server did not answer in time")

			if err := r.notice(fmt.Sprintf("Server %s is not responding, it may be restarting. Retrying in %s...", target, wait)); err != nil {
				r.transition(StateTerminated)
				return fmt.Errorf("render notice: %w", err)
			}

		default:
			r.transition(StateTerminated)
			return fmt.Errorf("%w %s (%s): %w", ErrPoll, target, out.Kind, out.Err)
		}

		r.transition(StateWaiting)
		if err := r.sleep(ctx, wait); err != nil {
			r.transition(StateTerminated)
			return err
		}
	}
}

// show renders the whole frame first so the screen is cleared and redrawn in one write.
func (r *Runner) show(out models.Outcome) error {
	var b strings.Builder

	if err := table.Render(&b, r.opts.Style, view.ServerHeaders, [][]string{view.ServerRow(out.Status)}); err != nil {
		return err
	}

	if r.opts.Players {
		b.WriteString("\n")
		if err := table.Render(&b, r.opts.Style, view.PlayerHeaders, view.PlayerRows(out.Players)); err != nil {
			return err
		}
	}

	log.Debug().
		Str("name", out.Status.Name).
		Uint("players", out.Status.Players).
		Uint("max_players", out.Status.MaxPlayers).
		Dur("latency", out.Status.Latency).
		Msg("Status refreshed")

	return r.frame(b.String())
}

func (r *Runner) notice(msg string) error {
	return r.frame(msg + "\n")
}

func (r *Runner) frame(text string) error {
	if err := r.display.Clear(); err != nil {
		return err
	}

	_, err := io.WriteString(r.display, text)
	return err
}

// sleep waits for d or until ctx is done, whichever comes first.
func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := r.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

func (r *Runner) transition(to State) {
	if r.state == to {
		return
	}

	log.Trace().
		Stringer("from", r.state).
		Stringer("to", to).
		Msg("State changed")

	r.state = to
}
