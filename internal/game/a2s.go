// Package game queries a single game server using the Source Engine Query (A2S) protocol
// and classifies the result of every poll.
package game

import (
	"time"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/models"
	"github.com/woozymasta/a2s/pkg/a2s"
)

// Session is one open query socket to a server.
type Session interface {
	// Info requests A2S_INFO. Latency is the request round trip.
	Info() (models.ServerStatus, error)
	// Players requests A2S_PLAYER and returns the session length of every player in server order.
	Players() ([]time.Duration, error)
	Close() error
}

// Querier opens query sessions.
type Querier interface {
	Open(ep address.QueryEndpoint) (Session, error)
}

// A2SOptions holds Source Query protocol client settings.
type A2SOptions struct {
	Timeout    time.Duration
	BufferSize uint16
}

// A2SQuerier opens UDP sessions with the a2s client.
type A2SQuerier struct {
	opts A2SOptions
}

// NewA2SQuerier creates a querier with the given client options.
func NewA2SQuerier(opts A2SOptions) *A2SQuerier {
	return &A2SQuerier{opts: opts}
}

// Open creates an a2s client bound to ep.
func (q *A2SQuerier) Open(ep address.QueryEndpoint) (Session, error) {
	client, err := a2s.New(ep.Addr.String(), int(ep.QueryPort))
	if err != nil {
		return nil, err
	}

	if q.opts.BufferSize > 0 {
		client.BufferSize = q.opts.BufferSize
	}
	if q.opts.Timeout > 0 {
		client.Timeout = q.opts.Timeout
	}

	return &a2sSession{client: client}, nil
}

type a2sSession struct {
	client *a2s.Client
}

func (s *a2sSession) Info() (models.ServerStatus, error) {
	info, err := s.client.GetInfo()
	if err != nil {
		return models.ServerStatus{}, err
	}

	// Ping covers one round trip even when the server answers with a challenge first
	return models.ServerStatus{
		Name:       info.Name,
		Players:    uint(info.Players),
		MaxPlayers: uint(info.MaxPlayers),
		Latency:    info.Ping,
	}, nil
}

func (s *a2sSession) Players() ([]time.Duration, error) {
	players, err := s.client.GetPlayers()
	if err != nil {
		return nil, err
	}
	if players == nil {
		return nil, nil
	}

	durations := make([]time.Duration, 0, len(*players))
	for _, p := range *players {
		durations = append(durations, p.Duration)
	}

	return durations, nil
}

func (s *a2sSession) Close() error {
	return s.client.Close()
}
