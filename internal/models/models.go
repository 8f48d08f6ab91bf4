// Package models defines the data structures exchanged between the directory lookup, the poller and the view.
package models

import "time"

// ServerListResponse is the Steam Web API IGameServersService/GetServerList envelope.
type ServerListResponse struct {
	Response struct {
		Servers []ServerDescriptor `json:"servers"`
	} `json:"response"`
}

// ServerDescriptor is a single server entry returned by the directory service.
// Addr holds the query socket as "host:port", GamePort the port players connect to.
type ServerDescriptor struct {
	Addr       string `json:"addr"`
	Name       string `json:"name"`
	Map        string `json:"map"`
	Version    string `json:"version"`
	SteamID    string `json:"steamid"`
	GameDir    string `json:"gamedir"`
	GamePort   int    `json:"gameport"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
}

// ServerStatus is a single A2S_INFO snapshot.
type ServerStatus struct {
	Name       string
	Players    uint
	MaxPlayers uint
	Latency    time.Duration
}

// PlayerSession is one connected player as reported by A2S_PLAYER.
// Ordinal is 1-based and follows the order returned by the server.
type PlayerSession struct {
	Ordinal  uint
	Duration time.Duration
}

// OutcomeKind classifies the result of one poll.
type OutcomeKind int

// Poll outcome kinds.
const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeTimeout
	OutcomeTransient
	OutcomeFatal
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeTransient:
		return "transient"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one poll tick.
// Status and Players are set only for OutcomeSuccess, Err only for failures.
type Outcome struct {
	Err     error
	Players []PlayerSession
	Status  ServerStatus
	Kind    OutcomeKind
}

// Success builds a successful outcome.
func Success(status ServerStatus, players []PlayerSession) Outcome {
	return Outcome{Kind: OutcomeSuccess, Status: status, Players: players}
}

// Failure builds a failed outcome of the given kind.
func Failure(kind OutcomeKind, err error) Outcome {
	return Outcome{Kind: kind, Err: err}
}
