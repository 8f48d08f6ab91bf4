// Package fake provides scripted stand-ins for the directory service, the poller and the terminal,
// used to drive the run loop deterministically in tests.
package fake

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/models"
)

// NewDirectory starts an HTTP server answering every request like the Steam server list API.
// The caller must Close it.
func NewDirectory(servers ...models.ServerDescriptor) *httptest.Server {
	var resp models.ServerListResponse
	resp.Response.Servers = servers

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

// NewFailingDirectory starts an HTTP server answering every request with status and body.
func NewFailingDirectory(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

// Resolver returns a fixed target or error.
type Resolver struct {
	Err    error
	Target address.QueryEndpoint

	mu    sync.Mutex
	calls int
}

// Resolve implements monitor.Resolver.
func (r *Resolver) Resolve(_ context.Context, _ address.Endpoint) (address.QueryEndpoint, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	return r.Target, r.Err
}

// Calls returns how many times Resolve was called.
func (r *Resolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

// Poller returns scripted outcomes in order, repeating the last one.
// Every call is announced on Calls without blocking.
type Poller struct {
	Calls chan address.QueryEndpoint

	mu       sync.Mutex
	outcomes []models.Outcome
	count    int
}

// NewPoller creates a poller scripted with outcomes.
func NewPoller(outcomes ...models.Outcome) *Poller {
	return &Poller{
		Calls:    make(chan address.QueryEndpoint, 64),
		outcomes: outcomes,
	}
}

// Poll implements monitor.Poller.
func (p *Poller) Poll(_ context.Context, ep address.QueryEndpoint, _ bool) models.Outcome {
	p.mu.Lock()
	var out models.Outcome
	if len(p.outcomes) > 0 {
		out = p.outcomes[min(p.count, len(p.outcomes)-1)]
	}
	p.count++
	p.mu.Unlock()

	select {
	case p.Calls <- ep:
	default:
	}

	return out
}

// Count returns how many polls were made.
func (p *Poller) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.count
}

// Display records frames written by the run loop.
type Display struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	frame  bytes.Buffer
	clears int
}

// Write implements io.Writer.
func (d *Display) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frame.Write(p)
	return d.buf.Write(p)
}

// Clear starts a new frame.
func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clears++
	d.frame.Reset()

	return nil
}

// String returns everything written so far.
func (d *Display) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buf.String()
}

// Frame returns what was written since the last Clear.
func (d *Display) Frame() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.frame.String()
}

// Clears returns how many times the display was cleared.
func (d *Display) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.clears
}
