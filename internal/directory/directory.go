// Package directory resolves a game address into its A2S query port using the Steam Web API server list.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/address"
	"github.com/iam-dane/check-dayz-server/internal/models"
	"github.com/iam-dane/check-dayz-server/internal/vars"
	"github.com/rs/zerolog/log"
)

// DefaultURL is the public Steam Web API base address.
const DefaultURL = "https://api.steampowered.com"

const (
	serverListPath = "/IGameServersService/GetServerList/v1/"
	serverLimit    = 100
	maxBodyLog     = 4096
)

// ErrServerNotFound is returned when the directory has no entry for the requested game port.
var ErrServerNotFound = errors.New("server not found")

// StatusError is returned when the directory service answers with a non-success HTTP status.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response from Steam API: status %d: %s", e.Code, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string
	GameDir string
	Timeout time.Duration
}

// Client queries the Steam master server list over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	gameDir    string
}

// New creates a directory client.
func New(opts Options) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		gameDir: opts.GameDir,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Resolve looks up the servers registered on ep's host and returns the query endpoint of the one
// whose game port equals ep.Port. The host of the result is always ep's host.
func (c *Client) Resolve(ctx context.Context, ep address.Endpoint) (address.QueryEndpoint, error) {
	servers, err := c.servers(ctx, ep)
	if err != nil {
		return address.QueryEndpoint{}, err
	}

	for _, srv := range servers {
		if srv.GamePort != int(ep.Port) {
			continue
		}

		port, err := queryPort(srv.Addr)
		if err != nil {
			return address.QueryEndpoint{}, err
		}

		log.Debug().
			Str("addr", srv.Addr).
			Str("name", srv.Name).
			Str("map", srv.Map).
			Str("version", srv.Version).
			Int("players", srv.Players).
			Int("max_players", srv.MaxPlayers).
			Msg("Server found in directory")

		return ep.Query(port), nil
	}

	log.Debug().
		Str("game_address", ep.String()).
		Int("candidates", len(servers)).
		Msg("No directory entry matches game port")

	return address.QueryEndpoint{}, ErrServerNotFound
}

// servers fetches the directory entries registered on ep's host.
func (c *Client) servers(ctx context.Context, ep address.Endpoint) ([]models.ServerDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL(ep), nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("User-Agent", vars.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), maxBodyLog)}
	}

	var result models.ServerListResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal directory response failed: %w", err)
	}

	return result.Response.Servers, nil
}

// listURL builds the GetServerList request. The key is never logged.
func (c *Client) listURL(ep address.Endpoint) string {
	filter := `\gameaddr\` + ep.Addr.String()
	if c.gameDir != "" {
		filter = `\gamedir\` + c.gameDir + filter
	}

	log.Trace().
		Str("filter", filter).
		Msg("Querying server directory")

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("filter", filter)
	q.Set("limit", strconv.Itoa(serverLimit))

	return c.baseURL + serverListPath + "?" + q.Encode()
}

// queryPort extracts the port from a descriptor "host:port" address.
func queryPort(addr string) (uint16, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("bad directory addr %q: %w", addr, err)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad directory addr %q: %w", addr, err)
	}

	return uint16(port), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
