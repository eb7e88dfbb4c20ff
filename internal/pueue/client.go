package pueue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StatusFetcher is the read-only view of the daemon the dashboard needs.
// It is implemented by *Client and faked in tests.
type StatusFetcher interface {
	Status(ctx context.Context) (State, error)
}

// Ensure Client implements StatusFetcher at compile time.
var _ StatusFetcher = (*Client)(nil)

// Endpoint describes how to reach the daemon.
type Endpoint struct {
	// SocketPath selects a unix socket connection when non-empty.
	SocketPath string
	Host       string
	Port       string
}

// Client talks to the daemon's HTTP API. Calls are serialized so a single
// client can be shared between goroutines.
type Client struct {
	mu        sync.Mutex
	baseURL   *url.URL
	http      *http.Client
	secret    string
	userAgent string
}

const (
	defaultHost    = "127.0.0.1"
	defaultPort    = "6924"
	requestTimeout = 5 * time.Second
)

// Version is reported in the User-Agent header and the status bar.
var Version = "0.1.0"

// NewClient builds a Client for the endpoint, authenticating with secret.
func NewClient(ep Endpoint, secret string) (*Client, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("shared secret is empty")
	}

	transport := &http.Transport{}
	var base *url.URL
	if socket := strings.TrimSpace(ep.SocketPath); socket != "" {
		dialer := &net.Dialer{}
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, "unix", socket)
		}
		base = &url.URL{Scheme: "http", Host: "pueue"}
	} else {
		parsed, err := parseBaseURL(ep.Host, ep.Port)
		if err != nil {
			return nil, err
		}
		base = parsed
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		secret:    strings.TrimSpace(secret),
		userAgent: "pueuetop/" + Version,
	}, nil
}

// Status retrieves a full snapshot of all known tasks.
func (c *Client) Status(ctx context.Context) (State, error) {
	if c == nil {
		return State{}, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", &payload); err != nil {
		return State{}, err
	}
	return payload.State()
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(host, port string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = defaultHost
	}
	port = strings.TrimSpace(port)
	if port == "" {
		port = defaultPort
	}
	raw := host
	if !strings.Contains(raw, "://") {
		raw = "http://" + net.JoinHostPort(host, port)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse daemon address %q: %w", host, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
