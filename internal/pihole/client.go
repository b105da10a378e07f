package pihole

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"pihole-exporter/internal/logging"
)

const (
	// defaultSessionValidity is assumed when Pi-hole does not report how
	// long the issued session stays valid.
	defaultSessionValidity = 300 * time.Second

	// maxResponseBytes bounds statistics responses; summaries are a few KB.
	maxResponseBytes = 8 * 1024 * 1024
)

// ClientConfig holds the connection settings for one Pi-hole instance.
type ClientConfig struct {
	// Host is the Pi-hole host (optionally host:port), without scheme.
	Host string
	// TLS selects https for upstream communication.
	TLS bool
	// Password is the Pi-hole app password or admin password. Empty means
	// the instance is expected to allow unauthenticated statistics access.
	Password string
	// Timeout bounds every request to Pi-hole.
	Timeout time.Duration
}

// Client talks to a single Pi-hole instance. The session credential it
// holds is guarded by a mutex, but callers that need atomic
// check-authenticate-fetch sequences must serialize externally (the scrape
// coordinator does).
type Client struct {
	http     *http.Client
	base     string
	password string

	mu       sync.Mutex
	sid      string
	obtained time.Time
	validFor time.Duration
}

// New creates a Client for the given configuration.
func New(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Pi-hole instances commonly run with self-signed certificates.
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	scheme := "http"
	if cfg.TLS {
		scheme = "https"
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		base:     scheme + "://" + cfg.Host,
		password: cfg.Password,
	}
}

// Authenticate performs the login exchange with Pi-hole and stores the
// resulting session. With no password configured it succeeds immediately
// and requests are sent without a credential.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.password == "" {
		return nil
	}

	payload, err := json.Marshal(authRequest{Password: c.password})
	if err != nil {
		return &AuthError{Kind: KindAuthUnreachable, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth", bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Kind: KindAuthUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &AuthError{Kind: KindAuthUnreachable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Kind: KindInvalidCredentials}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{Kind: KindAuthUnreachable, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var auth authResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&auth); err != nil {
		return &AuthError{Kind: KindAuthUnreachable, Err: err}
	}
	if !auth.Session.Valid || auth.Session.SID == "" {
		return &AuthError{Kind: KindInvalidCredentials}
	}

	validity := time.Duration(auth.Session.Validity) * time.Second
	if validity <= 0 {
		validity = defaultSessionValidity
	}

	c.mu.Lock()
	c.sid = auth.Session.SID
	c.obtained = time.Now()
	c.validFor = validity
	c.mu.Unlock()

	logging.Debug("Authenticated against Pi-hole, session valid for %s", validity)
	return nil
}

// SessionValid reports whether the held session can still be used. An
// unauthenticated client (no password configured) is always usable.
func (c *Client) SessionValid() bool {
	if c.password == "" {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid != "" && time.Since(c.obtained) < c.validFor
}

// InvalidateSession drops the held session so the next scrape
// re-authenticates.
func (c *Client) InvalidateSession() {
	c.mu.Lock()
	c.sid = ""
	c.mu.Unlock()
}

// FetchSummary retrieves /api/stats/summary and returns an immutable
// snapshot of the reported counters.
func (c *Client) FetchSummary(ctx context.Context) (*StatsSnapshot, error) {
	var summary summaryResponse
	if err := c.getJSON(ctx, "/api/stats/summary", &summary); err != nil {
		return nil, err
	}

	return &StatsSnapshot{
		TotalQueries:     summary.Queries.Total,
		BlockedQueries:   summary.Queries.Blocked,
		CachedQueries:    summary.Queries.Cached,
		ForwardedQueries: summary.Queries.Forwarded,
		UniqueDomains:    summary.Queries.UniqueDomains,
		ActiveClients:    summary.Clients.Active,
		GravityDomains:   summary.Gravity.DomainsBeingBlocked,
		QueryTypes:       summary.Queries.Types,
		QueryStatus:      summary.Queries.Status,
		QueryReplies:     summary.Queries.Replies,
	}, nil
}

// FetchUpstreams retrieves /api/stats/upstreams.
func (c *Client) FetchUpstreams(ctx context.Context) ([]UpstreamStat, error) {
	var upstreams upstreamsResponse
	if err := c.getJSON(ctx, "/api/stats/upstreams", &upstreams); err != nil {
		return nil, err
	}

	stats := make([]UpstreamStat, 0, len(upstreams.Upstreams))
	for _, u := range upstreams.Upstreams {
		stats = append(stats, UpstreamStat{
			IP:    u.IP,
			Name:  u.Name,
			Port:  u.Port,
			Count: u.Count,
		})
	}
	return stats, nil
}

// sessionID returns the current session credential, if any.
func (c *Client) sessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

// getJSON performs a GET against a statistics endpoint, attaching the
// session credential when present, and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &FetchError{Kind: KindUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if sid := c.sessionID(); sid != "" {
		req.Header.Set("sid", sid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var nerr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
			return &FetchError{Kind: KindTimeout, Err: err}
		}
		return &FetchError{Kind: KindUnreachable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &FetchError{Kind: KindUnreachable, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &FetchError{Kind: KindSessionExpired}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &FetchError{Kind: KindUnreachable, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Kind: KindParse, Err: err}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
