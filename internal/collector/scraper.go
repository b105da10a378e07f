package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pihole-exporter/internal/logging"
	"pihole-exporter/internal/metrics"
	"pihole-exporter/internal/pihole"
)

// Client is the slice of the Pi-hole client the scraper needs.
type Client interface {
	Authenticate(ctx context.Context) error
	SessionValid() bool
	InvalidateSession()
	FetchSummary(ctx context.Context) (*pihole.StatsSnapshot, error)
	FetchUpstreams(ctx context.Context) ([]pihole.UpstreamStat, error)
}

// ScrapeError is the terminal error of a scrape, after the single
// re-authenticate-and-retry cycle has been exhausted.
type ScrapeError struct {
	// Reason is a short stable token (also used as a metric label):
	// invalid_credentials, session_expired, parse, timeout, unreachable,
	// render.
	Reason string
	Err    error
}

func (e *ScrapeError) Error() string {
	return "scrape failed (" + e.Reason + "): " + e.Err.Error()
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// Scraper orchestrates refresh-session-if-needed, fetch, map and render.
//
// Concurrent Scrape calls are collapsed into a single upstream call
// sequence: late arrivals block on the in-flight result and receive the
// same outcome. The first caller's context governs the shared attempt.
type Scraper struct {
	client        Client
	withUpstreams bool

	mu    sync.Mutex
	group singleflight.Group
}

// NewScraper creates a Scraper. withUpstreams additionally fetches
// /api/stats/upstreams on every scrape.
func NewScraper(client Client, withUpstreams bool) *Scraper {
	return &Scraper{
		client:        client,
		withUpstreams: withUpstreams,
	}
}

// Scrape performs (or joins) one scrape and returns the rendered
// exposition text.
func (s *Scraper) Scrape(ctx context.Context) (string, error) {
	v, err, shared := s.group.Do("scrape", func() (interface{}, error) {
		return s.scrape(ctx)
	})
	if shared {
		logging.Debug("Scrape request joined an in-flight scrape")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Scraper) scrape(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.ScrapesTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	}()

	text, err := s.collect(ctx)
	if err != nil {
		scrapeErr := &ScrapeError{Reason: failureReason(err), Err: err}
		metrics.ScrapeErrorsTotal.WithLabelValues(scrapeErr.Reason).Inc()
		logging.Warn("Scrape failed: %v", err)
		return "", scrapeErr
	}
	return text, nil
}

// collect runs the pipeline with an explicit two-attempt fetch loop: a
// SessionExpired answer triggers exactly one re-authentication and retry,
// and the second failure surfaces unchanged.
func (s *Scraper) collect(ctx context.Context) (string, error) {
	if !s.client.SessionValid() {
		if err := s.client.Authenticate(ctx); err != nil {
			return "", err
		}
	}

	snap, upstreams, err := s.fetch(ctx)
	if pihole.IsSessionExpired(err) {
		logging.Info("Pi-hole session expired, re-authenticating")
		metrics.SessionRenewalsTotal.Inc()
		s.client.InvalidateSession()
		if authErr := s.client.Authenticate(ctx); authErr != nil {
			return "", authErr
		}
		snap, upstreams, err = s.fetch(ctx)
	}
	if err != nil {
		return "", err
	}

	rendered, err := Render(snap, upstreams)
	if err != nil {
		return "", &renderError{err}
	}
	selfFamilies, err := metrics.Registry.Gather()
	if err != nil {
		return "", &renderError{err}
	}
	selfText, err := encodeFamilies(selfFamilies)
	if err != nil {
		return "", &renderError{err}
	}
	return rendered + selfText, nil
}

func (s *Scraper) fetch(ctx context.Context) (*pihole.StatsSnapshot, []pihole.UpstreamStat, error) {
	snap, err := s.client.FetchSummary(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !s.withUpstreams {
		return snap, nil, nil
	}
	upstreams, err := s.client.FetchUpstreams(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, upstreams, nil
}

// renderError marks failures in the local encode step, as opposed to
// upstream Pi-hole failures.
type renderError struct {
	err error
}

func (e *renderError) Error() string { return "render metrics: " + e.err.Error() }
func (e *renderError) Unwrap() error { return e.err }

// IsRenderError reports whether a ScrapeError originated in the local
// rendering step rather than upstream.
func IsRenderError(err error) bool {
	var re *renderError
	return errors.As(err, &re)
}

func failureReason(err error) string {
	var authErr *pihole.AuthError
	if errors.As(err, &authErr) {
		if authErr.Kind == pihole.KindInvalidCredentials {
			return "invalid_credentials"
		}
		return "unreachable"
	}

	var fetchErr *pihole.FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Kind {
		case pihole.KindSessionExpired:
			return "session_expired"
		case pihole.KindParse:
			return "parse"
		case pihole.KindTimeout:
			return "timeout"
		default:
			return "unreachable"
		}
	}

	if IsRenderError(err) {
		return "render"
	}
	return "unreachable"
}
