package handlers

import "context"

// Scraper produces rendered Prometheus exposition text from a live
// Pi-hole scrape.
type Scraper interface {
	Scrape(ctx context.Context) (string, error)
}

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	scraper Scraper
}

// New creates the handler set around the given scraper.
func New(scraper Scraper) *Handlers {
	return &Handlers{scraper: scraper}
}
