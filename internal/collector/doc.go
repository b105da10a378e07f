// Package collector turns Pi-hole statistics into Prometheus exposition
// text.
//
// The mapping from a snapshot to metric families is pure: a fresh registry
// is populated from the snapshot on every scrape, so the output is never a
// partial mix of two reads. The Scraper serializes the whole
// authenticate-fetch-render pipeline and collapses concurrent scrape
// requests into a single upstream call sequence.
package collector
