package pihole

// StatsSnapshot is one point-in-time read of Pi-hole's reported counters.
// It is built once per scrape and never mutated afterwards.
type StatsSnapshot struct {
	TotalQueries     uint64
	BlockedQueries   uint64
	CachedQueries    uint64
	ForwardedQueries uint64
	UniqueDomains    uint64
	ActiveClients    uint64
	GravityDomains   uint64

	// Breakdown maps as reported by /api/stats/summary. Keys are unique;
	// zero-count entries are preserved so the metric surface stays stable.
	QueryTypes   map[string]uint64
	QueryStatus  map[string]uint64
	QueryReplies map[string]uint64
}

// UpstreamStat is one upstream destination row from /api/stats/upstreams.
type UpstreamStat struct {
	IP    string
	Name  string
	Port  int
	Count uint64
}

// Wire shapes for the Pi-hole v6 API.

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Session struct {
		SID      string `json:"sid"`
		Valid    bool   `json:"valid"`
		Validity int    `json:"validity"` // seconds
	} `json:"session"`
}

type summaryResponse struct {
	Queries struct {
		Types         map[string]uint64 `json:"types"`
		Status        map[string]uint64 `json:"status"`
		Replies       map[string]uint64 `json:"replies"`
		Total         uint64            `json:"total"`
		Blocked       uint64            `json:"blocked"`
		UniqueDomains uint64            `json:"unique_domains"`
		Forwarded     uint64            `json:"forwarded"`
		Cached        uint64            `json:"cached"`
	} `json:"queries"`
	Clients struct {
		Active uint64 `json:"active"`
		Total  uint64 `json:"total"`
	} `json:"clients"`
	Gravity struct {
		DomainsBeingBlocked uint64 `json:"domains_being_blocked"`
	} `json:"gravity"`
}

type upstreamsResponse struct {
	Upstreams []struct {
		IP    string `json:"ip"`
		Name  string `json:"name"`
		Port  int    `json:"port"`
		Count uint64 `json:"count"`
	} `json:"upstreams"`
}
