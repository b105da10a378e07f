package collector

import (
	"bytes"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"pihole-exporter/internal/pihole"
)

// Metric families built from a StatsSnapshot. Names, types and label sets
// are fixed; Pi-hole values pass through unconverted.
var (
	queriesTotalDesc = prometheus.NewDesc(
		"pihole_queries_total",
		"Total DNS queries in the last 24 hours",
		nil, nil,
	)
	queriesBlockedDesc = prometheus.NewDesc(
		"pihole_queries_blocked_total",
		"DNS queries blocked in the last 24 hours",
		nil, nil,
	)
	queriesCachedDesc = prometheus.NewDesc(
		"pihole_queries_cached_total",
		"DNS queries answered from cache in the last 24 hours",
		nil, nil,
	)
	queriesForwardedDesc = prometheus.NewDesc(
		"pihole_queries_forwarded_total",
		"DNS queries forwarded upstream in the last 24 hours",
		nil, nil,
	)
	uniqueDomainsDesc = prometheus.NewDesc(
		"pihole_unique_domains_total",
		"Unique domains seen in the last 24 hours",
		nil, nil,
	)
	clientsDesc = prometheus.NewDesc(
		"pihole_clients_total",
		"Clients active in the last 24 hours",
		nil, nil,
	)
	gravityDomainsDesc = prometheus.NewDesc(
		"pihole_gravity_domains_total",
		"Domains on the current gravity blocklist",
		nil, nil,
	)
	queriesByTypeDesc = prometheus.NewDesc(
		"pihole_queries_by_type_total",
		"DNS queries in the last 24 hours by query type",
		[]string{"type"}, nil,
	)
	queriesByStatusDesc = prometheus.NewDesc(
		"pihole_queries_by_status_total",
		"DNS queries in the last 24 hours by processing status",
		[]string{"status"}, nil,
	)
	queriesByReplyDesc = prometheus.NewDesc(
		"pihole_queries_by_reply_total",
		"DNS queries in the last 24 hours by reply type",
		[]string{"reply_type"}, nil,
	)

	upstreamQueriesDesc = prometheus.NewDesc(
		"pihole_upstream_queries_total",
		"DNS queries in the last 24 hours by upstream destination",
		[]string{"ip", "name", "port"}, nil,
	)
)

// snapshotSchema is the fixed family surface derived from a snapshot, in
// name order. Families whose breakdown map is empty are still reported so
// the exposed surface stays stable across scrapes.
var snapshotSchema = []struct {
	name string
	help string
	typ  dto.MetricType
}{
	{"pihole_clients_total", "Clients active in the last 24 hours", dto.MetricType_GAUGE},
	{"pihole_gravity_domains_total", "Domains on the current gravity blocklist", dto.MetricType_GAUGE},
	{"pihole_queries_blocked_total", "DNS queries blocked in the last 24 hours", dto.MetricType_COUNTER},
	{"pihole_queries_by_reply_total", "DNS queries in the last 24 hours by reply type", dto.MetricType_COUNTER},
	{"pihole_queries_by_status_total", "DNS queries in the last 24 hours by processing status", dto.MetricType_COUNTER},
	{"pihole_queries_by_type_total", "DNS queries in the last 24 hours by query type", dto.MetricType_COUNTER},
	{"pihole_queries_cached_total", "DNS queries answered from cache in the last 24 hours", dto.MetricType_COUNTER},
	{"pihole_queries_forwarded_total", "DNS queries forwarded upstream in the last 24 hours", dto.MetricType_COUNTER},
	{"pihole_queries_total", "Total DNS queries in the last 24 hours", dto.MetricType_COUNTER},
	{"pihole_unique_domains_total", "Unique domains seen in the last 24 hours", dto.MetricType_GAUGE},
}

// snapshotCollector emits every populated series for one snapshot.
// Zero-count breakdown entries are emitted like any other, so downstream
// rate() queries never see gaps.
type snapshotCollector struct {
	snap *pihole.StatsSnapshot
}

func (c *snapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queriesTotalDesc
	ch <- queriesBlockedDesc
	ch <- queriesCachedDesc
	ch <- queriesForwardedDesc
	ch <- uniqueDomainsDesc
	ch <- clientsDesc
	ch <- gravityDomainsDesc
	ch <- queriesByTypeDesc
	ch <- queriesByStatusDesc
	ch <- queriesByReplyDesc
}

func (c *snapshotCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(queriesTotalDesc, prometheus.CounterValue, float64(c.snap.TotalQueries))
	ch <- prometheus.MustNewConstMetric(queriesBlockedDesc, prometheus.CounterValue, float64(c.snap.BlockedQueries))
	ch <- prometheus.MustNewConstMetric(queriesCachedDesc, prometheus.CounterValue, float64(c.snap.CachedQueries))
	ch <- prometheus.MustNewConstMetric(queriesForwardedDesc, prometheus.CounterValue, float64(c.snap.ForwardedQueries))
	ch <- prometheus.MustNewConstMetric(uniqueDomainsDesc, prometheus.GaugeValue, float64(c.snap.UniqueDomains))
	ch <- prometheus.MustNewConstMetric(clientsDesc, prometheus.GaugeValue, float64(c.snap.ActiveClients))
	ch <- prometheus.MustNewConstMetric(gravityDomainsDesc, prometheus.GaugeValue, float64(c.snap.GravityDomains))

	for queryType, count := range c.snap.QueryTypes {
		ch <- prometheus.MustNewConstMetric(queriesByTypeDesc, prometheus.CounterValue, float64(count), queryType)
	}
	for status, count := range c.snap.QueryStatus {
		ch <- prometheus.MustNewConstMetric(queriesByStatusDesc, prometheus.CounterValue, float64(count), status)
	}
	for replyType, count := range c.snap.QueryReplies {
		ch <- prometheus.MustNewConstMetric(queriesByReplyDesc, prometheus.CounterValue, float64(count), replyType)
	}
}

// upstreamCollector emits the per-upstream family. It is used only when
// upstream statistics were fetched, keeping the core snapshot surface
// independent of the optional endpoint.
type upstreamCollector struct {
	upstreams []pihole.UpstreamStat
}

func (c *upstreamCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upstreamQueriesDesc
}

func (c *upstreamCollector) Collect(ch chan<- prometheus.Metric) {
	for _, u := range c.upstreams {
		ch <- prometheus.MustNewConstMetric(
			upstreamQueriesDesc,
			prometheus.CounterValue,
			float64(u.Count),
			u.IP, u.Name, strconv.Itoa(u.Port),
		)
	}
}

// MapSnapshot converts one snapshot into its fixed set of metric
// families. The result always holds exactly the families of
// snapshotSchema, in order; families whose breakdown map was empty carry
// no series but are still present.
func MapSnapshot(snap *pihole.StatsSnapshot) ([]*dto.MetricFamily, error) {
	gathered, err := gatherCollector(&snapshotCollector{snap: snap})
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*dto.MetricFamily, len(gathered))
	for _, mf := range gathered {
		byName[mf.GetName()] = mf
	}

	families := make([]*dto.MetricFamily, 0, len(snapshotSchema))
	for _, schema := range snapshotSchema {
		mf, ok := byName[schema.name]
		if !ok {
			name, help := schema.name, schema.help
			mf = &dto.MetricFamily{
				Name: &name,
				Help: &help,
				Type: schema.typ.Enum(),
			}
		}
		families = append(families, mf)
	}
	return families, nil
}

// mapUpstreams converts the upstream rows into their metric family.
func mapUpstreams(upstreams []pihole.UpstreamStat) ([]*dto.MetricFamily, error) {
	return gatherCollector(&upstreamCollector{upstreams: upstreams})
}

func gatherCollector(c prometheus.Collector) ([]*dto.MetricFamily, error) {
	registry := prometheus.NewPedanticRegistry()
	if err := registry.Register(c); err != nil {
		return nil, err
	}
	return registry.Gather()
}

// Render maps one snapshot (plus optional upstream rows) onto the metric
// families and encodes them as Prometheus text exposition. Rendering the
// same snapshot twice yields byte-identical output.
func Render(snap *pihole.StatsSnapshot, upstreams []pihole.UpstreamStat) (string, error) {
	families, err := MapSnapshot(snap)
	if err != nil {
		return "", err
	}

	if len(upstreams) > 0 {
		upstreamFamilies, err := mapUpstreams(upstreams)
		if err != nil {
			return "", err
		}
		families = append(families, upstreamFamilies...)
	}

	return encodeFamilies(families)
}

// encodeFamilies writes the families as text exposition. Families without
// series are skipped: expfmt rejects them, and an absent family is how
// the text format expresses an empty one.
func encodeFamilies(families []*dto.MetricFamily) (string, error) {
	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if len(family.GetMetric()) == 0 {
			continue
		}
		if err := encoder.Encode(family); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
