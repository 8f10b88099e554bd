package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/franciscopereira987/opensky-flights/pkg/enrich"
	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

// Metrics describes one run of the tool. It uses its own registry so runs
// can be flushed to a node-exporter textfile without the Go runtime series.
type Metrics struct {
	registry *prometheus.Registry

	FlightsFetched  *prometheus.CounterVec
	FlightsEnriched *prometheus.CounterVec
	LookupMisses    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FlightsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opensky_flights_fetched_total",
				Help: "Total number of raw flights returned by OpenSky",
			},
			[]string{"direction"},
		),
		FlightsEnriched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opensky_flights_enriched_total",
				Help: "Total number of enriched flights",
			},
			[]string{"direction"},
		),
		LookupMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opensky_lookup_misses_total",
				Help: "Enriched fields left empty because the airport directory had no answer",
			},
			[]string{"field"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opensky_fetch_duration_seconds",
				Help:    "Duration of OpenSky flights requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"direction"},
		),
	}
	m.registry.MustRegister(m.FlightsFetched, m.FlightsEnriched, m.LookupMisses, m.FetchDuration)
	return m
}

func (m *Metrics) ObserveFetch(direction string, d time.Duration, flights int) {
	m.FetchDuration.WithLabelValues(direction).Observe(d.Seconds())
	m.FlightsFetched.WithLabelValues(direction).Add(float64(flights))
}

func (m *Metrics) ObserveEnriched(direction string, flights []typing.Flight) {
	m.FlightsEnriched.WithLabelValues(direction).Add(float64(len(flights)))

	misses := enrich.Misses(flights)
	m.LookupMisses.WithLabelValues("departure_iata").Add(float64(misses.DepartureIATA))
	m.LookupMisses.WithLabelValues("arrival_iata").Add(float64(misses.ArrivalIATA))
	m.LookupMisses.WithLabelValues("distance").Add(float64(misses.Distance))
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile dumps the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
