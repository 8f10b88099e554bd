package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/opensky-flights/pkg/enrich"
	"github.com/franciscopereira987/opensky-flights/pkg/export"
	"github.com/franciscopereira987/opensky-flights/pkg/metrics"
	mid "github.com/franciscopereira987/opensky-flights/pkg/middleware"
	"github.com/franciscopereira987/opensky-flights/pkg/opensky"
	"github.com/franciscopereira987/opensky-flights/pkg/store"
	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

var ErrUnknownDirection = errors.New("unknown direction")

const (
	DirectionArrivals   = "arrivals"
	DirectionDepartures = "departures"
	DirectionBoth       = "both"

	allFile = "all"
)

type Fetcher interface {
	Flights(ctx context.Context, dir opensky.Direction, airport string, begin, end time.Time) ([]typing.RawFlight, error)
	FlightsJSON(ctx context.Context, dir opensky.Direction, airport string, begin, end time.Time) ([]byte, error)
}

type Publisher interface {
	PublishFlights(ctx context.Context, exchange string, kg mid.KeyGenerator, batchId, direction string, flights []typing.Flight) error
}

type Config struct {
	Airport    string
	Begin      time.Time
	End        time.Time
	Directions []opensky.Direction
	OutDir     string
	Format     string
	Raw        bool
}

// ParseDirection maps the CLI direction to the queries to run, departures first.
func ParseDirection(s string) ([]opensky.Direction, error) {
	switch s {
	case DirectionArrivals:
		return []opensky.Direction{opensky.Arrival}, nil
	case DirectionDepartures:
		return []opensky.Direction{opensky.Departure}, nil
	case DirectionBoth:
		return []opensky.Direction{opensky.Departure, opensky.Arrival}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// FileName is the output name for a direction, without extension.
func FileName(dir opensky.Direction) string {
	if dir == opensky.Arrival {
		return "arrivals"
	}
	return "departure"
}

type Pipeline struct {
	fetcher  Fetcher
	enricher *enrich.Enricher
	metrics  *metrics.Metrics

	publisher Publisher
	exchange  string
	keys      mid.KeyGenerator
}

func NewPipeline(fetcher Fetcher, enricher *enrich.Enricher, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		enricher: enricher,
		metrics:  m,
	}
}

// WithPublisher makes Run publish every enriched batch to exchange.
func (p *Pipeline) WithPublisher(pub Publisher, exchange string, shards int) *Pipeline {
	p.publisher = pub
	p.exchange = exchange
	p.keys = mid.NewKeyGenerator(shards)
	return p
}

func (p *Pipeline) Run(ctx context.Context, config Config) error {
	if err := opensky.ValidateWindow(config.Begin, config.End); err != nil {
		return err
	}
	if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
		return err
	}
	if config.Raw {
		return p.runRaw(ctx, config)
	}

	switch config.Format {
	case export.FormatCSV, export.FormatXLSX, export.FormatJSON:
	default:
		return fmt.Errorf("%w: %q", export.ErrUnknownFormat, config.Format)
	}

	batchId := uuid.NewString()
	var all []typing.Flight
	for _, dir := range config.Directions {
		flights, err := p.fetch(ctx, config, dir)
		if err != nil {
			return err
		}

		path := p.output(config, FileName(dir), config.Format)
		if err := export.ToFile(path, flights); err != nil {
			return fmt.Errorf("exporting %s: %w", path, err)
		}
		log.Infof("action: export | result: success | direction: %s | flights: %d | file: %s", dir, len(flights), path)

		if err := p.publish(ctx, batchId, dir, flights); err != nil {
			return err
		}
		all = append(all, flights...)
	}

	if len(config.Directions) > 1 {
		path := p.output(config, allFile, config.Format)
		if err := export.ToFile(path, all); err != nil {
			return fmt.Errorf("exporting %s: %w", path, err)
		}
		log.Infof("action: export | result: success | direction: all | flights: %d | file: %s", len(all), path)
	}
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, config Config, dir opensky.Direction) ([]typing.Flight, error) {
	start := time.Now()
	raw, err := p.fetcher.Flights(ctx, dir, config.Airport, config.Begin, config.End)
	if err != nil {
		log.Errorf("action: fetch | result: fail | direction: %s | airport: %s | error: %s", dir, config.Airport, err)
		return nil, err
	}
	p.metrics.ObserveFetch(string(dir), time.Since(start), len(raw))
	log.Infof("action: fetch | result: success | direction: %s | airport: %s | flights: %d", dir, config.Airport, len(raw))

	flights, err := p.enricher.Enrich(raw)
	if err != nil {
		return nil, fmt.Errorf("enriching %s flights: %w", dir, err)
	}
	p.metrics.ObserveEnriched(string(dir), flights)

	misses := enrich.Misses(flights)
	log.Debugf("action: enrich | result: success | direction: %s | missing_departure_iata: %d | missing_arrival_iata: %d | missing_distance: %d",
		dir, misses.DepartureIATA, misses.ArrivalIATA, misses.Distance)
	return flights, nil
}

func (p *Pipeline) publish(ctx context.Context, batchId string, dir opensky.Direction, flights []typing.Flight) error {
	if p.publisher == nil || len(flights) == 0 {
		return nil
	}
	if err := p.publisher.PublishFlights(ctx, p.exchange, p.keys, batchId, string(dir), flights); err != nil {
		return err
	}
	log.Infof("action: publish | result: success | batch: %s | direction: %s | flights: %d", batchId, dir, len(flights))
	return nil
}

// runRaw stores the upstream responses untouched.
func (p *Pipeline) runRaw(ctx context.Context, config Config) error {
	for _, dir := range config.Directions {
		body, err := p.fetcher.FlightsJSON(ctx, dir, config.Airport, config.Begin, config.End)
		if err != nil {
			return err
		}
		path := p.output(config, FileName(dir), export.FormatJSON)
		if err := store.Store(path, body); err != nil {
			return err
		}
		log.Infof("action: raw dump | result: success | direction: %s | file: %s", dir, path)
	}
	return nil
}

func (p *Pipeline) output(config Config, name, ext string) string {
	return filepath.Join(config.OutDir, name+"."+ext)
}
