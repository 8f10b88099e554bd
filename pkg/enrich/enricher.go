// Package enrich turns raw OpenSky flight records into analysis-ready rows.
// It performs no I/O: everything it needs comes from the airport directory
// and the time codec it is built with.
package enrich

import (
	"fmt"

	"github.com/franciscopereira987/opensky-flights/pkg/airports"
	"github.com/franciscopereira987/opensky-flights/pkg/distance"
	"github.com/franciscopereira987/opensky-flights/pkg/isotime"
	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

var (
	ErrMissingFirstSeen = fmt.Errorf("%w: missing firstSeen", isotime.ErrFormat)
	ErrMissingLastSeen  = fmt.Errorf("%w: missing lastSeen", isotime.ErrFormat)
)

type Enricher struct {
	airports *airports.Directory
	computer *distance.Computer
	codec    isotime.Codec
}

func New(dir *airports.Directory, codec isotime.Codec) *Enricher {
	return &Enricher{
		airports: dir,
		computer: distance.NewComputer(dir),
		codec:    codec,
	}
}

// Enrich returns one Flight per raw record, in input order. Unknown airports
// only leave the affected fields empty; a record without timestamps fails the
// whole batch.
func (e *Enricher) Enrich(raw []typing.RawFlight) ([]typing.Flight, error) {
	flights := make([]typing.Flight, len(raw))
	for i := range raw {
		flight, err := e.Record(raw[i])
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, raw[i].ICAO24, err)
		}
		flights[i] = flight
	}
	return flights, nil
}

// Record enriches a single raw record.
func (e *Enricher) Record(raw typing.RawFlight) (typing.Flight, error) {
	if raw.FirstSeen == nil {
		return typing.Flight{}, ErrMissingFirstSeen
	}
	if raw.LastSeen == nil {
		return typing.Flight{}, ErrMissingLastSeen
	}

	dep, arr := raw.EstDepartureAirport, raw.EstArrivalAirport
	return typing.Flight{
		DepartureICAO: dep,
		ArrivalICAO:   arr,
		DepartureTime: e.codec.Format(*raw.FirstSeen),
		ArrivalTime:   e.codec.Format(*raw.LastSeen),
		Distance:      e.distance(dep, arr),
		DepartureIATA: e.iata(dep),
		ArrivalIATA:   e.iata(arr),
		Callsign:      raw.Callsign,
	}, nil
}

func (e *Enricher) iata(icao string) *string {
	iata, ok := e.airports.IATA(icao)
	if !ok {
		return nil
	}
	return &iata
}

func (e *Enricher) distance(dep, arr string) *float64 {
	km, err := e.computer.Distance(dep, arr)
	if err != nil {
		// only distance.ErrNotFound can happen here
		return nil
	}
	return &km
}

// MissCount tallies the fields left empty by directory misses.
type MissCount struct {
	DepartureIATA int
	ArrivalIATA   int
	Distance      int
}

func Misses(flights []typing.Flight) (count MissCount) {
	for i := range flights {
		if flights[i].DepartureIATA == nil {
			count.DepartureIATA++
		}
		if flights[i].ArrivalIATA == nil {
			count.ArrivalIATA++
		}
		if flights[i].Distance == nil {
			count.Distance++
		}
	}
	return count
}
