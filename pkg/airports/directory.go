// Package airports holds the static airport reference table used to resolve
// ICAO codes into IATA codes and coordinates.
package airports

import (
	"github.com/franciscopereira987/opensky-flights/pkg/distance"
)

// Airport is one row of the reference table. IATA is empty when the airport
// has none; Location is nil when its coordinates are unknown.
type Airport struct {
	ICAO     string
	IATA     string
	Name     string
	City     string
	Country  string
	Location *distance.Coordinates
}

// Directory answers code and coordinate lookups by ICAO code. It is built
// once and never modified, so it may be shared freely.
type Directory struct {
	airports map[string]Airport
}

// New builds a directory from airports. When an ICAO code repeats, the first
// airport wins.
func New(airports ...Airport) *Directory {
	dir := &Directory{airports: make(map[string]Airport, len(airports))}
	for _, airport := range airports {
		dir.add(airport)
	}
	return dir
}

func (dir *Directory) add(airport Airport) {
	if airport.ICAO == "" {
		return
	}
	if _, ok := dir.airports[airport.ICAO]; ok {
		return
	}
	dir.airports[airport.ICAO] = airport
}

func (dir *Directory) Len() int {
	return len(dir.airports)
}

// Airport returns the row for icao.
func (dir *Directory) Airport(icao string) (Airport, bool) {
	airport, ok := dir.airports[icao]
	return airport, ok
}

// IATA returns the IATA code of the airport icao. A miss is not an error:
// unknown airports and airports without an IATA code both report false.
func (dir *Directory) IATA(icao string) (string, bool) {
	airport, ok := dir.airports[icao]
	if !ok || airport.IATA == "" {
		return "", false
	}
	return airport.IATA, true
}

// Coordinates returns the location of the airport icao, or false when the
// airport is unknown or has no usable coordinates.
func (dir *Directory) Coordinates(icao string) (distance.Coordinates, bool) {
	airport, ok := dir.airports[icao]
	if !ok || airport.Location == nil {
		return distance.Coordinates{}, false
	}
	return *airport.Location, true
}
