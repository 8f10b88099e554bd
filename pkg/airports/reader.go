package airports

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/franciscopereira987/opensky-flights/pkg/distance"
)

// Column layout of the OpenFlights airports.dat file, which has no header:
// Airport ID, Name, City, Country, IATA, ICAO, Latitude, Longitude, Altitude,
// Timezone, DST, Tz database time zone, Type, Source.
const (
	NameColumn      = 1
	CityColumn      = 2
	CountryColumn   = 3
	IATAColumn      = 4
	ICAOColumn      = 5
	LatitudeColumn  = 6
	LongitudeColumn = 7
)

// nullValue is how the OpenFlights dump spells a missing value.
const nullValue = `\N`

// Open loads a directory from the file at path.
func Open(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Load reads an airports.dat formatted table. Rows without an ICAO code or
// that cannot be parsed are skipped; cells that do not parse only leave the
// corresponding field empty. The load itself only fails on read errors.
func Load(in io.Reader) (*Directory, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	dir := New()
	for {
		record, err := r.Read()
		if err == io.EOF {
			return dir, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if airport, ok := parseRecord(record); ok {
			dir.add(airport)
		}
	}
}

func parseRecord(record []string) (Airport, bool) {
	if len(record) <= ICAOColumn {
		return Airport{}, false
	}
	airport := Airport{
		ICAO:    cell(record, ICAOColumn),
		IATA:    cell(record, IATAColumn),
		Name:    cell(record, NameColumn),
		City:    cell(record, CityColumn),
		Country: cell(record, CountryColumn),
	}
	if airport.ICAO == "" {
		return Airport{}, false
	}

	lat, errLat := strconv.ParseFloat(cell(record, LatitudeColumn), 64)
	lon, errLon := strconv.ParseFloat(cell(record, LongitudeColumn), 64)
	if errLat == nil && errLon == nil {
		airport.Location = &distance.Coordinates{Lat: lat, Lon: lon}
	}
	return airport, true
}

func cell(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	value := strings.TrimSpace(record[index])
	if value == nullValue {
		return ""
	}
	return value
}
