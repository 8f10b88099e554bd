package airports_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciscopereira987/opensky-flights/pkg/airports"
	"github.com/franciscopereira987/opensky-flights/pkg/distance"
)

const sample = `3484,"Palm Springs International Airport","Palm Springs","United States","PSP","KPSP",33.8297004699707,-116.50700378418,477,-8,"A","America/Los_Angeles","airport","OurAirports"
580,"Amsterdam Airport Schiphol","Amsterdam","Netherlands","AMS","EHAM",52.308601,4.76389,-11,1,"E","Europe/Amsterdam","airport","OurAirports"
5880,"Bokpyinn Airport","Bokpyin","Burma",\N,"VYBP",11.1494,98.735901,150,6.5,"N","Asia/Rangoon","airport","OurAirports"
9999,"No Coordinates","Nowhere","Nowhere","NCX","ZZNC",north,west,0,0,"N","\N","airport","OurAirports"
1,"Duplicate Schiphol","Elsewhere","Nowhere","XXX","EHAM",0,0,0,0,"N","\N","airport","OurAirports"
2,"No ICAO","Nowhere","Nowhere","NIC",\N,1,1,0,0,"N","\N","airport","OurAirports"
3,"Short row"
`

func loadSample(t *testing.T) *airports.Directory {
	t.Helper()
	dir, err := airports.Load(strings.NewReader(sample))
	require.NoError(t, err)
	return dir
}

func TestLoad(t *testing.T) {
	dir := loadSample(t)

	assert.Equal(t, 4, dir.Len())

	airport, ok := dir.Airport("EHAM")
	require.True(t, ok)
	assert.Equal(t, "Amsterdam Airport Schiphol", airport.Name)
	assert.Equal(t, "Netherlands", airport.Country)
}

func TestIATA(t *testing.T) {
	dir := loadSample(t)

	iata, ok := dir.IATA("KPSP")
	assert.True(t, ok)
	assert.Equal(t, "PSP", iata)

	_, ok = dir.IATA("VYBP")
	assert.False(t, ok, "null IATA must be a miss")

	_, ok = dir.IATA("ZZZZ")
	assert.False(t, ok, "unknown ICAO must be a miss")
}

func TestCoordinates(t *testing.T) {
	dir := loadSample(t)

	coords, ok := dir.Coordinates("EHAM")
	require.True(t, ok)
	assert.InDelta(t, 52.308601, coords.Lat, 1e-9)
	assert.InDelta(t, 4.76389, coords.Lon, 1e-9)

	_, ok = dir.Coordinates("ZZNC")
	assert.False(t, ok, "unparsable coordinates must be a miss")

	iata, ok := dir.IATA("ZZNC")
	assert.True(t, ok)
	assert.Equal(t, "NCX", iata)
}

func TestEmptyDirectory(t *testing.T) {
	dir, err := airports.Load(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 0, dir.Len())
	_, ok := dir.IATA("EHAM")
	assert.False(t, ok)
	_, ok = dir.Coordinates("EHAM")
	assert.False(t, ok)
}

func TestNewKeepsFirstDuplicate(t *testing.T) {
	dir := airports.New(
		airports.Airport{ICAO: "EHAM", IATA: "AMS", Location: &distance.Coordinates{Lat: 52.308, Lon: 4.764}},
		airports.Airport{ICAO: "EHAM", IATA: "XXX"},
		airports.Airport{IATA: "NOP"},
	)

	assert.Equal(t, 1, dir.Len())
	iata, _ := dir.IATA("EHAM")
	assert.Equal(t, "AMS", iata)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world_airports.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	dir, err := airports.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 4, dir.Len())

	_, err = airports.Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
