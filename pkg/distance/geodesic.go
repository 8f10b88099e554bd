package distance

import (
	"strconv"

	"github.com/tidwall/geodesic"
)

// Coordinates are a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat, Lon float64
}

// Kilometers returns the geodesic distance between a and b on the WGS84
// ellipsoid. Inputs and result are rounded to 3 decimal places.
func Kilometers(a, b Coordinates) float64 {
	var meters float64
	geodesic.WGS84.Inverse(
		Round(a.Lat), Round(a.Lon),
		Round(b.Lat), Round(b.Lon),
		&meters, nil, nil,
	)
	return Round(meters / 1000)
}

// Round rounds v to 3 decimal places. The exact binary value of v is
// rounded, so 4.7645 (stored just below the tie) becomes 4.764.
func Round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return r
}
