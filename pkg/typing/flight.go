package typing

import "strconv"

// Column names of the enriched table, in export order.
const (
	DepartureICAOColumn = "DepartureAirport_ICAO"
	ArrivalICAOColumn   = "ArrivalAirport_ICAO"
	DepartureTimeColumn = "DepartureTime"
	ArrivalTimeColumn   = "ArrivalTime"
	DistanceColumn      = "DISTANCE"
	DepartureIATAColumn = "DepartureAirport_IATA"
	ArrivalIATAColumn   = "ArrivalAirport_IATA"
	CallsignColumn      = "Callsign"
)

var FlightFields = []string{
	DepartureICAOColumn,
	ArrivalICAOColumn,
	DepartureTimeColumn,
	ArrivalTimeColumn,
	DistanceColumn,
	DepartureIATAColumn,
	ArrivalIATAColumn,
	CallsignColumn,
}

// Flight is a RawFlight enriched with airport codes, ISO times and the
// great-circle distance between both airports. Nil pointers are absent values.
type Flight struct {
	DepartureICAO string   `json:"DepartureAirport_ICAO"`
	ArrivalICAO   string   `json:"ArrivalAirport_ICAO"`
	DepartureTime string   `json:"DepartureTime"`
	ArrivalTime   string   `json:"ArrivalTime"`
	Distance      *float64 `json:"DISTANCE"`
	DepartureIATA *string  `json:"DepartureAirport_IATA"`
	ArrivalIATA   *string  `json:"ArrivalAirport_IATA"`
	Callsign      string   `json:"Callsign"`
}

// AsRecord returns the flight as a row matching FlightFields.
// Absent values become empty cells.
func (f *Flight) AsRecord() []string {
	return []string{
		f.DepartureICAO,
		f.ArrivalICAO,
		f.DepartureTime,
		f.ArrivalTime,
		FormatDistance(f.Distance),
		stringOrEmpty(f.DepartureIATA),
		stringOrEmpty(f.ArrivalIATA),
		f.Callsign,
	}
}

// AsValues is like AsRecord but keeps the distance numeric and absent values nil.
func (f *Flight) AsValues() []any {
	values := []any{f.DepartureICAO, f.ArrivalICAO, f.DepartureTime, f.ArrivalTime, nil, nil, nil, f.Callsign}
	if f.Distance != nil {
		values[4] = *f.Distance
	}
	if f.DepartureIATA != nil {
		values[5] = *f.DepartureIATA
	}
	if f.ArrivalIATA != nil {
		values[6] = *f.ArrivalIATA
	}
	return values
}

func FormatDistance(km *float64) string {
	if km == nil {
		return ""
	}
	return strconv.FormatFloat(*km, 'f', -1, 64)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
