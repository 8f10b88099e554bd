package typing

// RawFlight mirrors one element of the OpenSky /flights/arrival and
// /flights/departure responses. Airports and callsign are empty when the
// upstream sends null; FirstSeen and LastSeen are nil when missing.
type RawFlight struct {
	ICAO24              string `json:"icao24"`
	FirstSeen           *int64 `json:"firstSeen"`
	EstDepartureAirport string `json:"estDepartureAirport"`
	LastSeen            *int64 `json:"lastSeen"`
	EstArrivalAirport   string `json:"estArrivalAirport"`
	Callsign            string `json:"callsign"`

	// Not used by enrichment.
	EstDepartureAirportHorizDistance *int `json:"estDepartureAirportHorizDistance,omitempty"`
	EstDepartureAirportVertDistance  *int `json:"estDepartureAirportVertDistance,omitempty"`
	EstArrivalAirportHorizDistance   *int `json:"estArrivalAirportHorizDistance,omitempty"`
	EstArrivalAirportVertDistance    *int `json:"estArrivalAirportVertDistance,omitempty"`
	DepartureAirportCandidatesCount  int  `json:"departureAirportCandidatesCount,omitempty"`
	ArrivalAirportCandidatesCount    int  `json:"arrivalAirportCandidatesCount,omitempty"`
}

// Seen builds the optional epoch fields of a RawFlight.
func Seen(sec int64) *int64 {
	return &sec
}
