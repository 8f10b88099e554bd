// Package opensky is a small client for the OpenSky Network flights-by-airport
// endpoints. It validates the requested window, authenticates with either
// Basic Auth or OAuth2 client credentials and returns the records as sent by
// the API. It never retries.
package opensky
