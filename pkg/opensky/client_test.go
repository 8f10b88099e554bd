package opensky

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flightsPayload = `[
	{"icao24":"4840d6","firstSeen":1686441600,"estDepartureAirport":"KPSP","lastSeen":1686445200,
	 "estArrivalAirport":"EHAM","callsign":"KLM123  ","estDepartureAirportHorizDistance":1020,
	 "estDepartureAirportVertDistance":30,"estArrivalAirportHorizDistance":null,
	 "estArrivalAirportVertDistance":null,"departureAirportCandidatesCount":1,"arrivalAirportCandidatesCount":0},
	{"icao24":"a1b2c3","firstSeen":1686448800,"estDepartureAirport":null,"lastSeen":1686452400,
	 "estArrivalAirport":"KPSP","callsign":null}
]`

var (
	begin = time.Unix(1686441600, 0)
	end   = time.Unix(1686787200, 0)
)

func TestArrivals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/arrival", r.URL.Path)
		assert.Equal(t, "KPSP", r.URL.Query().Get("airport"))
		assert.Equal(t, "1686441600", r.URL.Query().Get("begin"))
		assert.Equal(t, "1686787200", r.URL.Query().Get("end"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(flightsPayload))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	flights, err := client.Arrivals(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	require.Len(t, flights, 2)

	assert.Equal(t, "KPSP", flights[0].EstDepartureAirport)
	assert.Equal(t, "EHAM", flights[0].EstArrivalAirport)
	assert.Equal(t, "KLM123  ", flights[0].Callsign)
	require.NotNil(t, flights[0].FirstSeen)
	assert.Equal(t, int64(1686441600), *flights[0].FirstSeen)
	assert.Equal(t, "", flights[1].EstDepartureAirport)
	assert.Equal(t, "", flights[1].Callsign)
}

func TestDeparturesUsesDepartureEndpoint(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	flights, err := NewClient(WithBaseURL(srv.URL)).Departures(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	assert.Empty(t, flights)
	assert.Equal(t, "/flights/departure", path)
}

func TestFlightsJSONReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(flightsPayload))
	}))
	defer srv.Close()

	body, err := NewClient(WithBaseURL(srv.URL)).FlightsJSON(context.Background(), Arrival, "KPSP", begin, end)
	require.NoError(t, err)
	assert.Equal(t, flightsPayload, string(body))
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`not found`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Arrivals(context.Background(), "KPSP", begin, end)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "unexpected status: 404")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "/flights/arrival", upstream.Endpoint)
	assert.Equal(t, "not found", upstream.Body)
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"states":`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Arrivals(context.Background(), "KPSP", begin, end)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing arrival response")
}

func TestWindowValidationHappensBeforeRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.Arrivals(context.Background(), "KPSP", end, begin)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = client.Arrivals(context.Background(), "KPSP", begin, begin)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = client.Departures(context.Background(), "KPSP", begin, begin.Add(MaxWindow+time.Second))
	assert.ErrorIs(t, err, ErrWindowTooLong)

	assert.Equal(t, 0, calls)

	_, err = client.Departures(context.Background(), "KPSP", begin, begin.Add(MaxWindow))
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientWithCredentials(t *testing.T) {
	var user, pass string
	var ok bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(
		WithBaseURL(srv.URL),
		WithCredentials("login", "password"),
	)
	_, err := client.Arrivals(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "login", user)
	assert.Equal(t, "password", pass)
}

func TestClientWithClientCredentials(t *testing.T) {
	var gotAuth string
	tokenRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"secret-token","token_type":"Bearer","expires_in":1800}`))
	})
	mux.HandleFunc("/flights/arrival", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(
		WithBaseURL(srv.URL),
		WithClientCredentials("id", "secret"),
		WithTokenURL(srv.URL+"/token"),
	)
	_, err := client.Arrivals(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	_, err = client.Arrivals(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, 1, tokenRequests)
}

func TestContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(WithBaseURL(srv.URL)).Arrivals(ctx, "KPSP", begin, end)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArrivalsAndDeparturesJSON(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(flightsPayload))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	body, err := client.ArrivalsJSON(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	assert.Equal(t, flightsPayload, string(body))

	body, err = client.DeparturesJSON(context.Background(), "KPSP", begin, end)
	require.NoError(t, err)
	assert.Equal(t, flightsPayload, string(body))

	assert.Equal(t, []string{"/flights/arrival", "/flights/departure"}, paths)
}

func TestTimeoutAppliesToCustomHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{}),
		WithTimeout(50*time.Millisecond),
	)

	start := time.Now()
	_, err := client.Arrivals(context.Background(), "KPSP", begin, end)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
