package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// SampleCountries is a trimmed REST Countries v3.1 /all payload.
const SampleCountries = `[
	{"name":{"common":"Argentina"},"cca3":"ARG","capital":["Buenos Aires"],"region":"Americas","subregion":"South America"},
	{"name":{"common":"Brazil"},"cca3":"BRA","capital":["Brasília"],"region":"Americas","subregion":"South America"},
	{"name":{"common":"Germany"},"cca3":"DEU","capital":["Berlin"],"region":"Europe","subregion":"Western Europe"},
	{"name":{"common":"Antarctica"},"cca3":"ATA","region":"Antarctic"}
]`

type RestCountriesServer struct {
	*httptest.Server
	hits atomic.Int32
}

// Hits reports how many requests reached the server.
func (s *RestCountriesServer) Hits() int {
	return int(s.hits.Load())
}

// NewRestCountriesServer serves body at /all until the test ends.
func NewRestCountriesServer(t *testing.T, body string) *RestCountriesServer {
	t.Helper()

	s := &RestCountriesServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if r.URL.Path != "/all" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}
