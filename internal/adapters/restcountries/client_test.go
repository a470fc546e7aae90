package restcountries

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
)

const payload = `[
	{"name":{"common":"Argentina","official":"Argentine Republic"},"cca3":"ARG","capital":["Buenos Aires"],"region":"Americas","subregion":"South America"},
	{"name":{"common":"Brazil"},"cca3":"BRA","capital":["Brasília"],"region":"Americas","subregion":"South America"},
	{"name":{"common":"Antarctica"},"cca3":"ATA","region":"Antarctic"}
]`

type countingServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	query  atomic.Value
}

func newCountingServer(t *testing.T, delay time.Duration) *countingServer {
	t.Helper()

	s := &countingServer{}
	s.status.Store(http.StatusOK)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.query.Store(r.URL.RawQuery)
		if r.URL.Path != "/all" {
			http.NotFound(w, r)
			return
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		status := int(s.status.Load())
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestGetAllCountries_FetchesOnce(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL)
	ctx := context.Background()

	first, err := client.GetAllCountries(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)

	for i := 0; i < 5; i++ {
		again, err := client.GetAllCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	_, err = client.GetCountryByCode(ctx, "ARG")
	require.NoError(t, err)
	_, err = client.GetCountriesByCodes(ctx, []string{"BRA"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "fields=name%2Ccca3%2Ccapital%2Cregion%2Csubregion", srv.query.Load())
}

func TestGetAllCountries_DecodesPayload(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL + "/")

	all, err := client.GetAllCountries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ReferenceCountry{
		Name:      domain.ReferenceCountryName{Common: "Argentina"},
		CCA3:      "ARG",
		Capital:   []string{"Buenos Aires"},
		Region:    "Americas",
		Subregion: "South America",
	}, all[0])
	assert.Nil(t, all[2].Capital)
	assert.Empty(t, all[2].Subregion)
}

func TestGetAllCountries_ConcurrentCallersShareFetch(t *testing.T) {
	srv := newCountingServer(t, 50*time.Millisecond)
	client := NewClient(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := client.GetAllCountries(context.Background())
			assert.NoError(t, err)
			assert.Len(t, all, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestGetAllCountries_CancelledLeaderDoesNotFailPeers(t *testing.T) {
	srv := newCountingServer(t, 200*time.Millisecond)
	client := NewClient(srv.URL)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.GetAllCountries(leaderCtx)
		leaderErr <- err
	}()

	// let the leader start the fetch, then join it and cancel the leader
	require.Eventually(t, func() bool { return srv.hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	followerErr := make(chan error, 1)
	go func() {
		all, err := client.GetAllCountries(context.Background())
		if err == nil && len(all) != 3 {
			err = fmt.Errorf("got %d countries", len(all))
		}
		followerErr <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-leaderErr
	assert.ErrorIs(t, err, domain.ErrReferenceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, <-followerErr)
	assert.Equal(t, int32(1), srv.hits.Load())

	// the shared fetch still populated the cache
	all, err := client.GetAllCountries(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestGetAllCountries_ReturnsCopy(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL)
	ctx := context.Background()

	all, err := client.GetAllCountries(ctx)
	require.NoError(t, err)
	all[0].Name.Common = "changed"
	all[0].Capital[0] = "changed"
	copy(all, all[1:])

	again, err := client.GetAllCountries(ctx)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, "Argentina", again[0].Name.Common)
	assert.Equal(t, []string{"Buenos Aires"}, again[0].Capital)
	assert.Equal(t, "Brazil", again[1].Name.Common)
}

func TestGetAllCountries_FailureIsNotCached(t *testing.T) {
	srv := newCountingServer(t, 0)
	srv.status.Store(http.StatusBadGateway)
	obs := &recordingObserver{}
	client := NewClient(srv.URL, WithObserver(obs))
	ctx := context.Background()

	_, err := client.GetAllCountries(ctx)
	assert.ErrorIs(t, err, domain.ErrReferenceUnavailable)

	_, err = client.GetCountryByCode(ctx, "ARG")
	assert.ErrorIs(t, err, domain.ErrReferenceUnavailable)

	srv.status.Store(http.StatusOK)
	all, err := client.GetAllCountries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Equal(t, int32(3), srv.hits.Load())
	assert.Equal(t, []bool{false, false, true}, obs.results)
}

func TestGetAllCountries_Unreachable(t *testing.T) {
	srv := newCountingServer(t, 0)
	url := srv.URL
	srv.Close()

	client := NewClient(url, WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := client.GetAllCountries(context.Background())
	assert.ErrorIs(t, err, domain.ErrReferenceUnavailable)
}

func TestGetAllCountries_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetAllCountries(context.Background())
	assert.ErrorIs(t, err, domain.ErrReferenceUnavailable)
}

func TestGetCountryByCode(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL)
	ctx := context.Background()

	arg, err := client.GetCountryByCode(ctx, "ARG")
	require.NoError(t, err)
	require.NotNil(t, arg)
	assert.Equal(t, "Argentina", arg.Name.Common)

	for _, code := range []string{"arg", "Arg", "ZZZ", ""} {
		c, err := client.GetCountryByCode(ctx, code)
		require.NoError(t, err)
		assert.Nil(t, c, code)
	}
}

func TestGetCountryByCode_ReturnsCopy(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL)
	ctx := context.Background()

	arg, err := client.GetCountryByCode(ctx, "ARG")
	require.NoError(t, err)
	arg.Name.Common = "changed"

	again, err := client.GetCountryByCode(ctx, "ARG")
	require.NoError(t, err)
	assert.Equal(t, "Argentina", again.Name.Common)
}

func TestGetCountriesByCodes(t *testing.T) {
	srv := newCountingServer(t, 0)
	client := NewClient(srv.URL)

	found, err := client.GetCountriesByCodes(context.Background(), []string{"BRA", "ARG", "BRA", "ZZZ", "ata"})
	require.NoError(t, err)

	assert.Len(t, found, 2)
	assert.Equal(t, "Brazil", found["BRA"].Name.Common)
	assert.Equal(t, "Argentina", found["ARG"].Name.Common)
	_, ok := found["ZZZ"]
	assert.False(t, ok)
	_, ok = found["ata"]
	assert.False(t, ok)
}

func TestGetCountriesByCodes_Empty(t *testing.T) {
	srv := newCountingServer(t, 0)
	found, err := NewClient(srv.URL).GetCountriesByCodes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

type recordingObserver struct {
	mu      sync.Mutex
	results []bool
}

func (o *recordingObserver) ReferenceFetched(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, ok)
}
