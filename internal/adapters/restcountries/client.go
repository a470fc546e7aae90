// Package restcountries fetches country reference data from the REST
// Countries v3.1 API and memoizes it for the lifetime of the process.
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1"
	DefaultTimeout = 10 * time.Second

	fields = "name,cca3,capital,region,subregion"
)

// FetchObserver is notified after every outbound fetch.
type FetchObserver interface {
	ReferenceFetched(ok bool)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithObserver(o FetchObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	observer   FetchObserver

	group     singleflight.Group
	mu        sync.RWMutex
	countries []domain.ReferenceCountry
}

var _ ports.ReferenceCountries = (*Client)(nil)

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return c
}

// GetAllCountries returns a copy of the cached list, fetching it on first
// use. Failed fetches are not cached so the next call retries.
func (c *Client) GetAllCountries(ctx context.Context) ([]domain.ReferenceCountry, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReferenceCountry, len(all))
	for i := range all {
		out[i] = cloneCountry(all[i])
	}
	return out, nil
}

// GetCountryByCode matches cca3 exactly. A missing code yields (nil, nil).
func (c *Client) GetCountryByCode(ctx context.Context, code string) (*domain.ReferenceCountry, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].CCA3 == code {
			country := cloneCountry(all[i])
			return &country, nil
		}
	}
	return nil, nil
}

// GetCountriesByCodes maps each distinct known code to its record; unknown
// codes are left out.
func (c *Client) GetCountriesByCodes(ctx context.Context, codes []string) (map[string]domain.ReferenceCountry, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}

	found := make(map[string]domain.ReferenceCountry, len(wanted))
	for _, country := range all {
		if _, ok := wanted[country.CCA3]; ok {
			found[country.CCA3] = cloneCountry(country)
		}
	}
	return found, nil
}

// all returns the shared cache; callers must not modify it.
func (c *Client) all(ctx context.Context) ([]domain.ReferenceCountry, error) {
	if cached := c.cached(); cached != nil {
		return cached, nil
	}

	// The fetch outlives any single caller; the http.Client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("all", func() (any, error) {
		if cached := c.cached(); cached != nil {
			return cached, nil
		}
		countries, err := c.fetch(fetchCtx)
		if c.observer != nil {
			c.observer.ReferenceFetched(err == nil)
		}
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.countries = countries
		c.mu.Unlock()
		c.logger.Info("reference countries loaded", "count", len(countries))
		return countries, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrReferenceUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("joined in-flight reference fetch")
		}
		return res.Val.([]domain.ReferenceCountry), nil
	}
}

func (c *Client) cached() []domain.ReferenceCountry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.countries
}

func (c *Client) fetch(ctx context.Context) ([]domain.ReferenceCountry, error) {
	endpoint := c.baseURL + "/all?" + url.Values{"fields": {fields}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", domain.ErrReferenceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("reference countries request failed", "url", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrReferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("reference countries request failed", "url", endpoint, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrReferenceUnavailable, resp.StatusCode)
	}

	var countries []domain.ReferenceCountry
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrReferenceUnavailable, err)
	}
	if countries == nil {
		countries = []domain.ReferenceCountry{}
	}

	c.logger.Debug("reference countries fetched", "count", len(countries), "duration_ms", time.Since(start).Milliseconds())
	return countries, nil
}

func cloneCountry(c domain.ReferenceCountry) domain.ReferenceCountry {
	c.Capital = slices.Clone(c.Capital)
	return c
}
