package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
)

// memoryStore backs both repositories so CastVote can keep the tally in step
// with the users it inserts.
type memoryStore struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	countries map[string]*domain.Country

	castErr   error
	createErr error
	lookupErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     make(map[string]*domain.User),
		countries: make(map[string]*domain.Country),
	}
}

type memoryVotes struct{ *memoryStore }

type memoryCountries struct{ *memoryStore }

func (s memoryVotes) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.users[email], nil
}

func (s memoryVotes) CastVote(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.castErr != nil {
		return s.castErr
	}
	if _, ok := s.users[user.Email]; ok {
		return domain.ErrAlreadyVoted
	}
	for _, c := range s.countries {
		if c.ID == user.CountryID {
			u := *user
			s.users[user.Email] = &u
			c.Votes++
			return nil
		}
	}
	return errors.New("foreign key violation")
}

func (s memoryCountries) GetByCode(ctx context.Context, code string) (*domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.countries[code]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s memoryCountries) Create(ctx context.Context, country *domain.Country) (*domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	if existing, ok := s.countries[country.Code]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *country
	s.countries[country.Code] = &cp
	return country, nil
}

func (s memoryCountries) Top(ctx context.Context, limit int) ([]*domain.Country, error) {
	return s.filter(limit, func(*domain.Country) bool { return true })
}

func (s memoryCountries) Search(ctx context.Context, limit int, query string) ([]*domain.Country, error) {
	q := strings.ToLower(query)
	return s.filter(limit, func(c *domain.Country) bool {
		for _, field := range []string{c.Name, c.Capital, c.Region, c.SubRegion} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

func (s memoryCountries) filter(limit int, match func(*domain.Country) bool) ([]*domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	var out []*domain.Country
	for _, c := range s.countries {
		if c.Votes > 0 && match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Country) int {
		return cmp.Or(cmp.Compare(b.Votes, a.Votes), cmp.Compare(a.Name, b.Name))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *memoryStore) votesFor(code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.countries[code]; ok {
		return c.Votes
	}
	return 0
}

type fakeReference struct {
	countries []domain.ReferenceCountry
	err       error
}

func (f *fakeReference) GetAllCountries(ctx context.Context) ([]domain.ReferenceCountry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.countries, nil
}

func (f *fakeReference) GetCountryByCode(ctx context.Context, code string) (*domain.ReferenceCountry, error) {
	all, err := f.GetAllCountries(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.CCA3 == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeReference) GetCountriesByCodes(ctx context.Context, codes []string) (map[string]domain.ReferenceCountry, error) {
	out := make(map[string]domain.ReferenceCountry)
	for _, code := range codes {
		c, err := f.GetCountryByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out[code] = *c
		}
	}
	return out, nil
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *countingRecorder) VoteSubmitted(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]int)
	}
	r.results[result]++
}

func referenceFixture() []domain.ReferenceCountry {
	return []domain.ReferenceCountry{
		{Name: domain.ReferenceCountryName{Common: "Argentina"}, CCA3: "ARG", Capital: []string{"Buenos Aires"}, Region: "Americas", Subregion: "South America"},
		{Name: domain.ReferenceCountryName{Common: "Brazil"}, CCA3: "BRA", Capital: []string{"Brasília"}, Region: "Americas", Subregion: "South America"},
		{Name: domain.ReferenceCountryName{Common: "Germany"}, CCA3: "DEU", Capital: []string{"Berlin"}, Region: "Europe", Subregion: "Western Europe"},
		{Name: domain.ReferenceCountryName{Common: "Antarctica"}, CCA3: "ATA", Region: "Antarctic"},
	}
}
