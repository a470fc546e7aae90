package ports

import (
	"context"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
)

type CountryRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Country, error)
	// Create inserts the country, or returns the already stored row when
	// another writer created the same code first.
	Create(ctx context.Context, country *domain.Country) (*domain.Country, error)
	Top(ctx context.Context, limit int) ([]*domain.Country, error)
	Search(ctx context.Context, limit int, query string) ([]*domain.Country, error)
}

// ReferenceCountries is the external source of country metadata.
type ReferenceCountries interface {
	GetAllCountries(ctx context.Context) ([]domain.ReferenceCountry, error)
	GetCountryByCode(ctx context.Context, code string) (*domain.ReferenceCountry, error)
	GetCountriesByCodes(ctx context.Context, codes []string) (map[string]domain.ReferenceCountry, error)
}

type CountryService interface {
	ListCountries(ctx context.Context) ([]domain.CountrySummary, error)
}
