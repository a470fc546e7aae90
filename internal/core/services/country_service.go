package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

type countryService struct {
	reference ports.ReferenceCountries
}

func NewCountryService(reference ports.ReferenceCountries) ports.CountryService {
	return &countryService{
		reference: reference,
	}
}

// ListCountries returns every reference country sorted by name.
func (s *countryService) ListCountries(ctx context.Context) ([]domain.CountrySummary, error) {
	all, err := s.reference.GetAllCountries(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.CountrySummary, 0, len(all))
	for _, c := range all {
		summaries = append(summaries, domain.CountrySummary{Name: c.Name.Common, Code: c.CCA3})
	}
	slices.SortFunc(summaries, func(a, b domain.CountrySummary) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Code, b.Code))
	})

	return summaries, nil
}
