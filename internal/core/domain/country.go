package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotAvailable is stored in place of reference fields the source omits.
const NotAvailable = "N/A"

type Country struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Capital   string    `json:"capital"`
	Region    string    `json:"region"`
	SubRegion string    `json:"sub_region"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReferenceCountry mirrors the subset of the REST Countries payload we request.
type ReferenceCountry struct {
	Name      ReferenceCountryName `json:"name"`
	CCA3      string               `json:"cca3"`
	Capital   []string             `json:"capital,omitempty"`
	Region    string               `json:"region"`
	Subregion string               `json:"subregion,omitempty"`
}

type ReferenceCountryName struct {
	Common string `json:"common"`
}

// NewCountryFromReference builds an unsaved Country with a zero tally.
func NewCountryFromReference(ref ReferenceCountry) *Country {
	capital := NotAvailable
	if len(ref.Capital) > 0 && ref.Capital[0] != "" {
		capital = ref.Capital[0]
	}

	return &Country{
		ID:        uuid.New(),
		Code:      ref.CCA3,
		Name:      ref.Name.Common,
		Capital:   capital,
		Region:    orNotAvailable(ref.Region),
		SubRegion: orNotAvailable(ref.Subregion),
		Votes:     0,
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

type CountrySummary struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
