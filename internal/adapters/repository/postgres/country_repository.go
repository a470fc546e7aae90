package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

const countryColumns = `id, code, name, capital, region, sub_region, votes, created_at, updated_at`

type countryRepository struct {
	db *sql.DB
}

func NewCountryRepository(db *sql.DB) ports.CountryRepository {
	return &countryRepository{
		db: db,
	}
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (*domain.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE code = $1`

	country, err := scanCountry(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get country: %w", domain.ErrPersistence, err)
	}
	return country, nil
}

func (r *countryRepository) Create(ctx context.Context, country *domain.Country) (*domain.Country, error) {
	query := `
		INSERT INTO countries (id, code, name, capital, region, sub_region, votes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
		RETURNING ` + countryColumns

	created, err := scanCountry(r.db.QueryRowContext(ctx, query,
		country.ID, country.Code, country.Name, country.Capital, country.Region, country.SubRegion, country.Votes,
	))
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: failed to insert country: %w", domain.ErrPersistence, err)
	}

	// another writer inserted the same code first
	existing, err := r.GetByCode(ctx, country.Code)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: country %s vanished after conflict", domain.ErrPersistence, country.Code)
	}
	return existing, nil
}

func (r *countryRepository) Top(ctx context.Context, limit int) ([]*domain.Country, error) {
	query := `
		SELECT ` + countryColumns + `
		FROM countries
		WHERE votes > 0
		ORDER BY votes DESC, name ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list top countries: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

func (r *countryRepository) Search(ctx context.Context, limit int, q string) ([]*domain.Country, error) {
	query := `
		SELECT ` + countryColumns + `
		FROM countries
		WHERE votes > 0
		  AND (name ILIKE $1 OR capital ILIKE $1 OR region ILIKE $1 OR sub_region ILIKE $1)
		ORDER BY votes DESC, name ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search countries: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes q match literally inside an ILIKE pattern.
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountry(row rowScanner) (*domain.Country, error) {
	var c domain.Country
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Capital, &c.Region, &c.SubRegion, &c.Votes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCountries(rows *sql.Rows) ([]*domain.Country, error) {
	var countries []*domain.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan country: %w", domain.ErrPersistence, err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating countries: %w", domain.ErrPersistence, err)
	}
	return countries, nil
}
