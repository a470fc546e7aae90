package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a vote: one row per email, linked to the country it supports.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CountryID uuid.UUID `json:"country_id"`
	CreatedAt time.Time `json:"created_at"`
}
