package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

const usersEmailIndex = "idx_users_email"

type userRepository struct {
	db *sql.DB
}

var _ ports.VoteRepository = (*userRepository)(nil)

func NewUserRepository(db *sql.DB) ports.VoteRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, name, email, country_id, created_at FROM users WHERE email = $1`
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.CountryID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get user: %w", domain.ErrPersistence, err)
	}
	return user, nil
}

// CastVote inserts the user and bumps the referenced country's tally in one
// transaction.
func (r *userRepository) CastVote(ctx context.Context, user *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	insertUser := `
		INSERT INTO users (id, name, email, country_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertUser, user.ID, user.Name, user.Email, user.CountryID, user.CreatedAt); err != nil {
		if isUniqueViolation(err, usersEmailIndex) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("%w: failed to insert user: %w", domain.ErrPersistence, err)
	}

	incrementVotes := `UPDATE countries SET votes = votes + 1, updated_at = NOW() WHERE id = $1`
	res, err := tx.ExecContext(ctx, incrementVotes, user.CountryID)
	if err != nil {
		return fmt.Errorf("%w: failed to increment votes: %w", domain.ErrPersistence, err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return fmt.Errorf("%w: country %s not updated", domain.ErrPersistence, user.CountryID)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, usersEmailIndex) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("%w: failed to commit transaction: %w", domain.ErrPersistence, err)
	}
	return nil
}
