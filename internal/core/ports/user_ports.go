package ports

import (
	"context"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
)

// VoteRepository stores users, each of which is a single vote.
type VoteRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// CastVote inserts the user and increments its country's tally atomically.
	CastVote(ctx context.Context, user *domain.User) error
}
