package ports

import (
	"context"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
)

type VoteService interface {
	SubmitVote(ctx context.Context, input domain.VoteInput) error
	GetTopCountries(ctx context.Context) ([]domain.RankedCountry, error)
	SearchCountries(ctx context.Context, query string) ([]domain.RankedCountry, error)
}

// VoteRecorder observes workflow outcomes; implemented by the metrics package.
type VoteRecorder interface {
	VoteSubmitted(result string)
}
