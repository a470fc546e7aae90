package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

// Vote outcomes reported to the recorder.
const (
	ResultCreated        = "created"
	ResultDuplicate      = "duplicate"
	ResultInvalidCountry = "invalid_country"
	ResultInvalidInput   = "invalid_input"
	ResultUnavailable    = "unavailable"
	ResultError          = "error"
)

type voteService struct {
	voteRepo    ports.VoteRepository
	countryRepo ports.CountryRepository
	reference   ports.ReferenceCountries
	recorder    ports.VoteRecorder
	logger      *slog.Logger
}

func NewVoteService(
	voteRepo ports.VoteRepository,
	countryRepo ports.CountryRepository,
	reference ports.ReferenceCountries,
	recorder ports.VoteRecorder,
	logger *slog.Logger,
) ports.VoteService {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &voteService{
		voteRepo:    voteRepo,
		countryRepo: countryRepo,
		reference:   reference,
		recorder:    recorder,
		logger:      logger,
	}
}

func (s *voteService) SubmitVote(ctx context.Context, input domain.VoteInput) error {
	err := s.submitVote(ctx, input.Normalize())
	s.record(err)
	return err
}

func (s *voteService) submitVote(ctx context.Context, input domain.VoteInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	existing, err := s.voteRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return s.internal("failed to look up voter", err)
	}
	if existing != nil {
		return domain.ErrAlreadyVoted
	}

	ref, err := s.reference.GetCountryByCode(ctx, input.CountryCode)
	if err != nil {
		if errors.Is(err, domain.ErrReferenceUnavailable) {
			s.logger.Error("reference countries unavailable", "error", err)
			return err
		}
		return s.internal("failed to validate country", err)
	}
	if ref == nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCountry, input.CountryCode)
	}

	country, err := s.countryRepo.GetByCode(ctx, ref.CCA3)
	if err != nil {
		return s.internal("failed to look up country", err)
	}
	if country == nil {
		country, err = s.countryRepo.Create(ctx, domain.NewCountryFromReference(*ref))
		if err != nil {
			return s.internal("failed to create country", err)
		}
		s.logger.Info("country created", "code", country.Code, "name", country.Name)
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		CountryID: country.ID,
		CreatedAt: time.Now(),
	}
	if err := s.voteRepo.CastVote(ctx, user); err != nil {
		// a concurrent submission with the same email won the unique index
		if errors.Is(err, domain.ErrAlreadyVoted) {
			return domain.ErrAlreadyVoted
		}
		return s.internal("failed to cast vote", err)
	}

	s.logger.Info("vote cast", "country", country.Code, "user_id", user.ID)
	return nil
}

func (s *voteService) GetTopCountries(ctx context.Context) ([]domain.RankedCountry, error) {
	countries, err := s.countryRepo.Top(ctx, domain.LeaderboardSize)
	if err != nil {
		return nil, s.internal("failed to fetch top countries", err)
	}
	return domain.Rank(countries), nil
}

func (s *voteService) SearchCountries(ctx context.Context, query string) ([]domain.RankedCountry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetTopCountries(ctx)
	}

	countries, err := s.countryRepo.Search(ctx, domain.LeaderboardSize, query)
	if err != nil {
		return nil, s.internal("failed to search countries", err)
	}
	return domain.Rank(countries), nil
}

func (s *voteService) internal(msg string, err error) error {
	s.logger.Error(msg, "error", err)
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, msg, err)
}

func (s *voteService) record(err error) {
	if s.recorder == nil {
		return
	}

	switch {
	case err == nil:
		s.recorder.VoteSubmitted(ResultCreated)
	case errors.Is(err, domain.ErrAlreadyVoted):
		s.recorder.VoteSubmitted(ResultDuplicate)
	case errors.Is(err, domain.ErrInvalidCountry):
		s.recorder.VoteSubmitted(ResultInvalidCountry)
	case errors.Is(err, domain.ErrInvalidInput):
		s.recorder.VoteSubmitted(ResultInvalidInput)
	case errors.Is(err, domain.ErrReferenceUnavailable):
		s.recorder.VoteSubmitted(ResultUnavailable)
	default:
		s.recorder.VoteSubmitted(ResultError)
	}
}
