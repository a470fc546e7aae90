package domain

import "errors"

var (
	ErrAlreadyVoted         = errors.New("email has already been used to vote")
	ErrInvalidCountry       = errors.New("invalid country code")
	ErrInvalidInput         = errors.New("invalid input")
	ErrReferenceUnavailable = errors.New("failed to fetch reference countries")
	ErrPersistence          = errors.New("persistence failure")
	ErrInternal             = errors.New("internal server error")
)
