package domain

import "errors"

var (
	ErrAuthRequired         = errors.New("authentication required")
	ErrInvalidListingData   = errors.New("invalid listing data")
	ErrInvalidMedia         = errors.New("invalid media selection")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrPersistFailed        = errors.New("failed to save listing")
)
