package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrNotFound        = errors.New("not found")
	ErrScoringFailure  = errors.New("scoring failure")
	ErrPoolClosed      = errors.New("worker pool closed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

// ScoringError reports a failed oracle call for one (attraction, user) pair.
type ScoringError struct {
	AttractionID uuid.UUID
	UserID       uuid.UUID
	Err          error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring attraction %s for user %s: %v", e.AttractionID, e.UserID, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

func (e *ScoringError) Is(target error) bool { return target == ErrScoringFailure }
