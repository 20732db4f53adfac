package srs

import (
	"errors"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
)

// Common errors
var (
	ErrNilEntry     = errors.New("progression entry cannot be nil")
	ErrInvalidLevel = errors.New("progression entry level out of range")
)

// Service defines the interface for progression ladder operations.
type Service interface {
	// Advance computes the entry's state after an answer. The returned entry
	// is a new instance; the input is never mutated. The boolean reports
	// whether this answer mastered the card, in which case the caller is
	// responsible for retiring the entry and granting the mastery reward.
	Advance(
		entry *domain.ProgressionEntry,
		correct bool,
		now time.Time,
	) (*domain.ProgressionEntry, bool, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Advance implements the Service interface.
func (s *defaultService) Advance(
	entry *domain.ProgressionEntry,
	correct bool,
	now time.Time,
) (*domain.ProgressionEntry, bool, error) {
	if entry == nil {
		return nil, false, ErrNilEntry
	}
	if entry.Level < 0 || entry.Level > s.params.MaxLevel {
		return nil, false, ErrInvalidLevel
	}

	newEntry, mastered := calculateNextEntry(entry, correct, now, s.params)
	return newEntry, mastered, nil
}
