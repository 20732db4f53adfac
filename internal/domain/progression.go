package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxLevel is the top familiarity level of the progression ladder.
// Levels run 0 (newly introduced) through MaxLevel (the 31-day bucket).
// A correct answer at MaxLevel masters the card.
const MaxLevel = 4

// Validation errors for ProgressionEntry.
var (
	ErrEmptyProgressionUserID = errors.New("progression entry user ID cannot be empty")
	ErrLevelOutOfRange        = errors.New("level must be between 0 and the maximum level")
)

// ProgressionEntry tracks a user's learning state for one card. An entry
// exists only while the card is in learning; mastering the card replaces
// the entry with a MasteryRecord.
type ProgressionEntry struct {
	UserID    uuid.UUID    `json:"user_id"`
	Card      CardIdentity `json:"card"`
	Level     int          `json:"level"`
	NextDueAt time.Time    `json:"next_due_at"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewProgressionEntry creates the entry for a card's first presentation:
// level 0, due immediately.
func NewProgressionEntry(userID uuid.UUID, card CardIdentity, now time.Time) (*ProgressionEntry, error) {
	entry := &ProgressionEntry{
		UserID:    userID,
		Card:      card,
		Level:     0,
		NextDueAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks if the ProgressionEntry has valid data.
// Returns an error if any field fails validation.
func (e *ProgressionEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyProgressionUserID
	}
	if err := e.Card.Validate(); err != nil {
		return err
	}
	if e.Level < 0 || e.Level > MaxLevel {
		return ErrLevelOutOfRange
	}
	return nil
}

// IsDue reports whether the entry is due for review at the given time.
func (e *ProgressionEntry) IsDue(now time.Time) bool {
	return !e.NextDueAt.After(now)
}

// MasteryRecord marks a card that has completed the progression ladder.
// Mastery is a one-time event; at most one record exists per identity and
// its creation is idempotent.
type MasteryRecord struct {
	UserID     uuid.UUID    `json:"user_id"`
	Card       CardIdentity `json:"card"`
	MasteredAt time.Time    `json:"mastered_at"`
}
