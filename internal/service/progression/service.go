// Package progression implements the card mastery tracker: it applies
// answers to the spaced-repetition ladder, retires mastered cards into the
// ledger, and serves the review queue and per-deck progress snapshots.
package progression

import (
	"context"
	"errors"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// Service errors
var (
	// ErrInvalidCardIdentity is returned when the card reference is outside
	// its deck's declared range or the deck is unknown. No state changes.
	ErrInvalidCardIdentity = errors.New("invalid card identity")
)

// AnswerResult is the outcome of one submitted answer.
type AnswerResult struct {
	// NewLevel is the card's level after the answer. For a mastered card this
	// is the top level even though the entry itself has been retired.
	NewLevel int

	// NextDueAt is when the card is due again. Zero for a mastered card.
	NextDueAt time.Time

	// JustMastered reports that this answer was the mastery trigger.
	JustMastered bool

	// AlreadyMastered reports that the card had a mastery record before this
	// call (a retried final submission). Nothing was written.
	AlreadyMastered bool

	// Mastery describes the reward granted when JustMastered is true.
	Mastery *MasteryGrant
}

// MasteryGrant describes the one-time reward for mastering a card: a golden
// copy added to the collection ledger. Surfaced to the UI as the
// celebration event.
type MasteryGrant struct {
	Card       domain.CardIdentity
	Rarity     domain.Rarity
	NewlyOwned bool
}

// DueCard is one row of the review queue.
type DueCard struct {
	Card  domain.CardIdentity
	Level int
}

// CardProgress is one card's state in a snapshot.
type CardProgress struct {
	Card      domain.CardIdentity
	Level     int
	NextDueAt time.Time
}

// Snapshot aggregates a deck's learning state for display.
type Snapshot struct {
	DeckID       domain.DeckID
	TotalCards   int
	NotStarted   int
	InProgress   int
	Memorized    int
	DeckMastered bool
	Cards        []CardProgress
}

// Service defines the progression tracker operations.
type Service interface {
	// SubmitAnswer applies one answer to a card. The entry is created
	// implicitly at level 0 on first submission. A correct answer at the top
	// level masters the card: the entry is retired, a mastery record is
	// written, and a golden copy is granted to the ledger, all atomically.
	// The grant is idempotent across retries.
	// Returns ErrInvalidCardIdentity for out-of-range references.
	SubmitAnswer(
		ctx context.Context,
		userID uuid.UUID,
		card domain.CardIdentity,
		correct bool,
	) (*AnswerResult, error)

	// DueForReview returns the deck's active entries due at now, ordered by
	// ascending card number. Does not mutate state.
	DueForReview(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) ([]DueCard, error)

	// DeckSnapshot returns the per-deck aggregate counts and per-card levels.
	DeckSnapshot(ctx context.Context, userID uuid.UUID, deckID domain.DeckID) (*Snapshot, error)
}
