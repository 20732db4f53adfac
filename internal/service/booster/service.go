// Package booster implements the reward distributor: eligibility checks
// against the time gate and currency balance, the streak bookkeeping that
// earns the luck bonus, and the atomic draw-and-grant of a five-card pack.
package booster

import (
	"context"
	"errors"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
)

// Service errors
var (
	// ErrUnknownKind is returned for a booster kind outside the known set.
	ErrUnknownKind = errors.New("unknown booster kind")

	// ErrNotEligible is returned when the time gate has not reopened yet.
	// No state changes.
	ErrNotEligible = errors.New("booster not eligible yet")

	// ErrPremiumRequired is returned when a non-subscriber opens the
	// premium kind.
	ErrPremiumRequired = errors.New("premium subscription required")

	// ErrInsufficientFunds is returned when the balance does not cover the
	// paid booster cost. No state changes.
	ErrInsufficientFunds = errors.New("insufficient currency balance")

	// ErrIdempotencyConflict is returned when an idempotency key is replayed
	// with a different booster kind than it was recorded for. No state
	// changes.
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different booster kind")
)

// NotEligibleError reports a closed time gate along with how long until it
// reopens, so a decline can tell the client when to retry. It matches
// ErrNotEligible under errors.Is.
type NotEligibleError struct {
	Remaining time.Duration
}

func (e *NotEligibleError) Error() string { return ErrNotEligible.Error() }

func (e *NotEligibleError) Unwrap() error { return ErrNotEligible }

// DrawnCard is one slot of an opened pack.
type DrawnCard struct {
	Card   domain.CardIdentity `json:"card"`
	Rarity domain.Rarity       `json:"rarity"`
	IsNew  bool                `json:"is_new"`
}

// OpenResult is the outcome of one booster open. It is serialized into the
// open record so a retried request replays the identical pack.
type OpenResult struct {
	Kind             domain.BoosterKind `json:"kind"`
	Cards            []DrawnCard        `json:"cards"`
	StreakDays       int                `json:"streak_days"`
	LuckBonusPercent int                `json:"luck_bonus_percent"`

	// Replayed reports that this result came from a previously recorded open
	// with the same idempotency key; nothing was drawn or debited.
	Replayed bool `json:"-"`
}

// RareOrBetter counts the pack's pulls at rare or higher, for reward
// summaries.
func (r *OpenResult) RareOrBetter() int {
	count := 0
	for _, c := range r.Cards {
		if c.Rarity.AtLeast(domain.RarityRare) {
			count++
		}
	}
	return count
}

// Status describes a kind's gate for display.
type Status struct {
	Kind             domain.BoosterKind
	Eligible         bool
	TimeRemaining    time.Duration
	StreakDays       int
	LuckBonusPercent int
}

// Service defines the reward distributor operations.
type Service interface {
	// Open opens one booster of the given kind. Time-gated kinds consult and
	// advance the streak; the paid kind debits the configured cost. All
	// grants, the gate update and the debit commit atomically, or not at
	// all. A key already recorded replays the stored result with no writes;
	// reusing a key for a different kind is ErrIdempotencyConflict.
	// Returns ErrUnknownKind, ErrNotEligible (as *NotEligibleError carrying
	// the remaining wait), ErrPremiumRequired, ErrInsufficientFunds or
	// ErrIdempotencyConflict; none of these mutate state.
	Open(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.BoosterKind,
		premium bool,
		idempotencyKey uuid.UUID,
	) (*OpenResult, error)

	// Status reports a kind's eligibility and streak without mutating state.
	Status(
		ctx context.Context,
		userID uuid.UUID,
		kind domain.BoosterKind,
		premium bool,
	) (*Status, error)
}
