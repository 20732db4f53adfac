package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoosterKind identifies a reward pack flavor. Free and premium kinds are
// time-gated with independent streaks; the paid kind is gated only by the
// user's currency balance.
type BoosterKind string

// Booster kinds.
const (
	BoosterFree    BoosterKind = "free"
	BoosterPremium BoosterKind = "premium"
	BoosterPaid    BoosterKind = "paid"
)

// Valid reports whether k is a known booster kind.
func (k BoosterKind) Valid() bool {
	switch k {
	case BoosterFree, BoosterPremium, BoosterPaid:
		return true
	default:
		return false
	}
}

// TimeGated reports whether opening this kind is restricted to one open per
// eligibility window.
func (k BoosterKind) TimeGated() bool {
	return k == BoosterFree || k == BoosterPremium
}

// RequiresPremium reports whether this kind is reserved for subscribers.
func (k BoosterKind) RequiresPremium() bool {
	return k == BoosterPremium
}

// StreakState tracks consecutive-day opens for one time-gated booster kind.
// The streak feeds the luck bonus applied to rarity draws.
type StreakState struct {
	UserID          uuid.UUID   `json:"user_id"`
	Kind            BoosterKind `json:"kind"`
	ConsecutiveDays int         `json:"consecutive_days"`
	LastOpenAt      time.Time   `json:"last_open_at"`
}

// NewStreakState returns the zero streak for a user and kind: never opened.
func NewStreakState(userID uuid.UUID, kind BoosterKind) StreakState {
	return StreakState{UserID: userID, Kind: kind}
}

// Eligible reports whether the gate is open at the given time: never opened,
// or at least window has elapsed since the last open.
func (s StreakState) Eligible(now time.Time, window time.Duration) bool {
	if s.LastOpenAt.IsZero() {
		return true
	}
	return !now.Before(s.LastOpenAt.Add(window))
}

// TimeRemaining returns how long until the gate reopens. Zero when already
// eligible. Display only; Eligible is the gate decision.
func (s StreakState) TimeRemaining(now time.Time, window time.Duration) time.Duration {
	if s.Eligible(now, window) {
		return 0
	}
	return s.LastOpenAt.Add(window).Sub(now)
}

// Advance returns the streak state after an open at the given time,
// following immutability: the receiver is unchanged. The counter increments
// by exactly 1 only when the previous open was on yesterday's calendar date
// (UTC); a same-day open leaves it unchanged and anything older resets it
// to 1.
func (s StreakState) Advance(now time.Time) StreakState {
	next := s
	next.LastOpenAt = now

	switch {
	case s.LastOpenAt.IsZero():
		next.ConsecutiveDays = 1
	case sameDay(s.LastOpenAt, now):
		next.ConsecutiveDays = s.ConsecutiveDays
	case sameDay(s.LastOpenAt.AddDate(0, 0, 1), now):
		next.ConsecutiveDays = s.ConsecutiveDays + 1
	default:
		next.ConsecutiveDays = 1
	}
	return next
}

// LuckBonusPercent is the probability-mass shift toward higher rarities
// earned by the streak, capped at cap percent.
func (s StreakState) LuckBonusPercent(cap int) int {
	if s.ConsecutiveDays > cap {
		return cap
	}
	return s.ConsecutiveDays
}

// sameDay reports whether two instants fall on the same UTC calendar date.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
