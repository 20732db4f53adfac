package srs

import (
	"testing"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNewLevel(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name    string
		level   int
		correct bool
		want    int
	}{
		{name: "correct at level 0 climbs to 1", level: 0, correct: true, want: 1},
		{name: "correct at level 3 climbs to 4", level: 3, correct: true, want: 4},
		{name: "correct at top level stays at top", level: 4, correct: true, want: 4},
		{name: "wrong at level 0 stays at 0", level: 0, correct: false, want: 0},
		{name: "wrong at level 2 resets fully", level: 2, correct: false, want: 0},
		{name: "wrong at top level resets fully", level: 4, correct: false, want: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, calculateNewLevel(tc.level, tc.correct, params))
		})
	}
}

func TestCalculateNextDueDate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		level int
		want  time.Time
	}{
		{name: "level 0 is due immediately", level: 0, want: now},
		{name: "level 1 waits one day", level: 1, want: now.AddDate(0, 0, 1)},
		{name: "level 2 waits three days", level: 2, want: now.AddDate(0, 0, 3)},
		{name: "level 3 waits seven days", level: 3, want: now.AddDate(0, 0, 7)},
		{name: "level 4 waits thirty-one days", level: 4, want: now.AddDate(0, 0, 31)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, calculateNextDueDate(tc.level, now, params))
		})
	}
}

func TestCalculateNextEntryDoesNotMutateInput(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entry, err := domain.NewProgressionEntry(
		uuid.New(),
		domain.CardIdentity{DeckID: domain.DeckOracle, CardNumber: 7},
		now.AddDate(0, 0, -1),
	)
	require.NoError(t, err)
	entry.Level = 2

	next, mastered := calculateNextEntry(entry, true, now, NewDefaultParams())

	assert.False(t, mastered)
	assert.Equal(t, 3, next.Level)
	assert.Equal(t, 2, entry.Level)
	assert.Equal(t, entry.CreatedAt, next.CreatedAt)
	assert.Equal(t, now, next.UpdatedAt)
}

func TestCalculateNextEntryMasteryTrigger(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entry, err := domain.NewProgressionEntry(
		uuid.New(),
		domain.CardIdentity{DeckID: domain.DeckRunes, CardNumber: 3},
		now,
	)
	require.NoError(t, err)

	// Reaching the top level is not mastery yet.
	entry.Level = 3
	next, mastered := calculateNextEntry(entry, true, now, NewDefaultParams())
	assert.False(t, mastered)
	assert.Equal(t, 4, next.Level)

	// One more correct answer at the top level is.
	next, mastered = calculateNextEntry(next, true, now, NewDefaultParams())
	assert.True(t, mastered)
	assert.Equal(t, 4, next.Level)

	// A miss at the top level is a full reset, not mastery.
	entry.Level = 4
	next, mastered = calculateNextEntry(entry, false, now, NewDefaultParams())
	assert.False(t, mastered)
	assert.Equal(t, 0, next.Level)
	assert.Equal(t, now, next.NextDueAt)
}
