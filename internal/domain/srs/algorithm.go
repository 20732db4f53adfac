package srs

import (
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
)

// calculateNewLevel determines the level after an answer.
//
// A wrong answer always resets to level 0, never partially. A correct answer
// raises the level by one, capped at MaxLevel; a correct answer given while
// already at MaxLevel keeps the level and signals mastery to the caller.
func calculateNewLevel(currentLevel int, correct bool, params *Params) int {
	if !correct {
		return 0
	}
	if currentLevel >= params.MaxLevel {
		return params.MaxLevel
	}
	return currentLevel + 1
}

// calculateNextDueDate determines when the card should next be reviewed.
//
// Level 0 (after a miss) is due immediately so the card re-enters the review
// queue in the same session. Higher levels use the fixed per-level interval.
func calculateNextDueDate(level int, now time.Time, params *Params) time.Time {
	if level == 0 {
		return now
	}
	return now.AddDate(0, 0, params.IntervalDays(level))
}

// calculateNextEntry creates a new ProgressionEntry with updated values
// based on the answer, following immutability principles by returning a new
// instance rather than modifying the existing one. The second return value
// reports whether this answer was the mastery trigger: a correct answer
// submitted while the entry already sat at MaxLevel.
func calculateNextEntry(
	entry *domain.ProgressionEntry,
	correct bool,
	now time.Time,
	params *Params,
) (*domain.ProgressionEntry, bool) {
	mastered := correct && entry.Level >= params.MaxLevel

	newEntry := &domain.ProgressionEntry{
		UserID:    entry.UserID,
		Card:      entry.Card,
		Level:     calculateNewLevel(entry.Level, correct, params),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: now,
	}
	newEntry.NextDueAt = calculateNextDueDate(newEntry.Level, now, params)

	return newEntry, mastered
}
