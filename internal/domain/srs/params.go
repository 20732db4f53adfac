// Package srs implements the spaced-repetition ladder that schedules card
// reviews. The algorithm is deliberately simple: a fixed interval per level,
// a full reset on a miss, and mastery after one correct answer at the top
// level.
package srs

import "github.com/arcana-app/arcana-api/internal/domain"

// Params defines all configurable parameters for the progression ladder.
type Params struct {
	// MaxLevel is the top familiarity level. Must equal len(LevelIntervalDays).
	MaxLevel int

	// LevelIntervalDays maps level N (1-based) to the review interval in days
	// granted on reaching that level. Index 0 is the interval for level 1.
	LevelIntervalDays []int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	LevelIntervalDays []int
}

// NewDefaultParams creates a new Params instance with default values:
// four levels with 1, 3, 7 and 31 day intervals.
func NewDefaultParams() *Params {
	return &Params{
		MaxLevel:          domain.MaxLevel,
		LevelIntervalDays: []int{1, 3, 7, 31},
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.LevelIntervalDays) > 0 {
		params.LevelIntervalDays = config.LevelIntervalDays
		params.MaxLevel = len(config.LevelIntervalDays)
	}

	return params
}

// IntervalDays returns the review interval for the given level. Level 0 is
// always immediately due.
func (p *Params) IntervalDays(level int) int {
	if level <= 0 || level > len(p.LevelIntervalDays) {
		return 0
	}
	return p.LevelIntervalDays[level-1]
}
