package booster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	boosterdomain "github.com/arcana-app/arcana-api/internal/domain/booster"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// Config holds the tunable gate parameters.
type Config struct {
	// PaidBoosterCost is the currency price of one paid pack.
	PaidBoosterCost int64

	// EligibilityWindow is how long the time gate stays closed after an open.
	EligibilityWindow time.Duration

	// LuckBonusCap bounds the streak-earned luck bonus, in percent.
	LuckBonusCap int
}

// DefaultConfig returns the production gate parameters.
func DefaultConfig() Config {
	return Config{
		PaidBoosterCost:   10,
		EligibilityWindow: 24 * time.Hour,
		LuckBonusCap:      10,
	}
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cfg        Config
	drawer     *boosterdomain.Drawer
	txRunner   store.TxRunner
	streaks    store.StreakStore
	currency   store.CurrencyStore
	collection store.CollectionStore
	opens      store.BoosterOpenStore
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes the service. Currently only used by tests to pin the
// clock.
type Option func(*serviceImpl)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// NewService creates a new booster Service implementation.
func NewService(
	cfg Config,
	drawer *boosterdomain.Drawer,
	txRunner store.TxRunner,
	streakStore store.StreakStore,
	currencyStore store.CurrencyStore,
	collectionStore store.CollectionStore,
	openStore store.BoosterOpenStore,
	log *slog.Logger,
	opts ...Option,
) Service {
	if drawer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("drawer cannot be nil")
	}
	if txRunner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("txRunner cannot be nil")
	}
	if streakStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("streakStore cannot be nil")
	}
	if currencyStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("currencyStore cannot be nil")
	}
	if collectionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collectionStore cannot be nil")
	}
	if openStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("openStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		cfg:        cfg,
		drawer:     drawer,
		txRunner:   txRunner,
		streaks:    streakStore,
		currency:   currencyStore,
		collection: collectionStore,
		opens:      openStore,
		logger:     log.With(slog.String("component", "booster_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open implements Service.Open.
func (s *serviceImpl) Open(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
	premium bool,
	idempotencyKey uuid.UUID,
) (*OpenResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if kind.RequiresPremium() && !premium {
		return nil, ErrPremiumRequired
	}

	now := s.now()
	var result *OpenResult

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		streaks := s.streaks.WithTx(tx)
		currency := s.currency.WithTx(tx)
		collection := s.collection.WithTx(tx)
		opens := s.opens.WithTx(tx)

		// A key we have already recorded means a retried request. Replay the
		// stored pack without drawing, granting or debiting anything.
		prior, err := opens.Find(ctx, userID, idempotencyKey)
		if err != nil && !errors.Is(err, store.ErrOpenNotFound) {
			return fmt.Errorf("failed to look up open record: %w", err)
		}
		if prior != nil {
			if prior.Kind != kind {
				return ErrIdempotencyConflict
			}
			replayed, err := decodeResult(prior.Result)
			if err != nil {
				return fmt.Errorf("failed to decode recorded open: %w", err)
			}
			replayed.Replayed = true
			result = replayed
			return nil
		}

		luck := 0
		var streak domain.StreakState

		if kind.TimeGated() {
			state, err := streaks.GetForUpdate(ctx, userID, kind)
			if err != nil {
				if !errors.Is(err, store.ErrStreakNotFound) {
					return fmt.Errorf("failed to get streak state: %w", err)
				}
				fresh := domain.NewStreakState(userID, kind)
				state = &fresh
			}

			if !state.Eligible(now, s.cfg.EligibilityWindow) {
				return &NotEligibleError{Remaining: state.TimeRemaining(now, s.cfg.EligibilityWindow)}
			}

			streak = state.Advance(now)
			if err := streaks.Upsert(ctx, &streak); err != nil {
				return fmt.Errorf("failed to update streak state: %w", err)
			}
			luck = streak.LuckBonusPercent(s.cfg.LuckBonusCap)
		}

		if kind == domain.BoosterPaid {
			if _, err := currency.Debit(ctx, userID, s.cfg.PaidBoosterCost); err != nil {
				if errors.Is(err, store.ErrInsufficientFunds) {
					return ErrInsufficientFunds
				}
				return fmt.Errorf("failed to debit booster cost: %w", err)
			}
		}

		pulls, err := s.drawer.Draw(kind, luck)
		if err != nil {
			return fmt.Errorf("failed to draw pack: %w", err)
		}

		cards := make([]DrawnCard, 0, len(pulls))
		for _, pull := range pulls {
			_, isNew, err := collection.Grant(ctx, userID, pull.Card, pull.Rarity, now)
			if err != nil {
				return fmt.Errorf("failed to grant %s: %w", pull.Card, err)
			}
			cards = append(cards, DrawnCard{
				Card:   pull.Card,
				Rarity: pull.Rarity,
				IsNew:  isNew,
			})
		}

		result = &OpenResult{
			Kind:             kind,
			Cards:            cards,
			StreakDays:       streak.ConsecutiveDays,
			LuckBonusPercent: luck,
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode open result: %w", err)
		}
		if err := opens.Create(ctx, &store.BoosterOpenRecord{
			UserID:         userID,
			IdempotencyKey: idempotencyKey,
			Kind:           kind,
			Result:         encoded,
			OpenedAt:       now,
		}); err != nil {
			return fmt.Errorf("failed to record open: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotEligible) ||
			errors.Is(err, ErrInsufficientFunds) ||
			errors.Is(err, ErrIdempotencyConflict) ||
			errors.Is(err, ErrUnknownKind) {
			return nil, err
		}
		log.Error("failed to open booster",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to open booster: %w", err)
	}

	log.Debug("opened booster",
		slog.String("user_id", userID.String()),
		slog.String("kind", string(kind)),
		slog.Bool("replayed", result.Replayed),
		slog.Int("streak_days", result.StreakDays),
		slog.Int("luck_bonus_percent", result.LuckBonusPercent),
		slog.Int("rare_or_better", result.RareOrBetter()))

	return result, nil
}

// Status implements Service.Status.
func (s *serviceImpl) Status(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
	premium bool,
) (*Status, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if kind.RequiresPremium() && !premium {
		return nil, ErrPremiumRequired
	}

	now := s.now()

	if !kind.TimeGated() {
		return &Status{Kind: kind, Eligible: true}, nil
	}

	state, err := s.streaks.Get(ctx, userID, kind)
	if err != nil {
		if !errors.Is(err, store.ErrStreakNotFound) {
			return nil, fmt.Errorf("failed to get streak state: %w", err)
		}
		fresh := domain.NewStreakState(userID, kind)
		state = &fresh
	}

	return &Status{
		Kind:             kind,
		Eligible:         state.Eligible(now, s.cfg.EligibilityWindow),
		TimeRemaining:    state.TimeRemaining(now, s.cfg.EligibilityWindow),
		StreakDays:       state.ConsecutiveDays,
		LuckBonusPercent: state.LuckBonusPercent(s.cfg.LuckBonusCap),
	}, nil
}

// decodeResult rehydrates a stored open result.
func decodeResult(raw []byte) (*OpenResult, error) {
	var result OpenResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
