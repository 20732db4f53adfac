package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/domain/srs"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	catalog     domain.Catalog
	txRunner    store.TxRunner
	progression store.ProgressionStore
	mastery     store.MasteryStore
	collection  store.CollectionStore
	srsService  srs.Service
	logger      *slog.Logger
	now         func() time.Time
}

// Option customizes the service. Currently only used by tests to pin the
// clock.
type Option func(*serviceImpl)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// NewService creates a new progression Service implementation.
func NewService(
	catalog domain.Catalog,
	txRunner store.TxRunner,
	progressionStore store.ProgressionStore,
	masteryStore store.MasteryStore,
	collectionStore store.CollectionStore,
	srsService srs.Service,
	log *slog.Logger,
	opts ...Option,
) Service {
	if txRunner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("txRunner cannot be nil")
	}
	if progressionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressionStore cannot be nil")
	}
	if masteryStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("masteryStore cannot be nil")
	}
	if collectionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collectionStore cannot be nil")
	}
	if srsService == nil {
		srsService = srs.NewDefaultService()
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		catalog:     catalog,
		txRunner:    txRunner,
		progression: progressionStore,
		mastery:     masteryStore,
		collection:  collectionStore,
		srsService:  srsService,
		logger:      log.With(slog.String("component", "progression_service")),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *serviceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
	correct bool,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.catalog.ValidateIdentity(card); err != nil {
		log.Warn("rejected answer for invalid card",
			slog.String("user_id", userID.String()),
			slog.String("card", card.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrInvalidCardIdentity, err)
	}

	now := s.now()
	var result *AnswerResult

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progression := s.progression.WithTx(tx)
		mastery := s.mastery.WithTx(tx)
		collection := s.collection.WithTx(tx)

		entry, err := progression.GetForUpdate(ctx, userID, card)
		if err != nil {
			if !errors.Is(err, store.ErrProgressionNotFound) {
				return fmt.Errorf("failed to get progression entry: %w", err)
			}

			// No active entry. Either the card was already mastered (a
			// retried final submission must stay a no-op) or this is the
			// card's first presentation.
			mastered, err := mastery.Exists(ctx, userID, card)
			if err != nil {
				return fmt.Errorf("failed to check mastery record: %w", err)
			}
			if mastered {
				result = &AnswerResult{
					NewLevel:        domain.MaxLevel,
					AlreadyMastered: true,
				}
				return nil
			}

			entry, err = domain.NewProgressionEntry(userID, card, now)
			if err != nil {
				return fmt.Errorf("failed to create progression entry: %w", err)
			}
			if err := progression.Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to save progression entry: %w", err)
			}
		}

		newEntry, justMastered, err := s.srsService.Advance(entry, correct, now)
		if err != nil {
			return fmt.Errorf("failed to advance progression: %w", err)
		}

		if !justMastered {
			if err := progression.Update(ctx, newEntry); err != nil {
				return fmt.Errorf("failed to update progression entry: %w", err)
			}
			result = &AnswerResult{
				NewLevel:  newEntry.Level,
				NextDueAt: newEntry.NextDueAt,
			}
			return nil
		}

		// Mastery trigger: retire the entry, write the mastery record and
		// grant the golden copy in the same transaction.
		if err := progression.Delete(ctx, userID, card); err != nil {
			return fmt.Errorf("failed to retire progression entry: %w", err)
		}

		created, err := mastery.Create(ctx, &domain.MasteryRecord{
			UserID:     userID,
			Card:       card,
			MasteredAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to create mastery record: %w", err)
		}

		result = &AnswerResult{
			NewLevel:     domain.MaxLevel,
			JustMastered: created,
		}
		if !created {
			// A concurrent or replayed submission already granted the
			// reward; the second grant is suppressed.
			result.AlreadyMastered = true
			return nil
		}

		owned, newlyOwned, err := collection.Grant(ctx, userID, card, domain.RarityGolden, now)
		if err != nil {
			return fmt.Errorf("failed to grant mastery reward: %w", err)
		}
		result.Mastery = &MasteryGrant{
			Card:       owned.Card,
			Rarity:     owned.Rarity,
			NewlyOwned: newlyOwned,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInvalidCardIdentity) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card", card.String()))
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	log.Debug("processed answer",
		slog.String("user_id", userID.String()),
		slog.String("card", card.String()),
		slog.Bool("correct", correct),
		slog.Int("new_level", result.NewLevel),
		slog.Bool("just_mastered", result.JustMastered))

	return result, nil
}

// DueForReview implements Service.DueForReview.
func (s *serviceImpl) DueForReview(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]DueCard, error) {
	if _, err := s.catalog.Deck(deckID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCardIdentity, err)
	}

	entries, err := s.progression.ListDue(ctx, userID, deckID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list due entries: %w", err)
	}

	due := make([]DueCard, 0, len(entries))
	for _, entry := range entries {
		due = append(due, DueCard{Card: entry.Card, Level: entry.Level})
	}
	return due, nil
}

// DeckSnapshot implements Service.DeckSnapshot.
func (s *serviceImpl) DeckSnapshot(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (*Snapshot, error) {
	deck, err := s.catalog.Deck(deckID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCardIdentity, err)
	}

	entries, err := s.progression.ListByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progression entries: %w", err)
	}
	memorized, err := s.mastery.CountByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered cards: %w", err)
	}

	snapshot := &Snapshot{
		DeckID:       deckID,
		TotalCards:   deck.TotalCards,
		InProgress:   len(entries),
		Memorized:    memorized,
		NotStarted:   deck.TotalCards - len(entries) - memorized,
		DeckMastered: memorized == deck.TotalCards,
		Cards:        make([]CardProgress, 0, len(entries)),
	}
	for _, entry := range entries {
		snapshot.Cards = append(snapshot.Cards, CardProgress{
			Card:      entry.Card,
			Level:     entry.Level,
			NextDueAt: entry.NextDueAt,
		})
	}
	return snapshot, nil
}
