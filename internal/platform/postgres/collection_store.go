package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresCollectionStore implements the store.CollectionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCollectionStore creates a new PostgreSQL implementation of the
// CollectionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCollectionStore(db store.DBTX, logger *slog.Logger) *PostgresCollectionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Ensure PostgresCollectionStore implements store.CollectionStore
var _ store.CollectionStore = (*PostgresCollectionStore)(nil)

// Grant implements store.CollectionStore.Grant. A single upsert either
// creates the record with one copy or bumps the copies counter; the returned
// copies count distinguishes the two, keeping isNew and the counters
// mutually consistent under concurrent grants.
func (s *PostgresCollectionStore) Grant(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
	rarity domain.Rarity,
	now time.Time,
) (*domain.OwnedCard, bool, error) {
	query := `INSERT INTO owned_cards (user_id, deck_id, card_number, rarity, copies, acquired_at)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (user_id, deck_id, card_number, rarity)
		DO UPDATE SET copies = owned_cards.copies + 1
		RETURNING copies, acquired_at`

	owned := &domain.OwnedCard{
		UserID: userID,
		Card:   card,
		Rarity: rarity,
	}
	err := s.db.QueryRowContext(ctx, query,
		userID, card.DeckID, card.CardNumber, rarity, now,
	).Scan(&owned.Copies, &owned.AcquiredAt)
	if err != nil {
		return nil, false, MapError(err)
	}
	return owned, owned.Copies == 1, nil
}

// Owned implements store.CollectionStore.Owned
func (s *PostgresCollectionStore) Owned(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
	rarity domain.Rarity,
) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM owned_cards
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3 AND rarity = $4)`
	if err := s.db.QueryRowContext(ctx, query,
		userID, card.DeckID, card.CardNumber, rarity).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListByDeck implements store.CollectionStore.ListByDeck
func (s *PostgresCollectionStore) ListByDeck(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]*domain.OwnedCard, error) {
	query := `SELECT user_id, deck_id, card_number, rarity, copies, acquired_at
		FROM owned_cards
		WHERE user_id = $1 AND deck_id = $2
		ORDER BY card_number ASC,
			CASE rarity WHEN 'common' THEN 0 WHEN 'rare' THEN 1 ELSE 2 END ASC`
	rows, err := s.db.QueryContext(ctx, query, userID, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.OwnedCard
	for rows.Next() {
		var c domain.OwnedCard
		if err := rows.Scan(
			&c.UserID, &c.Card.DeckID, &c.Card.CardNumber,
			&c.Rarity, &c.Copies, &c.AcquiredAt,
		); err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// OwnedCount implements store.CollectionStore.OwnedCount
func (s *PostgresCollectionStore) OwnedCount(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM owned_cards WHERE user_id = $1 AND deck_id = $2`
	if err := s.db.QueryRowContext(ctx, query, userID, deckID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// OwnedCountAtRarity implements store.CollectionStore.OwnedCountAtRarity
func (s *PostgresCollectionStore) OwnedCountAtRarity(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
	rarity domain.Rarity,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM owned_cards
		WHERE user_id = $1 AND deck_id = $2 AND rarity = $3`
	if err := s.db.QueryRowContext(ctx, query, userID, deckID, rarity).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// TotalOwned implements store.CollectionStore.TotalOwned
func (s *PostgresCollectionStore) TotalOwned(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM owned_cards WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.CollectionStore.WithTx
func (s *PostgresCollectionStore) WithTx(tx *sql.Tx) store.CollectionStore {
	return &PostgresCollectionStore{db: tx, logger: s.logger}
}
