package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresMasteryStore implements the store.MasteryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryStore creates a new PostgreSQL implementation of the
// MasteryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresMasteryStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

// Ensure PostgresMasteryStore implements store.MasteryStore
var _ store.MasteryStore = (*PostgresMasteryStore)(nil)

// Exists implements store.MasteryStore.Exists
func (s *PostgresMasteryStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM mastery_records
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3)`
	if err := s.db.QueryRowContext(ctx, query, userID, card.DeckID, card.CardNumber).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Create implements store.MasteryStore.Create. The insert is idempotent:
// ON CONFLICT DO NOTHING keyed on (user, deck, card), with the returned
// boolean reporting whether this call created the record.
func (s *PostgresMasteryStore) Create(ctx context.Context, record *domain.MasteryRecord) (bool, error) {
	query := `INSERT INTO mastery_records (user_id, deck_id, card_number, mastered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, deck_id, card_number) DO NOTHING`
	result, err := s.db.ExecContext(ctx, query,
		record.UserID, record.Card.DeckID, record.Card.CardNumber, record.MasteredAt)
	if err != nil {
		return false, MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	return affected > 0, nil
}

// CountByDeck implements store.MasteryStore.CountByDeck
func (s *PostgresMasteryStore) CountByDeck(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM mastery_records WHERE user_id = $1 AND deck_id = $2`
	if err := s.db.QueryRowContext(ctx, query, userID, deckID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.MasteryStore.WithTx
func (s *PostgresMasteryStore) WithTx(tx *sql.Tx) store.MasteryStore {
	return &PostgresMasteryStore{db: tx, logger: s.logger}
}
