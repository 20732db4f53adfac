package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresProgressionStore implements the store.ProgressionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressionStore creates a new PostgreSQL implementation of the
// ProgressionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressionStore(db store.DBTX, logger *slog.Logger) *PostgresProgressionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressionStore{
		db:     db,
		logger: logger.With(slog.String("component", "progression_store")),
	}
}

// Ensure PostgresProgressionStore implements store.ProgressionStore
var _ store.ProgressionStore = (*PostgresProgressionStore)(nil)

const progressionColumns = "user_id, deck_id, card_number, level, next_due_at, created_at, updated_at"

// Get implements store.ProgressionStore.Get
func (s *PostgresProgressionStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (*domain.ProgressionEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM progression_entries
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3`, progressionColumns)
	return s.scanEntry(s.db.QueryRowContext(ctx, query, userID, card.DeckID, card.CardNumber))
}

// GetForUpdate implements store.ProgressionStore.GetForUpdate
func (s *PostgresProgressionStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (*domain.ProgressionEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM progression_entries
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3
		FOR UPDATE`, progressionColumns)
	return s.scanEntry(s.db.QueryRowContext(ctx, query, userID, card.DeckID, card.CardNumber))
}

// Create implements store.ProgressionStore.Create
func (s *PostgresProgressionStore) Create(ctx context.Context, entry *domain.ProgressionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO progression_entries
		(user_id, deck_id, card_number, level, next_due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		entry.UserID, entry.Card.DeckID, entry.Card.CardNumber,
		entry.Level, entry.NextDueAt, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// Update implements store.ProgressionStore.Update
func (s *PostgresProgressionStore) Update(ctx context.Context, entry *domain.ProgressionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `UPDATE progression_entries
		SET level = $4, next_due_at = $5, updated_at = $6
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3`
	result, err := s.db.ExecContext(ctx, query,
		entry.UserID, entry.Card.DeckID, entry.Card.CardNumber,
		entry.Level, entry.NextDueAt, entry.UpdatedAt)
	if err != nil {
		return MapError(err)
	}
	return s.requireRow(result)
}

// Delete implements store.ProgressionStore.Delete
func (s *PostgresProgressionStore) Delete(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) error {
	query := `DELETE FROM progression_entries
		WHERE user_id = $1 AND deck_id = $2 AND card_number = $3`
	result, err := s.db.ExecContext(ctx, query, userID, card.DeckID, card.CardNumber)
	if err != nil {
		return MapError(err)
	}
	return s.requireRow(result)
}

// ListDue implements store.ProgressionStore.ListDue
func (s *PostgresProgressionStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
	now time.Time,
) ([]*domain.ProgressionEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM progression_entries
		WHERE user_id = $1 AND deck_id = $2 AND next_due_at <= $3
		ORDER BY card_number ASC`, progressionColumns)
	return s.queryEntries(ctx, query, userID, deckID, now)
}

// ListByDeck implements store.ProgressionStore.ListByDeck
func (s *PostgresProgressionStore) ListByDeck(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]*domain.ProgressionEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM progression_entries
		WHERE user_id = $1 AND deck_id = $2
		ORDER BY card_number ASC`, progressionColumns)
	return s.queryEntries(ctx, query, userID, deckID)
}

// CountByDeck implements store.ProgressionStore.CountByDeck
func (s *PostgresProgressionStore) CountByDeck(
	ctx context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM progression_entries WHERE user_id = $1 AND deck_id = $2`
	if err := s.db.QueryRowContext(ctx, query, userID, deckID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.ProgressionStore.WithTx
func (s *PostgresProgressionStore) WithTx(tx *sql.Tx) store.ProgressionStore {
	return &PostgresProgressionStore{db: tx, logger: s.logger}
}

// scanEntry reads one entry row, mapping sql.ErrNoRows to the entity error.
func (s *PostgresProgressionStore) scanEntry(row *sql.Row) (*domain.ProgressionEntry, error) {
	var entry domain.ProgressionEntry
	err := row.Scan(
		&entry.UserID, &entry.Card.DeckID, &entry.Card.CardNumber,
		&entry.Level, &entry.NextDueAt, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressionNotFound
		}
		return nil, MapError(err)
	}
	return &entry, nil
}

func (s *PostgresProgressionStore) queryEntries(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.ProgressionEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var entries []*domain.ProgressionEntry
	for rows.Next() {
		var entry domain.ProgressionEntry
		if err := rows.Scan(
			&entry.UserID, &entry.Card.DeckID, &entry.Card.CardNumber,
			&entry.Level, &entry.NextDueAt, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}

// requireRow converts a zero-row update/delete into the entity error.
func (s *PostgresProgressionStore) requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrProgressionNotFound
	}
	return nil
}
