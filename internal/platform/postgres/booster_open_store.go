package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresBoosterOpenStore implements the store.BoosterOpenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBoosterOpenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBoosterOpenStore creates a new PostgreSQL implementation of the
// BoosterOpenStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBoosterOpenStore(db store.DBTX, logger *slog.Logger) *PostgresBoosterOpenStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBoosterOpenStore{
		db:     db,
		logger: logger.With(slog.String("component", "booster_open_store")),
	}
}

// Ensure PostgresBoosterOpenStore implements store.BoosterOpenStore
var _ store.BoosterOpenStore = (*PostgresBoosterOpenStore)(nil)

// Find implements store.BoosterOpenStore.Find
func (s *PostgresBoosterOpenStore) Find(
	ctx context.Context,
	userID, key uuid.UUID,
) (*store.BoosterOpenRecord, error) {
	query := `SELECT user_id, idempotency_key, kind, result, opened_at
		FROM booster_opens WHERE user_id = $1 AND idempotency_key = $2`

	var record store.BoosterOpenRecord
	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(
		&record.UserID, &record.IdempotencyKey, &record.Kind,
		&record.Result, &record.OpenedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrOpenNotFound
		}
		return nil, MapError(err)
	}
	return &record, nil
}

// Create implements store.BoosterOpenStore.Create
func (s *PostgresBoosterOpenStore) Create(ctx context.Context, record *store.BoosterOpenRecord) error {
	query := `INSERT INTO booster_opens (user_id, idempotency_key, kind, result, opened_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, query,
		record.UserID, record.IdempotencyKey, record.Kind,
		record.Result, record.OpenedAt)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// WithTx implements store.BoosterOpenStore.WithTx
func (s *PostgresBoosterOpenStore) WithTx(tx *sql.Tx) store.BoosterOpenStore {
	return &PostgresBoosterOpenStore{db: tx, logger: s.logger}
}
