package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// Get implements store.StreakStore.Get
func (s *PostgresStreakStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
) (*domain.StreakState, error) {
	query := `SELECT user_id, kind, consecutive_days, last_open_at
		FROM reward_streaks WHERE user_id = $1 AND kind = $2`
	return s.scanState(s.db.QueryRowContext(ctx, query, userID, kind))
}

// GetForUpdate implements store.StreakStore.GetForUpdate
func (s *PostgresStreakStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
) (*domain.StreakState, error) {
	query := `SELECT user_id, kind, consecutive_days, last_open_at
		FROM reward_streaks WHERE user_id = $1 AND kind = $2
		FOR UPDATE`
	return s.scanState(s.db.QueryRowContext(ctx, query, userID, kind))
}

// Upsert implements store.StreakStore.Upsert
func (s *PostgresStreakStore) Upsert(ctx context.Context, state *domain.StreakState) error {
	query := `INSERT INTO reward_streaks (user_id, kind, consecutive_days, last_open_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, kind)
		DO UPDATE SET consecutive_days = $3, last_open_at = $4`
	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.Kind, state.ConsecutiveDays, state.LastOpenAt)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// WithTx implements store.StreakStore.WithTx
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{db: tx, logger: s.logger}
}

func (s *PostgresStreakStore) scanState(row *sql.Row) (*domain.StreakState, error) {
	var state domain.StreakState
	err := row.Scan(&state.UserID, &state.Kind, &state.ConsecutiveDays, &state.LastOpenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStreakNotFound
		}
		return nil, MapError(err)
	}
	return &state, nil
}
