package currency

import (
	"context"
	"testing"

	"github.com/arcana-app/arcana-api/internal/platform/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceDefaultsToZero(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc := NewService(memstore.New().Currency(), nil)

	balance, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestCreditAccumulates(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc := NewService(memstore.New().Currency(), nil)
	ctx := context.Background()
	userID := uuid.New()

	balance, err := svc.Credit(ctx, userID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	balance, err = svc.Credit(ctx, userID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)

	balance, err = svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)
}

func TestCreditRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc := NewService(memstore.New().Currency(), nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Credit(ctx, userID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Credit(ctx, userID, -7)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}
