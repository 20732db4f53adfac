package booster

import (
	"context"
	"testing"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	boosterdomain "github.com/arcana-app/arcana-api/internal/domain/booster"
	"github.com/arcana-app/arcana-api/internal/platform/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service Service
	store   *memstore.Store
	userID  uuid.UUID
	now     time.Time
	setNow  func(time.Time)
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mem := memstore.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	f := &serviceFixture{
		store:  mem,
		userID: uuid.New(),
		now:    now,
	}
	f.setNow = func(next time.Time) { f.now = next }

	f.service = NewService(
		DefaultConfig(),
		boosterdomain.NewDrawer(domain.DefaultCatalog(), boosterdomain.NewDefaultParams(), nil),
		mem,
		mem.Streaks(),
		mem.Currency(),
		mem.Collection(),
		mem.BoosterOpens(),
		nil,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func TestOpenFreeBoosterGrantsFullPack(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	result, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, domain.BoosterFree, result.Kind)
	require.Len(t, result.Cards, boosterdomain.PackSize)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, 1, result.LuckBonusPercent)
	assert.False(t, result.Replayed)

	// Every drawn card landed in the ledger.
	for _, card := range result.Cards {
		owned, err := f.store.Collection().Owned(ctx, f.userID, card.Card, card.Rarity)
		require.NoError(t, err)
		assert.True(t, owned)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)

	_, err := f.service.Open(context.Background(), f.userID, "mystic", false, uuid.New())
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOpenPremiumRequiresSubscription(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Open(ctx, f.userID, domain.BoosterPremium, false, uuid.New())
	assert.ErrorIs(t, err, ErrPremiumRequired)

	result, err := f.service.Open(ctx, f.userID, domain.BoosterPremium, true, uuid.New())
	require.NoError(t, err)
	assert.Len(t, result.Cards, boosterdomain.PackSize)
}

func TestOpenTimeGateDeclinesWithoutMutation(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)

	// A second open inside the window is declined, with the remaining wait.
	f.setNow(f.now.Add(2 * time.Hour))
	_, err = f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	assert.ErrorIs(t, err, ErrNotEligible)

	var notEligible *NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	assert.Equal(t, 22*time.Hour, notEligible.Remaining)

	// The declined attempt left the streak and the ledger untouched.
	state, err := f.store.Streaks().Get(ctx, f.userID, domain.BoosterFree)
	require.NoError(t, err)
	assert.Equal(t, first.StreakDays, state.ConsecutiveDays)

	total, err := f.store.Collection().TotalOwned(ctx, f.userID)
	require.NoError(t, err)
	assert.LessOrEqual(t, total, boosterdomain.PackSize)
}

func TestOpenStreakIncrementsAcrossDays(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	result, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)

	f.setNow(f.now.AddDate(0, 0, 1))
	result, err = f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, result.StreakDays)
	assert.Equal(t, 2, result.LuckBonusPercent)

	// Skipping a day resets the streak.
	f.setNow(f.now.AddDate(0, 0, 3))
	result, err = f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)
}

func TestOpenStreaksAreIndependentPerKind(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	for day := 0; day < 3; day++ {
		f.setNow(time.Date(2024, 3, 10+day, 12, 0, 0, 0, time.UTC))
		_, err := f.service.Open(ctx, f.userID, domain.BoosterFree, true, uuid.New())
		require.NoError(t, err)
	}

	result, err := f.service.Open(ctx, f.userID, domain.BoosterPremium, true, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays, "premium streak starts fresh")
}

func TestOpenPaidDebitsBalance(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.store.Currency().Credit(ctx, f.userID, 25)
	require.NoError(t, err)

	result, err := f.service.Open(ctx, f.userID, domain.BoosterPaid, false, uuid.New())
	require.NoError(t, err)
	assert.Len(t, result.Cards, boosterdomain.PackSize)
	assert.Equal(t, 0, result.LuckBonusPercent, "paid packs earn no luck bonus")
	assert.Equal(t, 0, result.StreakDays)

	balance, err := f.store.Currency().Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)

	// Paid packs are not time gated.
	result, err = f.service.Open(ctx, f.userID, domain.BoosterPaid, false, uuid.New())
	require.NoError(t, err)
	assert.Len(t, result.Cards, boosterdomain.PackSize)

	balance, err = f.store.Currency().Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}

func TestOpenPaidInsufficientFunds(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.store.Currency().Credit(ctx, f.userID, 9)
	require.NoError(t, err)

	_, err = f.service.Open(ctx, f.userID, domain.BoosterPaid, false, uuid.New())
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// The failed attempt changed nothing.
	balance, err := f.store.Currency().Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), balance)

	total, err := f.store.Collection().TotalOwned(ctx, f.userID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestOpenIdempotentReplay(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()
	key := uuid.New()

	first, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, key)
	require.NoError(t, err)

	totalAfterFirst, err := f.store.Collection().TotalOwned(ctx, f.userID)
	require.NoError(t, err)

	// The same key replays the identical pack, even after the gate closed.
	replay, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, key)
	require.NoError(t, err)

	assert.True(t, replay.Replayed)
	assert.Equal(t, first.Cards, replay.Cards)
	assert.Equal(t, first.StreakDays, replay.StreakDays)

	// Nothing was granted twice.
	total, err := f.store.Collection().TotalOwned(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, totalAfterFirst, total)
}

func TestOpenReplayRejectsKindMismatch(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()
	key := uuid.New()

	_, err := f.store.Currency().Credit(ctx, f.userID, 25)
	require.NoError(t, err)

	_, err = f.service.Open(ctx, f.userID, domain.BoosterFree, false, key)
	require.NoError(t, err)

	// Reusing the key for another kind is a conflict, not a replay.
	_, err = f.service.Open(ctx, f.userID, domain.BoosterPaid, false, key)
	assert.ErrorIs(t, err, ErrIdempotencyConflict)

	// The rejected attempt debited nothing.
	balance, err := f.store.Currency().Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)
}

func TestOpenDuplicatePullsBumpCopies(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	// Open many free packs across days; the oracle deck has 42 cards so
	// duplicates are guaranteed long before the end.
	seenNew := 0
	for day := 0; day < 40; day++ {
		f.setNow(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day))
		result, err := f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
		require.NoError(t, err)
		for _, card := range result.Cards {
			if card.IsNew {
				seenNew++
			}
		}
	}

	total, err := f.store.Collection().TotalOwned(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, seenNew, total, "distinct ledger records match the IsNew flags")
	assert.Less(t, total, 40*boosterdomain.PackSize, "some pulls were duplicates")
}

func TestStatusReportsGateAndStreak(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)
	ctx := context.Background()

	status, err := f.service.Status(ctx, f.userID, domain.BoosterFree, false)
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	assert.Zero(t, status.StreakDays)
	assert.Zero(t, status.TimeRemaining)

	_, err = f.service.Open(ctx, f.userID, domain.BoosterFree, false, uuid.New())
	require.NoError(t, err)

	f.setNow(f.now.Add(10 * time.Hour))
	status, err = f.service.Status(ctx, f.userID, domain.BoosterFree, false)
	require.NoError(t, err)
	assert.False(t, status.Eligible)
	assert.Equal(t, 14*time.Hour, status.TimeRemaining)
	assert.Equal(t, 1, status.StreakDays)
	assert.Equal(t, 1, status.LuckBonusPercent)
}

func TestStatusPaidAlwaysEligible(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)

	status, err := f.service.Status(context.Background(), f.userID, domain.BoosterPaid, false)
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	assert.Zero(t, status.TimeRemaining)
}

func TestStatusPremiumRequiresSubscription(t *testing.T) {
	t.Parallel() // Enable parallel execution
	f := newServiceFixture(t)

	_, err := f.service.Status(context.Background(), f.userID, domain.BoosterPremium, false)
	assert.ErrorIs(t, err, ErrPremiumRequired)
}
