// Package memstore provides in-memory implementations of the store
// interfaces. Services are tested against these fakes, and they back the
// engine in local runs without a database. All stores share one Store value
// so cross-store invariants (entry deleted, mastery created, golden granted)
// can be asserted on a single object.
package memstore

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/store"
	"github.com/google/uuid"
)

// progressionKey identifies a progression entry or mastery record.
type progressionKey struct {
	userID uuid.UUID
	card   domain.CardIdentity
}

// ownedKey identifies an owned-card record.
type ownedKey struct {
	userID uuid.UUID
	card   domain.CardIdentity
	rarity domain.Rarity
}

// streakKey identifies a per-kind streak row.
type streakKey struct {
	userID uuid.UUID
	kind   domain.BoosterKind
}

// openKey identifies a recorded booster open.
type openKey struct {
	userID uuid.UUID
	key    uuid.UUID
}

// Store holds all engine state in memory behind one mutex. The mutex gives
// the same single-user isolation the SQL transaction provides.
type Store struct {
	mu sync.Mutex

	entries   map[progressionKey]domain.ProgressionEntry
	masteries map[progressionKey]domain.MasteryRecord
	owned     map[ownedKey]domain.OwnedCard
	streaks   map[streakKey]domain.StreakState
	balances  map[uuid.UUID]int64
	opens     map[openKey]store.BoosterOpenRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entries:   make(map[progressionKey]domain.ProgressionEntry),
		masteries: make(map[progressionKey]domain.MasteryRecord),
		owned:     make(map[ownedKey]domain.OwnedCard),
		streaks:   make(map[streakKey]domain.StreakState),
		balances:  make(map[uuid.UUID]int64),
		opens:     make(map[openKey]store.BoosterOpenRecord),
	}
}

// RunInTransaction implements store.TxRunner. The in-memory stores have no
// real transactions; the callback runs with a nil *sql.Tx and writes apply
// immediately. Good enough for service tests, which assert behavior, not
// rollback mechanics.
func (s *Store) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// Progression returns the in-memory ProgressionStore view.
func (s *Store) Progression() store.ProgressionStore { return (*progressionStore)(s) }

// Mastery returns the in-memory MasteryStore view.
func (s *Store) Mastery() store.MasteryStore { return (*masteryStore)(s) }

// Collection returns the in-memory CollectionStore view.
func (s *Store) Collection() store.CollectionStore { return (*collectionStore)(s) }

// Streaks returns the in-memory StreakStore view.
func (s *Store) Streaks() store.StreakStore { return (*streakStore)(s) }

// Currency returns the in-memory CurrencyStore view.
func (s *Store) Currency() store.CurrencyStore { return (*currencyStore)(s) }

// BoosterOpens returns the in-memory BoosterOpenStore view.
func (s *Store) BoosterOpens() store.BoosterOpenStore { return (*boosterOpenStore)(s) }

// progressionStore implements store.ProgressionStore.
type progressionStore Store

var _ store.ProgressionStore = (*progressionStore)(nil)

func (s *progressionStore) Get(
	_ context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (*domain.ProgressionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[progressionKey{userID, card}]
	if !ok {
		return nil, store.ErrProgressionNotFound
	}
	return &entry, nil
}

func (s *progressionStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (*domain.ProgressionEntry, error) {
	return s.Get(ctx, userID, card)
}

func (s *progressionStore) Create(_ context.Context, entry *domain.ProgressionEntry) error {
	if err := entry.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressionKey{entry.UserID, entry.Card}
	if _, exists := s.entries[key]; exists {
		return store.ErrDuplicate
	}
	s.entries[key] = *entry
	return nil
}

func (s *progressionStore) Update(_ context.Context, entry *domain.ProgressionEntry) error {
	if err := entry.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressionKey{entry.UserID, entry.Card}
	if _, exists := s.entries[key]; !exists {
		return store.ErrProgressionNotFound
	}
	s.entries[key] = *entry
	return nil
}

func (s *progressionStore) Delete(
	_ context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressionKey{userID, card}
	if _, exists := s.entries[key]; !exists {
		return store.ErrProgressionNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *progressionStore) ListDue(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
	now time.Time,
) ([]*domain.ProgressionEntry, error) {
	return s.list(userID, deckID, func(e domain.ProgressionEntry) bool { return e.IsDue(now) }), nil
}

func (s *progressionStore) ListByDeck(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]*domain.ProgressionEntry, error) {
	return s.list(userID, deckID, func(domain.ProgressionEntry) bool { return true }), nil
}

func (s *progressionStore) CountByDeck(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.entries {
		if key.userID == userID && key.card.DeckID == deckID {
			count++
		}
	}
	return count, nil
}

func (s *progressionStore) WithTx(*sql.Tx) store.ProgressionStore { return s }

func (s *progressionStore) list(
	userID uuid.UUID,
	deckID domain.DeckID,
	keep func(domain.ProgressionEntry) bool,
) []*domain.ProgressionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []*domain.ProgressionEntry
	for key, entry := range s.entries {
		if key.userID != userID || key.card.DeckID != deckID || !keep(entry) {
			continue
		}
		e := entry
		entries = append(entries, &e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Card.CardNumber < entries[j].Card.CardNumber
	})
	return entries
}

// masteryStore implements store.MasteryStore.
type masteryStore Store

var _ store.MasteryStore = (*masteryStore)(nil)

func (s *masteryStore) Exists(
	_ context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.masteries[progressionKey{userID, card}]
	return ok, nil
}

func (s *masteryStore) Create(_ context.Context, record *domain.MasteryRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressionKey{record.UserID, record.Card}
	if _, exists := s.masteries[key]; exists {
		return false, nil
	}
	s.masteries[key] = *record
	return true, nil
}

func (s *masteryStore) CountByDeck(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.masteries {
		if key.userID == userID && key.card.DeckID == deckID {
			count++
		}
	}
	return count, nil
}

func (s *masteryStore) WithTx(*sql.Tx) store.MasteryStore { return s }

// collectionStore implements store.CollectionStore.
type collectionStore Store

var _ store.CollectionStore = (*collectionStore)(nil)

func (s *collectionStore) Grant(
	_ context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
	rarity domain.Rarity,
	now time.Time,
) (*domain.OwnedCard, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ownedKey{userID, card, rarity}
	owned, exists := s.owned[key]
	if exists {
		owned.Copies++
	} else {
		owned = domain.OwnedCard{
			UserID:     userID,
			Card:       card,
			Rarity:     rarity,
			Copies:     1,
			AcquiredAt: now,
		}
	}
	s.owned[key] = owned
	result := owned
	return &result, !exists, nil
}

func (s *collectionStore) Owned(
	_ context.Context,
	userID uuid.UUID,
	card domain.CardIdentity,
	rarity domain.Rarity,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.owned[ownedKey{userID, card, rarity}]
	return ok, nil
}

func (s *collectionStore) ListByDeck(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) ([]*domain.OwnedCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cards []*domain.OwnedCard
	for key, owned := range s.owned {
		if key.userID != userID || key.card.DeckID != deckID {
			continue
		}
		c := owned
		cards = append(cards, &c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Card.CardNumber != cards[j].Card.CardNumber {
			return cards[i].Card.CardNumber < cards[j].Card.CardNumber
		}
		return cards[i].Rarity.Rank() < cards[j].Rarity.Rank()
	})
	return cards, nil
}

func (s *collectionStore) OwnedCount(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.owned {
		if key.userID == userID && key.card.DeckID == deckID {
			count++
		}
	}
	return count, nil
}

func (s *collectionStore) OwnedCountAtRarity(
	_ context.Context,
	userID uuid.UUID,
	deckID domain.DeckID,
	rarity domain.Rarity,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.owned {
		if key.userID == userID && key.card.DeckID == deckID && key.rarity == rarity {
			count++
		}
	}
	return count, nil
}

func (s *collectionStore) TotalOwned(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.owned {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

func (s *collectionStore) WithTx(*sql.Tx) store.CollectionStore { return s }

// streakStore implements store.StreakStore.
type streakStore Store

var _ store.StreakStore = (*streakStore)(nil)

func (s *streakStore) Get(
	_ context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
) (*domain.StreakState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.streaks[streakKey{userID, kind}]
	if !ok {
		return nil, store.ErrStreakNotFound
	}
	return &state, nil
}

func (s *streakStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
) (*domain.StreakState, error) {
	return s.Get(ctx, userID, kind)
}

func (s *streakStore) Upsert(_ context.Context, state *domain.StreakState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[streakKey{state.UserID, state.Kind}] = *state
	return nil
}

func (s *streakStore) WithTx(*sql.Tx) store.StreakStore { return s }

// currencyStore implements store.CurrencyStore.
type currencyStore Store

var _ store.CurrencyStore = (*currencyStore)(nil)

func (s *currencyStore) Balance(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[userID], nil
}

func (s *currencyStore) Credit(_ context.Context, userID uuid.UUID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] += amount
	return s.balances[userID], nil
}

func (s *currencyStore) Debit(_ context.Context, userID uuid.UUID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[userID] < amount {
		return 0, store.ErrInsufficientFunds
	}
	s.balances[userID] -= amount
	return s.balances[userID], nil
}

func (s *currencyStore) WithTx(*sql.Tx) store.CurrencyStore { return s }

// boosterOpenStore implements store.BoosterOpenStore.
type boosterOpenStore Store

var _ store.BoosterOpenStore = (*boosterOpenStore)(nil)

func (s *boosterOpenStore) Find(
	_ context.Context,
	userID, key uuid.UUID,
) (*store.BoosterOpenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.opens[openKey{userID, key}]
	if !ok {
		return nil, store.ErrOpenNotFound
	}
	return &record, nil
}

func (s *boosterOpenStore) Create(_ context.Context, record *store.BoosterOpenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := openKey{record.UserID, record.IdempotencyKey}
	if _, exists := s.opens[key]; exists {
		return store.ErrDuplicate
	}
	s.opens[key] = *record
	return nil
}

func (s *boosterOpenStore) WithTx(*sql.Tx) store.BoosterOpenStore { return s }
