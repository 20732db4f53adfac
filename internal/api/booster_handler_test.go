package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arcana-app/arcana-api/internal/api/shared"
	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/service/booster"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBoosterService lets each test script the service responses.
type stubBoosterService struct {
	open   func(context.Context, uuid.UUID, domain.BoosterKind, bool, uuid.UUID) (*booster.OpenResult, error)
	status func(context.Context, uuid.UUID, domain.BoosterKind, bool) (*booster.Status, error)
}

func (s *stubBoosterService) Open(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
	premium bool,
	key uuid.UUID,
) (*booster.OpenResult, error) {
	return s.open(ctx, userID, kind, premium, key)
}

func (s *stubBoosterService) Status(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.BoosterKind,
	premium bool,
) (*booster.Status, error) {
	return s.status(ctx, userID, kind, premium)
}

func newBoosterRouter(svc booster.Service) http.Handler {
	h := NewBoosterHandler(svc, slog.Default())
	r := chi.NewRouter()
	r.Get("/boosters/{kind}", h.Status)
	r.Post("/boosters/{kind}/open", h.Open)
	return r
}

func premiumAuthenticated(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, shared.PremiumContextKey, true)
	return req.WithContext(ctx)
}

func TestBoosterStatusHandler(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc := &stubBoosterService{
		status: func(_ context.Context, _ uuid.UUID, kind domain.BoosterKind, premium bool) (*booster.Status, error) {
			assert.Equal(t, domain.BoosterFree, kind)
			assert.False(t, premium)
			return &booster.Status{
				Kind:             domain.BoosterFree,
				Eligible:         false,
				TimeRemaining:    90 * time.Minute,
				StreakDays:       4,
				LuckBonusPercent: 4,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/boosters/free", nil)
	w := httptest.NewRecorder()
	newBoosterRouter(svc).ServeHTTP(w, authenticated(req, uuid.New()))

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "free", resp.Kind)
	assert.False(t, resp.Eligible)
	assert.Equal(t, int64(5400), resp.RetrySeconds)
	assert.Equal(t, 4, resp.StreakDays)
}

func TestBoosterOpenHandlerSuccess(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()
	key := uuid.New()

	svc := &stubBoosterService{
		open: func(_ context.Context, gotUser uuid.UUID, kind domain.BoosterKind, premium bool, gotKey uuid.UUID) (*booster.OpenResult, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, domain.BoosterPremium, kind)
			assert.True(t, premium)
			assert.Equal(t, key, gotKey)
			return &booster.OpenResult{
				Kind: domain.BoosterPremium,
				Cards: []booster.DrawnCard{
					{Card: domain.CardIdentity{DeckID: domain.DeckOracle, CardNumber: 12}, Rarity: domain.RarityRare, IsNew: true},
					{Card: domain.CardIdentity{DeckID: domain.DeckRunes, CardNumber: 4}, Rarity: domain.RarityCommon, IsNew: false},
				},
				StreakDays:       2,
				LuckBonusPercent: 2,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/boosters/premium/open", nil)
	req.Header.Set(IdempotencyKeyHeader, key.String())
	w := httptest.NewRecorder()
	newBoosterRouter(svc).ServeHTTP(w, premiumAuthenticated(req, userID))

	require.Equal(t, http.StatusOK, w.Code)

	var resp OpenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "premium", resp.Kind)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "rare", resp.Cards[0].Rarity)
	assert.True(t, resp.Cards[0].IsNew)
	assert.Equal(t, 2, resp.StreakDays)
	assert.False(t, resp.Replayed)
}

func TestBoosterOpenHandlerIdempotencyKey(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("malformed header rejected", func(t *testing.T) {
		t.Parallel()
		svc := &stubBoosterService{
			open: func(context.Context, uuid.UUID, domain.BoosterKind, bool, uuid.UUID) (*booster.OpenResult, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/boosters/free/open", nil)
		req.Header.Set(IdempotencyKeyHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		newBoosterRouter(svc).ServeHTTP(w, authenticated(req, uuid.New()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing header gets a generated key", func(t *testing.T) {
		t.Parallel()
		var gotKey uuid.UUID
		svc := &stubBoosterService{
			open: func(_ context.Context, _ uuid.UUID, _ domain.BoosterKind, _ bool, key uuid.UUID) (*booster.OpenResult, error) {
				gotKey = key
				return &booster.OpenResult{Kind: domain.BoosterFree}, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/boosters/free/open", nil)
		w := httptest.NewRecorder()
		newBoosterRouter(svc).ServeHTTP(w, authenticated(req, uuid.New()))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEqual(t, uuid.Nil, gotKey)
	})
}

func TestBoosterOpenHandlerGateClosedCarriesRetry(t *testing.T) {
	t.Parallel() // Enable parallel execution
	svc := &stubBoosterService{
		open: func(context.Context, uuid.UUID, domain.BoosterKind, bool, uuid.UUID) (*booster.OpenResult, error) {
			return nil, &booster.NotEligibleError{Remaining: 90 * time.Minute}
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/boosters/free/open", nil)
	req.Header.Set(IdempotencyKeyHeader, uuid.New().String())
	w := httptest.NewRecorder()
	newBoosterRouter(svc).ServeHTTP(w, authenticated(req, uuid.New()))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "5400", w.Header().Get("Retry-After"))

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Booster not available yet", resp.Error)
	assert.Equal(t, int64(5400), resp.RetrySeconds)
}

func TestBoosterOpenHandlerErrorMapping(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "gate closed", err: booster.ErrNotEligible, wantStatus: http.StatusTooManyRequests},
		{name: "premium required", err: booster.ErrPremiumRequired, wantStatus: http.StatusForbidden},
		{name: "insufficient funds", err: booster.ErrInsufficientFunds, wantStatus: http.StatusPaymentRequired},
		{name: "key reused across kinds", err: booster.ErrIdempotencyConflict, wantStatus: http.StatusConflict},
		{name: "unknown kind", err: booster.ErrUnknownKind, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubBoosterService{
				open: func(context.Context, uuid.UUID, domain.BoosterKind, bool, uuid.UUID) (*booster.OpenResult, error) {
					return nil, tc.err
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/boosters/free/open", nil)
			req.Header.Set(IdempotencyKeyHeader, uuid.New().String())
			w := httptest.NewRecorder()
			newBoosterRouter(svc).ServeHTTP(w, authenticated(req, uuid.New()))

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
