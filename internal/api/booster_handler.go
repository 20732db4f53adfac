package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arcana-app/arcana-api/internal/api/middleware"
	"github.com/arcana-app/arcana-api/internal/api/shared"
	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/service/booster"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client-generated key that makes booster
// opens safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// BoosterHandler handles booster status and open HTTP requests
type BoosterHandler struct {
	boosterService booster.Service
	logger         *slog.Logger
}

// NewBoosterHandler creates a new BoosterHandler
func NewBoosterHandler(
	boosterService booster.Service,
	logger *slog.Logger,
) *BoosterHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BoosterHandler")
	}

	return &BoosterHandler{
		boosterService: boosterService,
		logger:         logger.With(slog.String("component", "booster_handler")),
	}
}

// StatusResponse represents a booster kind's gate state
type StatusResponse struct {
	Kind             string `json:"kind"`
	Eligible         bool   `json:"eligible"`
	RetrySeconds     int64  `json:"retry_seconds"`
	StreakDays       int    `json:"streak_days"`
	LuckBonusPercent int    `json:"luck_bonus_percent"`
}

// OpenResponse represents an opened pack
type OpenResponse struct {
	Kind             string              `json:"kind"`
	Cards            []DrawnCardResponse `json:"cards"`
	StreakDays       int                 `json:"streak_days"`
	LuckBonusPercent int                 `json:"luck_bonus_percent"`
	Replayed         bool                `json:"replayed"`
}

// DrawnCardResponse is one slot of an opened pack
type DrawnCardResponse struct {
	DeckID     string `json:"deck_id"`
	CardNumber int    `json:"card_number"`
	Rarity     string `json:"rarity"`
	IsNew      bool   `json:"is_new"`
}

// Status handles GET /boosters/{kind} requests.
func (h *BoosterHandler) Status(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	kind := domain.BoosterKind(chi.URLParam(r, "kind"))
	premium := middleware.IsPremium(r)

	status, err := h.boosterService.Status(r.Context(), userID, kind, premium)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Kind:             string(status.Kind),
		Eligible:         status.Eligible,
		RetrySeconds:     int64(status.TimeRemaining / time.Second),
		StreakDays:       status.StreakDays,
		LuckBonusPercent: status.LuckBonusPercent,
	})
}

// Open handles POST /boosters/{kind}/open requests. A repeated
// Idempotency-Key replays the originally drawn pack; when the header is
// absent a key is generated, which makes the request safe but not retryable.
func (h *BoosterHandler) Open(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	kind := domain.BoosterKind(chi.URLParam(r, "kind"))
	premium := middleware.IsPremium(r)

	key := uuid.New()
	if header := r.Header.Get(IdempotencyKeyHeader); header != "" {
		parsed, err := uuid.Parse(header)
		if err != nil || parsed == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Idempotency-Key header must be a UUID")
			return
		}
		key = parsed
	}

	result, err := h.boosterService.Open(r.Context(), userID, kind, premium, key)
	if err != nil {
		// A closed gate tells the client when to come back.
		var notEligible *booster.NotEligibleError
		if errors.As(err, &notEligible) {
			shared.RespondWithRetryError(w, r, http.StatusTooManyRequests,
				GetSafeErrorMessage(err), notEligible.Remaining)
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := OpenResponse{
		Kind:             string(result.Kind),
		Cards:            make([]DrawnCardResponse, 0, len(result.Cards)),
		StreakDays:       result.StreakDays,
		LuckBonusPercent: result.LuckBonusPercent,
		Replayed:         result.Replayed,
	}
	for _, card := range result.Cards {
		response.Cards = append(response.Cards, DrawnCardResponse{
			DeckID:     string(card.Card.DeckID),
			CardNumber: card.Card.CardNumber,
			Rarity:     string(card.Rarity),
			IsNew:      card.IsNew,
		})
	}

	log.Debug("booster opened",
		slog.String("user_id", userID.String()),
		slog.String("kind", string(kind)),
		slog.Bool("replayed", result.Replayed))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
