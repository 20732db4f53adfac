// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/arcana-app/arcana-api/internal/api/shared"
	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/service/progression"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProgressionHandler handles card answer and review queue HTTP requests
type ProgressionHandler struct {
	progressionService progression.Service
	logger             *slog.Logger
}

// NewProgressionHandler creates a new ProgressionHandler
func NewProgressionHandler(
	progressionService progression.Service,
	logger *slog.Logger,
) *ProgressionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressionHandler")
	}

	return &ProgressionHandler{
		progressionService: progressionService,
		logger:             logger.With(slog.String("component", "progression_handler")),
	}
}

// AnswerRequest represents the request body for submitting an answer
type AnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// AnswerResponse represents the response data for a submitted answer
type AnswerResponse struct {
	DeckID          string               `json:"deck_id"`
	CardNumber      int                  `json:"card_number"`
	NewLevel        int                  `json:"new_level"`
	NextDueAt       *time.Time           `json:"next_due_at,omitempty"`
	JustMastered    bool                 `json:"just_mastered"`
	AlreadyMastered bool                 `json:"already_mastered"`
	Reward          *MasteryGrantPayload `json:"reward,omitempty"`
}

// MasteryGrantPayload describes the golden copy granted on mastery
type MasteryGrantPayload struct {
	DeckID     string `json:"deck_id"`
	CardNumber int    `json:"card_number"`
	Rarity     string `json:"rarity"`
	IsNew      bool   `json:"is_new"`
}

// DueCardResponse is one row of the review queue
type DueCardResponse struct {
	DeckID     string `json:"deck_id"`
	CardNumber int    `json:"card_number"`
	Level      int    `json:"level"`
}

// SnapshotResponse represents per-deck progress
type SnapshotResponse struct {
	DeckID       string                 `json:"deck_id"`
	TotalCards   int                    `json:"total_cards"`
	NotStarted   int                    `json:"not_started"`
	InProgress   int                    `json:"in_progress"`
	Memorized    int                    `json:"memorized"`
	DeckMastered bool                   `json:"deck_mastered"`
	Cards        []CardProgressResponse `json:"cards"`
}

// CardProgressResponse is one card's state within a snapshot
type CardProgressResponse struct {
	CardNumber int       `json:"card_number"`
	Level      int       `json:"level"`
	NextDueAt  time.Time `json:"next_due_at"`
}

// SubmitAnswer handles POST /decks/{deckID}/cards/{cardNumber}/answer
// requests. It applies one answer to the card's progression ladder.
func (h *ProgressionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	card, ok := cardIdentityFromURL(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.progressionService.SubmitAnswer(r.Context(), userID, card, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := AnswerResponse{
		DeckID:          string(card.DeckID),
		CardNumber:      card.CardNumber,
		NewLevel:        result.NewLevel,
		JustMastered:    result.JustMastered,
		AlreadyMastered: result.AlreadyMastered,
	}
	if !result.NextDueAt.IsZero() {
		due := result.NextDueAt
		response.NextDueAt = &due
	}
	if result.Mastery != nil {
		response.Reward = &MasteryGrantPayload{
			DeckID:     string(result.Mastery.Card.DeckID),
			CardNumber: result.Mastery.Card.CardNumber,
			Rarity:     string(result.Mastery.Rarity),
			IsNew:      result.Mastery.NewlyOwned,
		}
	}

	log.Debug("answer processed",
		slog.String("user_id", userID.String()),
		slog.String("card", card.String()),
		slog.Int("new_level", result.NewLevel))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// DueForReview handles GET /decks/{deckID}/review requests.
// It returns the deck's cards due for review now, ordered by card number.
func (h *ProgressionHandler) DueForReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	deckID := domain.DeckID(chi.URLParam(r, "deckID"))

	due, err := h.progressionService.DueForReview(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]DueCardResponse, 0, len(due))
	for _, card := range due {
		response = append(response, DueCardResponse{
			DeckID:     string(card.Card.DeckID),
			CardNumber: card.Card.CardNumber,
			Level:      card.Level,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// DeckProgress handles GET /decks/{deckID}/progress requests.
func (h *ProgressionHandler) DeckProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	deckID := domain.DeckID(chi.URLParam(r, "deckID"))

	snapshot, err := h.progressionService.DeckSnapshot(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := SnapshotResponse{
		DeckID:       string(snapshot.DeckID),
		TotalCards:   snapshot.TotalCards,
		NotStarted:   snapshot.NotStarted,
		InProgress:   snapshot.InProgress,
		Memorized:    snapshot.Memorized,
		DeckMastered: snapshot.DeckMastered,
		Cards:        make([]CardProgressResponse, 0, len(snapshot.Cards)),
	}
	for _, card := range snapshot.Cards {
		response.Cards = append(response.Cards, CardProgressResponse{
			CardNumber: card.Card.CardNumber,
			Level:      card.Level,
			NextDueAt:  card.NextDueAt,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// userIDFromRequest extracts the authenticated user ID, answering 401 itself
// when the auth middleware did not run or stored garbage.
func userIDFromRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// cardIdentityFromURL parses the deck and card number URL parameters,
// answering 400 itself for a malformed card number. Range checks belong to
// the service.
func cardIdentityFromURL(w http.ResponseWriter, r *http.Request) (domain.CardIdentity, bool) {
	deckID := domain.DeckID(chi.URLParam(r, "deckID"))

	cardNumber, err := strconv.Atoi(chi.URLParam(r, "cardNumber"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card number")
		return domain.CardIdentity{}, false
	}

	return domain.CardIdentity{DeckID: deckID, CardNumber: cardNumber}, true
}
