package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arcana-app/arcana-api/internal/api/shared"
	"github.com/arcana-app/arcana-api/internal/domain"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/service/collection"
	"github.com/go-chi/chi/v5"
)

// CollectionHandler handles collection ledger HTTP requests
type CollectionHandler struct {
	collectionService collection.Service
	logger            *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(
	collectionService collection.Service,
	logger *slog.Logger,
) *CollectionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CollectionHandler")
	}

	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger.With(slog.String("component", "collection_handler")),
	}
}

// OverviewResponse aggregates the whole collection
type OverviewResponse struct {
	Decks      []DeckOverviewResponse `json:"decks"`
	TotalOwned int                    `json:"total_owned"`
}

// DeckOverviewResponse summarizes ownership for one deck
type DeckOverviewResponse struct {
	DeckID           string `json:"deck_id"`
	TotalCards       int    `json:"total_cards"`
	OwnedEntries     int    `json:"owned_entries"`
	DistinctAtCommon int    `json:"distinct_at_common"`
	Complete         bool   `json:"complete"`
}

// OwnedCardResponse is one ledger record
type OwnedCardResponse struct {
	DeckID     string    `json:"deck_id"`
	CardNumber int       `json:"card_number"`
	Rarity     string    `json:"rarity"`
	Copies     int       `json:"copies"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Overview handles GET /collection requests.
func (h *CollectionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	overview, err := h.collectionService.Overview(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := OverviewResponse{
		Decks:      make([]DeckOverviewResponse, 0, len(overview.Decks)),
		TotalOwned: overview.TotalOwned,
	}
	for _, deck := range overview.Decks {
		response.Decks = append(response.Decks, DeckOverviewResponse{
			DeckID:           string(deck.DeckID),
			TotalCards:       deck.TotalCards,
			OwnedEntries:     deck.OwnedEntries,
			DistinctAtCommon: deck.DistinctAtCommon,
			Complete:         deck.Complete,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// DeckCards handles GET /collection/{deckID} requests.
func (h *CollectionHandler) DeckCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	deckID := domain.DeckID(chi.URLParam(r, "deckID"))

	cards, err := h.collectionService.DeckCards(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]OwnedCardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, OwnedCardResponse{
			DeckID:     string(card.Card.DeckID),
			CardNumber: card.Card.CardNumber,
			Rarity:     string(card.Rarity),
			Copies:     card.Copies,
			AcquiredAt: card.AcquiredAt,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
