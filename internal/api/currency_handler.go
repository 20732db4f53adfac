package api

import (
	"log/slog"
	"net/http"

	"github.com/arcana-app/arcana-api/internal/api/shared"
	"github.com/arcana-app/arcana-api/internal/platform/logger"
	"github.com/arcana-app/arcana-api/internal/service/currency"
)

// CurrencyHandler handles currency account HTTP requests
type CurrencyHandler struct {
	currencyService currency.Service
	logger          *slog.Logger
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(
	currencyService currency.Service,
	logger *slog.Logger,
) *CurrencyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CurrencyHandler")
	}

	return &CurrencyHandler{
		currencyService: currencyService,
		logger:          logger.With(slog.String("component", "currency_handler")),
	}
}

// CreditRequest represents the request body for crediting the balance
type CreditRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// BalanceResponse represents the currency balance
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// Balance handles GET /currency requests.
func (h *CurrencyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	balance, err := h.currencyService.Balance(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}

// Credit handles POST /currency/credit requests.
func (h *CurrencyHandler) Credit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var req CreditRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	balance, err := h.currencyService.Credit(r.Context(), userID, req.Amount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("balance credited",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", req.Amount))
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}
