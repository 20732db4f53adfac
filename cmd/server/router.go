package main

import (
	"net/http"

	"github.com/arcana-app/arcana-api/internal/api"
	apiMiddleware "github.com/arcana-app/arcana-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	progressionHandler := api.NewProgressionHandler(app.progressionService, app.logger)
	boosterHandler := api.NewBoosterHandler(app.boosterService, app.logger)
	collectionHandler := api.NewCollectionHandler(app.collectionService, app.logger)
	currencyHandler := api.NewCurrencyHandler(app.currencyService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Progression endpoints
			r.Post("/decks/{deckID}/cards/{cardNumber}/answer", progressionHandler.SubmitAnswer)
			r.Get("/decks/{deckID}/review", progressionHandler.DueForReview)
			r.Get("/decks/{deckID}/progress", progressionHandler.DeckProgress)

			// Booster endpoints
			r.Get("/boosters/{kind}", boosterHandler.Status)
			r.Post("/boosters/{kind}/open", boosterHandler.Open)

			// Collection endpoints
			r.Get("/collection", collectionHandler.Overview)
			r.Get("/collection/{deckID}", collectionHandler.DeckCards)

			// Currency endpoints
			r.Get("/currency", currencyHandler.Balance)
			r.Post("/currency/credit", currencyHandler.Credit)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
