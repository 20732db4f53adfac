package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcana-app/arcana-api/internal/config"
	"github.com/arcana-app/arcana-api/internal/domain"
	boosterdomain "github.com/arcana-app/arcana-api/internal/domain/booster"
	"github.com/arcana-app/arcana-api/internal/domain/srs"
	"github.com/arcana-app/arcana-api/internal/platform/postgres"
	"github.com/arcana-app/arcana-api/internal/service/auth"
	"github.com/arcana-app/arcana-api/internal/service/booster"
	"github.com/arcana-app/arcana-api/internal/service/collection"
	"github.com/arcana-app/arcana-api/internal/service/currency"
	"github.com/arcana-app/arcana-api/internal/service/progression"
	"github.com/arcana-app/arcana-api/internal/store"
)

// application holds the shared dependencies for the server: configuration,
// the database handle and the fully wired services.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService         auth.JWTService
	progressionService progression.Service
	boosterService     booster.Service
	collectionService  collection.Service
	currencyService    currency.Service
}

// newApplication wires stores and services from the configuration and the
// open database connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	catalog := domain.DefaultCatalog()
	txRunner := store.NewSQLTxRunner(db)

	progressionStore := postgres.NewPostgresProgressionStore(db, log)
	masteryStore := postgres.NewPostgresMasteryStore(db, log)
	collectionStore := postgres.NewPostgresCollectionStore(db, log)
	streakStore := postgres.NewPostgresStreakStore(db, log)
	currencyStore := postgres.NewPostgresCurrencyStore(db, log)
	openStore := postgres.NewPostgresBoosterOpenStore(db, log)

	srsService := srs.NewDefaultService()
	drawer := boosterdomain.NewDrawer(catalog, boosterdomain.NewDefaultParams(), nil)

	progressionService := progression.NewService(
		catalog,
		txRunner,
		progressionStore,
		masteryStore,
		collectionStore,
		srsService,
		log,
	)

	boosterService := booster.NewService(
		booster.Config{
			PaidBoosterCost:   cfg.Engine.PaidBoosterCost,
			EligibilityWindow: time.Duration(cfg.Engine.FreeWindowHours) * time.Hour,
			LuckBonusCap:      cfg.Engine.LuckBonusCap,
		},
		drawer,
		txRunner,
		streakStore,
		currencyStore,
		collectionStore,
		openStore,
		log,
	)

	return &application{
		config:             cfg,
		logger:             log,
		db:                 db,
		jwtService:         jwtService,
		progressionService: progressionService,
		boosterService:     boosterService,
		collectionService:  collection.NewService(catalog, collectionStore, log),
		currencyService:    currency.NewService(currencyStore, log),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
