package container

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkazanov/swapcircle-backend/internal/config"
	"github.com/mkazanov/swapcircle-backend/internal/delivery/http"
	"github.com/mkazanov/swapcircle-backend/internal/delivery/http/handler"
	"github.com/mkazanov/swapcircle-backend/internal/delivery/http/middleware"
	"github.com/mkazanov/swapcircle-backend/internal/infrastructure/database"
	"github.com/mkazanov/swapcircle-backend/internal/infrastructure/gemini"
	"github.com/mkazanov/swapcircle-backend/internal/infrastructure/server"
	"github.com/mkazanov/swapcircle-backend/internal/prefstore"
	"github.com/mkazanov/swapcircle-backend/internal/repository/postgres"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/auth"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/feed"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/listing"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/matching"
	"github.com/mkazanov/swapcircle-backend/internal/usecase/preferences"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	DB          *sqlx.DB
	Redis       *redis.Client
	Server      *server.Server
	Gemini      *gemini.Client
	Preferences *preferences.PreferencesUseCase
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis (backs the preference store)
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize Gemini client
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Warn().Err(err).Msg("gemini client unavailable, trade pitches disabled")
			geminiClient = nil
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	interestRepo := postgres.NewInterestRepository(db)
	tradeRepo := postgres.NewTradeRepository(db)
	passRepo := postgres.NewPassRepository(db)

	// Initialize use cases
	prefsUseCase := preferences.NewPreferencesUseCase(
		prefstore.NewRedisKV(redisClient),
	)

	matchingUseCase := matching.NewMatchingUseCase(
		interestRepo,
		tradeRepo,
		passRepo,
		listingRepo,
		geminiClient,
	)

	feedUseCase := feed.NewFeedUseCase(
		listingRepo,
		interestRepo,
		passRepo,
		prefsUseCase,
	)

	listingUseCase := listing.NewListingUseCase(listingRepo)

	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		prefsUseCase,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiryH)*time.Hour,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	listingHandler := handler.NewListingHandler(listingUseCase)
	feedHandler := handler.NewFeedHandler(feedUseCase)
	interestHandler := handler.NewInterestHandler(matchingUseCase)
	tradeHandler := handler.NewTradeHandler(matchingUseCase)
	preferencesHandler := handler.NewPreferencesHandler(prefsUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		listingHandler,
		feedHandler,
		interestHandler,
		tradeHandler,
		preferencesHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Server:      srv,
		Gemini:      geminiClient,
		Preferences: prefsUseCase,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Drain in-flight preference writes before the backing store goes away
	if c.Preferences != nil {
		c.Preferences.Flush()
	}

	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
