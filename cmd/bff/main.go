package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/config"
	"github.com/searchly/bff/internal/handler"
	"github.com/searchly/bff/internal/middleware"
	"github.com/searchly/bff/internal/service"
	"github.com/searchly/bff/internal/utils"
	"github.com/searchly/bff/internal/worker"
	"github.com/searchly/bff/pkg/searchly"
)

// main is the application entrypoint for the Searchly BFF.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting searchly bff")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize caches
	snapshots := cache.NewSnapshotCache(redisClient)
	transcripts := cache.NewTranscriptCache(redisClient)
	sessions := cache.NewSessionCache(redisClient, cfg.Session.TTL)

	// 5. Initialize backend client
	backend := searchly.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// 6. Initialize services
	authSvc := service.NewAuthService(backend, sessions)
	catalogSvc := service.NewCatalogService(backend, snapshots)
	favouriteSvc := service.NewFavouriteService(backend, catalogSvc)
	chatSvc := service.NewChatService(backend, transcripts)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(redisClient),
		Auth:      handler.NewAuthHandler(authSvc),
		Product:   handler.NewProductHandler(catalogSvc),
		Favourite: handler.NewFavouriteHandler(favouriteSvc),
		Chat:      handler.NewChatHandler(chatSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(sessions)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start background goroutines
	go favouriteSvc.Start(ctx)
	go worker.NewFavouriteSyncWorker(backend, catalogSvc, sessions, cfg.Worker.FavouriteSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Favourite *handler.FavouriteHandler
	Chat      *handler.ChatHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Auth routes (public)
	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)
	}

	// Session-protected routes
	v1 := router.Group("/v1")
	v1.Use(jwtMiddleware.Handle())
	{
		v1.POST("/auth/logout", handlers.Auth.Logout)

		v1.GET("/products", handlers.Product.GetProducts)

		v1.GET("/favourites", handlers.Favourite.List)
		v1.POST("/favourites/toggle", handlers.Favourite.Toggle)
		v1.DELETE("/favourites", handlers.Favourite.Remove)

		v1.POST("/chat", handlers.Chat.Ask)
		v1.GET("/chat/history", handlers.Chat.History)
		v1.DELETE("/chat/history", handlers.Chat.Clear)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
