package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mehndi-album-backend/internal/ai"
	"mehndi-album-backend/internal/config"
	"mehndi-album-backend/internal/handlers"
	"mehndi-album-backend/internal/middleware"
	"mehndi-album-backend/internal/repository"
	"mehndi-album-backend/internal/services"
	"mehndi-album-backend/internal/storage"
	"mehndi-album-backend/migrations"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfgPath := os.Getenv("CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Run schema migrations
	if err := migrations.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize collaborators
	blobStore, err := storage.NewBlobStore(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store")
	}
	captioner := ai.NewCaptioner(cfg.Gemini)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	albumRepo := repository.NewAlbumRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.Auth.JWTSecret)
	photoService := services.NewPhotoService(photoRepo, blobStore, captioner, cfg.Upload.RootFolder)
	albumService := services.NewAlbumService(albumRepo, photoRepo)
	adminService := services.NewAdminService(userRepo, photoRepo, albumRepo, blobStore,
		cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	photoHandler := handlers.NewPhotoHandler(photoService, captioner)
	albumHandler := handlers.NewAlbumHandler(albumService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// Admin routes: shared-secret credentials in the body, no session
		r.Post("/admin/users", adminHandler.ListUsers)
		r.Post("/admin/delete-user", adminHandler.DeleteUser)
		r.Post("/admin/photos", adminHandler.ListPhotos)
		r.Post("/admin/delete-photos", adminHandler.BulkDeletePhotos)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(userService))

			r.Get("/photos", photoHandler.List)
			r.Post("/photos", photoHandler.Upload)
			r.Put("/photos/{id}", photoHandler.Update)
			r.Delete("/photos/{id}", photoHandler.Delete)
			r.Post("/photos/bulk-delete", photoHandler.BulkDelete)
			r.Post("/generate-caption", photoHandler.GenerateCaption)

			r.Get("/albums", albumHandler.List)
			r.Post("/albums", albumHandler.Create)
			r.Get("/albums/{id}", albumHandler.Get)
			r.Put("/albums/{id}", albumHandler.Update)
			r.Delete("/albums/{id}", albumHandler.Delete)
			r.Post("/albums/{id}/photos", albumHandler.AddPhoto)
			r.Delete("/albums/{id}/photos", albumHandler.RemovePhoto)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
