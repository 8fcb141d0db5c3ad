package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"

	"github.com/partiallymisplaced/so-connect/internal/config"
	"github.com/partiallymisplaced/so-connect/internal/database"
	"github.com/partiallymisplaced/so-connect/internal/engine"
	"github.com/partiallymisplaced/so-connect/internal/handlers"
	"github.com/partiallymisplaced/so-connect/internal/middleware"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}

func openStore(cfg *config.DatabaseConfig) (database.Store, error) {
	if cfg.URI == "" {
		slog.Warn("MONGODB_URI not set, using in-memory store")
		return database.NewMemoryStore(), nil
	}
	return database.NewMongoDB(cfg.URI, cfg.Name)
}

func buildRouter(server *handlers.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", server.HandleHealth())

	// Users
	mux.HandleFunc("POST /api/users/register", server.HandleUserRegistration())
	mux.HandleFunc("POST /api/users/login", server.HandleUserLogin())

	// Profiles
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(server.HandleCurrentProfile()))
	mux.HandleFunc("POST /api/profile", middleware.RequireAuth(server.HandleUpsertProfile()))
	mux.HandleFunc("GET /api/profile/all", server.HandleAllProfiles())
	mux.HandleFunc("GET /api/profile/handle/{handle}", server.HandleProfileByHandle())
	mux.HandleFunc("GET /api/profile/user/{user_id}", server.HandleProfileByUser())
	mux.HandleFunc("POST /api/profile/experience", middleware.RequireAuth(server.HandleAddExperience()))
	mux.HandleFunc("DELETE /api/profile/experience/{id}", middleware.RequireAuth(server.HandleRemoveExperience()))
	mux.HandleFunc("POST /api/profile/education", middleware.RequireAuth(server.HandleAddEducation()))
	mux.HandleFunc("DELETE /api/profile/education/{id}", middleware.RequireAuth(server.HandleRemoveEducation()))
	mux.HandleFunc("DELETE /api/profile", middleware.RequireAuth(server.HandleDeleteAccount()))

	// Posts
	mux.HandleFunc("POST /api/posts", middleware.RequireAuth(server.HandleCreatePost()))
	mux.HandleFunc("GET /api/posts", server.HandleAllPosts())
	mux.HandleFunc("GET /api/posts/{id}", server.HandleGetPost())
	mux.HandleFunc("DELETE /api/posts/{id}", middleware.RequireAuth(server.HandleDeletePost()))
	mux.HandleFunc("POST /api/posts/like/{id}", middleware.RequireAuth(server.HandleLikePost()))
	mux.HandleFunc("POST /api/posts/unlike/{id}", middleware.RequireAuth(server.HandleUnlikePost()))
	mux.HandleFunc("POST /api/posts/comment/{id}", middleware.RequireAuth(server.HandleAddComment()))
	mux.HandleFunc("DELETE /api/posts/comment/{id}/{comment_id}", middleware.RequireAuth(server.HandleRemoveComment()))

	return mux
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Debug)
	middleware.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	store, err := openStore(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store)
	server := handlers.NewServer(system, eng, metrics)

	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      cors(buildRouter(server)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
