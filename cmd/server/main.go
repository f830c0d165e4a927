package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Socialite/internal/api/middleware"
	"Socialite/internal/api/routes"
	"Socialite/internal/auth"
	"Socialite/internal/config"
	"Socialite/internal/core/comments"
	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
	"Socialite/internal/db/postgres"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
	}()
	logger.Info("connected to database")

	if cfg.SkipMigration {
		logger.Warn("skipping migrations")
	} else {
		if err := postgres.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		logger.Info("migrations completed successfully")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize token manager:", err)
	}

	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	userService := users.NewUserService(userRepo, tokens, cfg.StoreTimeout, logger)
	postService := posts.NewPostService(postRepo, userRepo, cfg.StoreTimeout, logger)
	commentService := comments.NewCommentService(commentRepo, postRepo, userRepo, cfg.StoreTimeout, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	go rateLimiter.Cleanup(ctx.Done())

	handler := routes.NewRouter(routes.Deps{
		Users:        userService,
		Posts:        postService,
		Comments:     commentService,
		Auth:         middleware.NewAuthMiddleware(tokens),
		RateLimiter:  rateLimiter,
		ClientOrigin: cfg.ClientOrigin,
		CookieSecure: cfg.CookieSecure,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "client_origin", cfg.ClientOrigin)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
