package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spookygames/captain/internal/auth"
	"github.com/spookygames/captain/internal/config"
	"github.com/spookygames/captain/internal/handler"
	"github.com/spookygames/captain/internal/logger"
	"github.com/spookygames/captain/internal/middleware"
	"github.com/spookygames/captain/internal/neuralscore"
	"github.com/spookygames/captain/internal/repository/postgres"
	redisrepo "github.com/spookygames/captain/internal/repository/redis"
	"github.com/spookygames/captain/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	planRepo := postgres.NewPlanRepo(db)
	scorer := neuralscore.Load(cfg.ModelPath)
	planSvc := service.NewPlanService(redisClient, planRepo, scorer)

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	planHandler := handler.NewPlanHandler(planSvc)
	streamHandler := handler.NewStreamHandler(planSvc, jwtMgr)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	api := http.NewServeMux()
	api.HandleFunc("POST /plan", planHandler.Plan)
	mux.Handle("/v1/", http.StripPrefix("/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /v1/plan/stream", streamHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
