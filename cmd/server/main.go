package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/netfolio/netfolio-backend/internal/adapter/httpapi"
	"github.com/netfolio/netfolio-backend/internal/adapter/provider"
	"github.com/netfolio/netfolio-backend/internal/adapter/repository/postgres"
	"github.com/netfolio/netfolio-backend/internal/adapter/session"
	"github.com/netfolio/netfolio-backend/internal/config"
	"github.com/netfolio/netfolio-backend/internal/usecase/aggregator"
	"github.com/netfolio/netfolio-backend/internal/usecase/goalsync"
	"github.com/netfolio/netfolio-backend/internal/usecase/monitor"
)

func main() {
	cfg := config.LoadConfig()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if !cfg.IsProd {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// 1. Goal store (Postgres)
	// Add 2-second delay to ensure Postgres is up (simple retry)
	time.Sleep(2 * time.Second)

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to migrate goal store: %v", err)
	}
	goalRepo := postgres.NewGoalRepository(db)

	// 2. Session state (Redis)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	sessions := session.NewStore(redisClient, cfg.SessionKey, cfg.SessionSecret)

	// 3. Record providers, one per category
	providers := provider.NewRESTProviders(cfg.ProviderBaseURL)

	// 4. Aggregation engine
	store := aggregator.NewSnapshotStore()
	goalSync := goalsync.NewService(goalRepo)
	engine := aggregator.NewService(providers, store, sessions, goalSync)

	// 5. Identity monitor: its first sample picks up a session already
	// present at boot and triggers the initial aggregation run.
	idMonitor := monitor.New(sessions, engine, cfg.PollInterval)
	idMonitor.Start(ctx)
	defer idMonitor.Stop()

	// 6. HTTP surface
	api := httpapi.NewServer(engine, providers, sessions, goalRepo, cfg.AdminToken)
	httpServer := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("Engine listening on :%s", cfg.AppPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	waitForShutdown(httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
