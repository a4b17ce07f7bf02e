package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/anshul/guessquest/internal/auth"
	"github.com/anshul/guessquest/internal/clock"
	"github.com/anshul/guessquest/internal/config"
	"github.com/anshul/guessquest/internal/game"
	"github.com/anshul/guessquest/internal/logging"
	"github.com/anshul/guessquest/internal/middleware"
	"github.com/anshul/guessquest/internal/random"
	"github.com/anshul/guessquest/internal/store"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	// A store that is unreachable at startup is fatal; there is no
	// partial-degradation mode.
	connectCtx, cancelConnect := context.WithTimeout(ctx, 5*time.Second)
	defer cancelConnect()
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		log.Fatalf("mongo ping: %v", err)
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)

	users := store.NewUserStore(mongoDB, cfg.GuestTTL)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	history := store.NewHistoryStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb, auth.DefaultSessionTTL)

	// ── Game + handlers ──────────────────────────────────────
	rng := random.New()
	clk := clock.New()
	rounds := game.NewRegistry()
	gameService := game.NewService(rounds, history, users, rng, clk, logger)
	gameHandler := game.NewHandler(gameService)
	authHandler := auth.NewHandler(users, sessions, rng, logger)

	// ── Round eviction ───────────────────────────────────────
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.RoundTTL > 0 {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if n := rounds.Sweep(clk.Now().Add(-cfg.RoundTTL)); n > 0 {
						logger.Info("evicted abandoned rounds", "count", n)
					}
				}
			}
		}()
	}

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Liveness probe
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"API is online"}`))
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/guest", authHandler.Guest)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	r.Route("/api/game", func(r chi.Router) {
		r.Post("/start", gameHandler.Start)
		r.Post("/guess", gameHandler.Guess)
		r.Get("/leaderboard", gameHandler.Leaderboard)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("backend listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
