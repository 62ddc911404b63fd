package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnav127/sports-ladder/internal/challenge"
	"github.com/arnav127/sports-ladder/internal/config"
	"github.com/arnav127/sports-ladder/internal/elo"
	"github.com/arnav127/sports-ladder/internal/events"
	"github.com/arnav127/sports-ladder/internal/handlers"
	"github.com/arnav127/sports-ladder/internal/metrics"
	"github.com/arnav127/sports-ladder/internal/models"
	"github.com/arnav127/sports-ladder/internal/notifier"
	"github.com/arnav127/sports-ladder/internal/repositories"
	"github.com/arnav127/sports-ladder/internal/routers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Sport{},
		&models.PlayerProfile{},
		&models.Match{},
		&models.RatingHistory{},
	); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	userRepo := &repositories.UserRepository{DB: db}
	sportRepo := &repositories.SportRepository{DB: db}
	playerRepo := &repositories.PlayerRepository{DB: db}
	matchRepo := &repositories.MatchRepository{DB: db}

	if err := matchRepo.EnsureActivePairIndex(); err != nil {
		logger.Fatal("failed to create active pair index", zap.Error(err))
	}
	if err := sportRepo.EnsureSports(cfg.DefaultSports); err != nil {
		logger.Fatal("failed to seed sports", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var emitter events.Emitter = events.NopEmitter{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		emitter = events.NewRedisEmitter(rdb, logger)

		n := notifier.New(rdb, matchRepo, playerRepo, userRepo, cfg.PublicSiteURL, logger)
		go func() {
			if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notifier stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("REDIS_URL not set, lifecycle events and notifications disabled")
	}

	service := challenge.NewService(playerRepo, matchRepo, elo.NewEngine(), emitter, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.PublicSiteURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	routers.APIRoutes(r, routers.Handlers{
		Auth:      handlers.NewAuthHandler(userRepo, cfg.JWTSecret),
		Ladder:    handlers.NewLadderHandler(sportRepo, playerRepo, cfg.JWTSecret),
		Challenge: handlers.NewChallengeHandler(service, cfg.JWTSecret),
		Match:     handlers.NewMatchHandler(service, matchRepo, cfg.JWTSecret),
		Profile:   handlers.NewProfileHandler(playerRepo, matchRepo, cfg.JWTSecret),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
