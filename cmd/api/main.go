package main

import (
	"context"
	"time"

	"github.com/abhishek622/slotwise/internal/auth"
	"github.com/abhishek622/slotwise/internal/broker"
	"github.com/abhishek622/slotwise/internal/config"
	"github.com/abhishek622/slotwise/internal/database"
	"github.com/abhishek622/slotwise/internal/handler"
	"github.com/abhishek622/slotwise/internal/logger"
	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/abhishek622/slotwise/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type application struct {
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	TokenMaker *auth.JWTMaker
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns, cfg.DB.MaxConnLifetime)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := database.Migrate(ctx, pool)
		if err != nil {
			sugar.Fatal(err)
		}
		sugar.Infow("migrations applied", "files", applied)
	}

	var publisher negotiation.Publisher
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = broker.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := broker.Ping(pingCtx, rdb)
		cancel()
		if err != nil {
			// events are best effort; scheduling keeps working without them
			sugar.Warnw("redis unreachable, events will not be delivered until it recovers", "addr", cfg.Redis.Addr, "err", err)
		}
		publisher = broker.NewPublisher(rdb, cfg.Redis.EventsChannel)
	}

	repo := repository.NewRepository(pool)
	policy := negotiation.Policy{
		MinDuration:   cfg.Scheduling.MinDuration,
		MaxDuration:   cfg.Scheduling.MaxDuration,
		RequireFuture: cfg.Scheduling.RequireFuture,
	}

	app := &application{
		DB:         pool,
		Redis:      rdb,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		TokenMaker: auth.NewJWTMaker(cfg.JWT.Secret),
		Handler: &handler.Handler{
			Logger:       log,
			Engine:       negotiation.NewEngine(repo, publisher, policy, log),
			Applications: repo,
		},
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
