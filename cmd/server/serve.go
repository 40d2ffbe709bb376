package main

import (
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoangnm/sports-booking/internal/availability"
	"github.com/hoangnm/sports-booking/internal/config"
	"github.com/hoangnm/sports-booking/internal/database"
	"github.com/hoangnm/sports-booking/internal/handler"
	"github.com/hoangnm/sports-booking/internal/hold"
	"github.com/hoangnm/sports-booking/internal/logger"
	"github.com/hoangnm/sports-booking/internal/middleware"
	"github.com/hoangnm/sports-booking/internal/queue"
	"github.com/hoangnm/sports-booking/internal/realtime"
	"github.com/hoangnm/sports-booking/internal/repository"
	"github.com/hoangnm/sports-booking/internal/router"
	"github.com/hoangnm/sports-booking/internal/tasks"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket server and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	// The hold store is load-bearing: without it two shoppers can both
	// believe a slot is free. Refuse to start rather than run without
	// it. REDIS_ADDR=memory opts into the in-process store for
	// single-instance dev setups.
	var (
		rdb       *redis.Client
		holdStore hold.Store
	)
	if cfg.RedisAddr == "memory" {
		holdStore = hold.NewMemoryStore()
		log.Warn("using in-memory hold store; holds are invisible to other instances")
	} else {
		rdb, err = config.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		holdStore = hold.NewRedisStore(rdb)
	}

	courtRepo := repository.NewCourtRepo(db)
	hourRepo := repository.NewOpeningHourRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	hub := realtime.NewHub(log)
	events := queue.NewPublisher(cfg.RabbitURL, log)

	var scheduler availability.ExpiryScheduler
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	if rdb != nil {
		client := tasks.NewClient(redisOpt)
		defer client.Close()
		scheduler = client
	}

	svc := availability.NewService(courtRepo, hourRepo, bookingRepo, holdStore, hub, events, scheduler, availability.Settings{
		SlotLength: cfg.SlotLength,
		HoldTTL:    cfg.HoldTTL,
		Logger:     log,
	})

	if rdb != nil {
		worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: cfg.AsynqConcurrency})
		mux := tasks.NewServeMux(tasks.NewHandlers(svc, log))
		go func() {
			if err := worker.Run(mux); err != nil {
				log.Error("asynq worker stopped", zap.Error(err))
			}
		}()
	}

	go queue.StartBookingConsumer(cfg.RabbitURL, log)

	e := echo.New()
	e.HideBanner = true
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e,
		handler.NewCourtHandler(svc, log),
		handler.NewBookingHandler(courtRepo, bookingRepo, holdStore, svc, events, log),
		handler.NewSocketHandler(svc, hub, log),
		cfg.JWTSecret,
		rateLimit,
	)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
