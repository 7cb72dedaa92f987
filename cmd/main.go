package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/chat-realtime/internal/api"
	"github.com/fathima-sithara/chat-realtime/internal/config"
	"github.com/fathima-sithara/chat-realtime/internal/kafka"
	"github.com/fathima-sithara/chat-realtime/internal/logger"
	"github.com/fathima-sithara/chat-realtime/internal/presence"
	"github.com/fathima-sithara/chat-realtime/internal/registry"
	"github.com/fathima-sithara/chat-realtime/internal/reminder"
	"github.com/fathima-sithara/chat-realtime/internal/router"
	"github.com/fathima-sithara/chat-realtime/internal/store"
	"github.com/fathima-sithara/chat-realtime/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zl, err := logger.New(cfg.App.Env != "production")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	mongoClient, err := store.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		zl.Fatalw("mongo connect", "err", err)
	}
	gateway := store.NewMongoGateway(mongoClient.Database(cfg.Mongo.Database))

	var tracker ws.PresenceTracker
	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tracker = presence.NewStore(rdb, cfg.Redis.Prefix)
		defer func() { _ = rdb.Close() }()
	}

	var producer router.Publisher
	var kafkaProducer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent)
		producer = kafkaProducer
		defer func() { _ = kafkaProducer.Close() }()
	}

	reg := registry.New()
	hub := ws.NewHub(zl)
	rt := router.New(reg, gateway, hub, producer, zl)
	wsSrv := ws.NewServer(hub, reg, rt, tracker, ws.Options{
		PingInterval:   cfg.PingInterval,
		WriteDeadline:  cfg.WriteDeadline,
		ReadDeadline:   cfg.ReadDeadline,
		MaxMessageSize: cfg.WS.MaxMessageSizeBytes,
		JWTSecret:      cfg.App.JWTSecret,
	}, zl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := reminder.NewScheduler(gateway, reg, hub, cfg.ReminderInterval, cfg.ReminderWindow, zl)
	go sched.Run(ctx)

	app := api.New(wsSrv, gateway)

	errs := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		zl.Infow("starting realtime service", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		zl.Fatalw("server error", "err", err)
	case s := <-sig:
		zl.Infow("signal received", "signal", s)
	}

	cancel()
	if err := app.Shutdown(); err != nil {
		zl.Warnw("fiber shutdown", "err", err)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		zl.Warnw("mongo disconnect", "err", err)
	}
	zl.Info("shut down")
}
