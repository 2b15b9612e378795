package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/common/config"
	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/httpapi"
	"restaurant-pos/internal/notify"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/report"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/staff"
	"restaurant-pos/internal/syncer"
	"restaurant-pos/internal/table"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := db.Connect(ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Pass, cfg.Database.Name)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()
	store := repository.NewPostgres(conn.Pool)

	hub := notify.NewHub()
	go func() { _ = hub.Run(ctx) }()

	var bus notify.Publisher = hub
	if cfg.Rabbit.Enabled {
		mqClient, err := mq.Dial(cfg.Rabbit.Host, cfg.Rabbit.Port, cfg.Rabbit.User, cfg.Rabbit.Pass)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer mqClient.Close()
		bridge, err := notify.NewAMQPBridge(mqClient, cfg.Rabbit.Exchange)
		if err != nil {
			return fmt.Errorf("failed to declare amqp exchange: %w", err)
		}
		bus = notify.Multi{hub, bridge}
	}

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		return err
	}

	handler := &httpapi.Handler{
		Auth:    auth.NewService(store, jwtManager),
		JWT:     jwtManager,
		Orders:  order.NewService(store, bus, order.TimerScheduler{}, cfg.Order.DrinkAutoReadyDelay),
		Tables:  table.NewService(store, bus),
		Catalog: catalog.NewService(store),
		Staff:   staff.NewService(store),
		Reports: report.NewService(store),
		Syncer:  syncer.NewService(store),
		Hub:     hub,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logging.Info().Str("addr", addr).Msg("pos server starting")
	return httpx.New(addr, handler.Router(), cfg.Server.Timeout).Run(ctx)
}
