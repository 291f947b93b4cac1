package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"rockettalk/internal/config"
	"rockettalk/internal/db"
	"rockettalk/internal/httpserver"
	"rockettalk/internal/redisclient"
	"rockettalk/internal/repository"
	"rockettalk/internal/service"
	"rockettalk/internal/session"
	"rockettalk/pkg/logger"
	"rockettalk/pkg/mq"
)

func main() {
	port := flag.Int("port", 0, "The port number to listen on.")
	host := flag.String("host", "0.0.0.0", "The hostname to listen on.")
	flag.Parse()

	if *port == 0 {
		fmt.Fprintln(os.Stderr, "the --port flag is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := config.ValidatePort(*port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Make sure the port is actually free before doing any heavy setup.
	if err := config.ProbePort(*host, *port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Server.Host = *host
	cfg.Server.Port = *port

	log := logger.New()
	defer log.Sync()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, dbConn); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		log.Fatal("Redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("MQ publisher initialization failed", zap.Error(err))
	}
	defer publisher.Close()

	tokenTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Services
	roster := service.NewRosterService(userRepo, log)
	if err := roster.Seed(ctx, cfg.Roster.Path); err != nil {
		log.Fatal("Roster seeding failed", zap.Error(err))
	}

	authService := service.NewAuthService(userRepo, cfg.Session.Secret, tokenTTL)
	messageService := service.NewMessageService(messageRepo, publisher)

	alerts := session.NewRedisAlerts(rdb, tokenTTL)

	server := httpserver.NewServer(
		messageService,
		authService,
		notificationRepo,
		alerts,
		cfg.Session.Secret,
		tokenTTL,
		log,
	)
	router := httpserver.NewRouter(server)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting RocketTalk web server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
