package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"rockettalk/internal/config"
	"rockettalk/internal/db"
	"rockettalk/internal/mqhandler"
	"rockettalk/internal/repository"
	"rockettalk/pkg/logger"
	"rockettalk/pkg/mq"
)

const (
	queueName = "rockettalk.notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New()
	defer log.Sync()

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	notificationRepo := repository.NewNotificationRepository(dbConn)
	handler := mqhandler.NewMessageSentHandler(notificationRepo, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, queueName, mq.RoutingKeyMessageSent, log)
	if err != nil {
		log.Fatal("MQ consumer initialization failed", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(handler.Handle)

	log.Info("Notification worker started",
		zap.String("queue", queueName),
		zap.String("routing_key", mq.RoutingKeyMessageSent),
	)
	if err := consumer.StartConsuming(); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
