// Package sender собирает приложение отправки уведомлений.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/restaurant-pos/internal/config"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/smtp"
	"github.com/magabrotheeeer/restaurant-pos/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/restaurant-pos/internal/services/sender"
)

// App представляет приложение отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправки уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, 10, 3*time.Second)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(transport, ch, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди уведомлений и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	if err := a.senderService.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("sender service stopped", slog.Any("err", err))
		return err
	}

	a.logger.Info("sender service shutting down gracefully")
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
