// Package sender реализует отправку писем владельцам заведений
// по сообщениям из очереди уведомлений.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/lib/smtp"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
	"github.com/magabrotheeeer/restaurant-pos/internal/rabbitmq"
)

// Service читает очередь trial-expired и отправляет письма через SMTP.
type Service struct {
	transport smtp.TransportInterface
	ch        *amqp.Channel
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, ch *amqp.Channel, log *slog.Logger) *Service {
	return &Service{transport: transport, ch: ch, log: log}
}

// Run подписывается на очередь уведомлений и блокируется до отмены контекста.
func (s *Service) Run(ctx context.Context) error {
	const op = "sender.Run"

	for _, q := range rabbitmq.GetNotificationQueues() {
		if err := rabbitmq.ConsumerMessage(ctx, s.ch, q.QueueName, s.handle); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

// handle разбирает сообщение и отправляет письмо. Ошибка ведет к nack —
// сообщение вернется в очередь и будет доставлено повторно.
func (s *Service) handle(body []byte) error {
	const op = "sender.handle"

	var info models.TrialExpiredInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sendTrialExpired(info); err != nil {
		s.log.Error("failed to send trial-expired email",
			sl.Restaurant(info.RestaurantID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("trial-expired email sent",
		sl.Restaurant(info.RestaurantID),
		slog.String("to", info.OwnerEmail))
	return nil
}

func (s *Service) sendTrialExpired(info models.TrialExpiredInfo) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			_ = client.Close()
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(info.OwnerEmail); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, info.OwnerEmail,
		"Пробный период завершен",
		fmt.Sprintf("Здравствуйте!\r\n\r\n"+
			"Пробный период заведения %q (%s) завершился, и аккаунт приостановлен.\r\n"+
			"Выберите тариф, чтобы продолжить принимать заказы.\r\n",
			info.RestaurantName, info.Slug))
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
