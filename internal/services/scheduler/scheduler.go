// Package scheduler реализует фоновые задачи биллинга: сброс месячных
// счетчиков заказов и приостановку заведений с истекшим trial-периодом.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/restaurant-pos/internal/lib/sl"
	"github.com/magabrotheeeer/restaurant-pos/internal/models"
	"github.com/magabrotheeeer/restaurant-pos/internal/rabbitmq"
)

// Repository описывает контракт хранилища для фоновых задач биллинга.
type Repository interface {
	ResetMonthlyOrderCounters(ctx context.Context) (int, error)
	SuspendExpiredTrials(ctx context.Context) ([]*models.TrialExpiredInfo, error)
}

// Service периодически обслуживает состояние подписок всех заведений.
type Service struct {
	repo     Repository
	ch       *amqp.Channel
	log      *slog.Logger
	interval time.Duration
}

// New создает новый экземпляр Service.
func New(repo Repository, ch *amqp.Channel, log *slog.Logger, interval time.Duration) *Service {
	return &Service{repo: repo, ch: ch, log: log, interval: interval}
}

// Run запускает цикл обслуживания и блокируется до отмены контекста.
// Первый проход выполняется сразу: после рестарта процесс не должен
// ждать целый интервал, чтобы наверстать пропущенную смену месяца.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	if err := s.resetCounters(ctx); err != nil {
		s.log.Error("monthly counters reset failed", sl.Err(err))
	}
	if err := s.suspendExpired(ctx); err != nil {
		s.log.Error("trial sweep failed", sl.Err(err))
	}
}

// resetCounters обнуляет счетчики заказов заведений, у которых еще не было
// сброса в текущем календарном месяце. Идемпотентно: условие по
// orders_reset_at делает повторные запуски в том же месяце холостыми.
func (s *Service) resetCounters(ctx context.Context) error {
	const op = "scheduler.resetCounters"

	n, err := s.repo.ResetMonthlyOrderCounters(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.log.Info("monthly order counters reset", slog.Int("restaurants", n))
	}
	return nil
}

// suspendExpired приостанавливает заведения с истекшим trial и публикует
// уведомление для каждого — письмо владельцу отправит notification-sender.
func (s *Service) suspendExpired(ctx context.Context) error {
	const op = "scheduler.suspendExpired"

	suspended, err := s.repo.SuspendExpiredTrials(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, info := range suspended {
		s.log.Info("trial expired, restaurant suspended",
			sl.Restaurant(info.RestaurantID),
			slog.String("slug", info.Slug))
		if err := rabbitmq.PublishMessage(s.ch, "notifications", "trial-expired", info); err != nil {
			s.log.Error("failed to publish trial-expired notification",
				sl.Restaurant(info.RestaurantID), sl.Err(err))
		}
	}
	return nil
}
