// Package mailer собирает воркер отправки писем: подключение к
// RabbitMQ, SMTP транспорт и потребители очередей учетных записей.
package mailer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/streadway/amqp"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/config"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/smtp"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/rabbitmq"
	mailerservice "github.com/EdisonSantiago93/carbontracker-backend/internal/services/mailer"
)

// App инкапсулирует соединение с брокером и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	mailerService *mailerservice.MailerService
	logger        *slog.Logger
}

// New инициализирует зависимости воркера.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAccountQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	resetURL := strings.TrimRight(cfg.WebBaseURL, "/") + "/restablecer"
	mailerService := mailerservice.NewMailerService(transport, resetURL, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		mailerService: mailerService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и ждет отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "accounts.password_reset", a.mailerService.SendPasswordReset)
	if err != nil {
		a.logger.Error("failed to start accounts.password_reset consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "accounts.lifecycle", a.mailerService.HandleLifecycleEvent)
	if err != nil {
		a.logger.Error("failed to start accounts.lifecycle consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("mailer service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
