// Package mailer обрабатывает сообщения очередей учетных записей и
// отправляет письма через SMTP. Отправка защищена circuit breaker:
// после серии сбоев SMTP сервер временно не дергается.
package mailer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/smtp"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
)

// MailerService превращает сообщения очередей в письма пользователям.
type MailerService struct {
	transport smtp.TransportInterface
	resetURL  string
	breaker   *gobreaker.CircuitBreaker
	log       *slog.Logger
}

// NewMailerService создает новый экземпляр MailerService.
// resetURL — база ссылки восстановления пароля в веб-приложении.
func NewMailerService(transport smtp.TransportInterface, resetURL string, log *slog.Logger) *MailerService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return &MailerService{
		transport: transport,
		resetURL:  resetURL,
		breaker:   breaker,
		log:       log,
	}
}

// SendPasswordReset отправляет письмо восстановления пароля по сообщению
// из очереди accounts.password_reset.
func (s *MailerService) SendPasswordReset(body []byte) error {
	var request models.PasswordResetRequest
	if err := json.Unmarshal(body, &request); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Recuperación de contraseña - Carbon Tracker"
	bodyText := fmt.Sprintf(`Hola,

Recibimos una solicitud para restablecer la contraseña de tu cuenta.

Para continuar, abre el siguiente enlace:
%s/%s

Si no solicitaste este cambio, ignora este mensaje.

Equipo Carbon Tracker`, strings.TrimRight(s.resetURL, "/"), request.ResetToken)

	return s.sendEmail([]string{request.Email}, subject, bodyText)
}

// HandleLifecycleEvent обрабатывает событие жизненного цикла учетной
// записи: приветствие при регистрации, подтверждение при деактивации
// и реактивации. Неизвестные события логируются и подтверждаются.
func (s *MailerService) HandleLifecycleEvent(body []byte) error {
	var event models.AccountEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var subject, bodyText string
	switch event.Kind {
	case models.EventRegistered:
		subject = "Bienvenido a Carbon Tracker"
		bodyText = "Hola,\n\nTu cuenta fue creada con éxito. Ya puedes calcular tu huella de carbono.\n\nEquipo Carbon Tracker"
	case models.EventDeactivated:
		subject = "Tu cuenta fue desactivada"
		bodyText = "Hola,\n\nTu cuenta fue desactivada. Tus datos se conservan y puedes solicitar la reactivación cuando quieras.\n\nEquipo Carbon Tracker"
	case models.EventReactivated:
		subject = "Tu cuenta fue reactivada"
		bodyText = "Hola,\n\nTu cuenta fue reactivada. Ya puedes iniciar sesión nuevamente.\n\nEquipo Carbon Tracker"
	default:
		s.log.Warn("unknown account event", slog.String("kind", event.Kind))
		return nil
	}

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *MailerService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.deliver(to, msg)
	})
	if err != nil {
		s.log.Error("failed to send email", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

func (s *MailerService) deliver(to []string, msg string) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	return client.Quit()
}
