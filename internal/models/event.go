package models

import "time"

// Виды событий жизненного цикла учетной записи.
const (
	EventRegistered  = "registered"
	EventDeactivated = "deactivated"
	EventReactivated = "reactivated"
)

// AccountEvent сообщение о смене состояния учетной записи,
// публикуемое в обменник accounts.
type AccountEvent struct {
	Kind       string    `json:"kind"`
	UserUID    string    `json:"user_uid"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PasswordResetRequest запрос на письмо восстановления пароля.
// Письмо отправляет отдельный воркер, потребляющий очередь.
type PasswordResetRequest struct {
	Email       string    `json:"email"`
	ResetToken  string    `json:"reset_token"`
	RequestedAt time.Time `json:"requested_at"`
}
