// Package models содержит доменные структуры: профиль пользователя,
// планы подписки и конфигурационные параметры.
package models

import "time"

// Статусы учетной записи. Значения совпадают с соглашением,
// принятым в документах основного хранилища.
const (
	StatusActive  = "activo"
	StatusDeleted = "eliminado"
)

// User представляет профиль зарегистрированного пользователя.
//
// UID неизменяем после создания. PlanAssigned — снимок плана,
// встроенный при регистрации; после этого с живым планом не сверяется.
type User struct {
	UID          string          `json:"uid"`           // Уникальный идентификатор пользователя
	FirstNames   string          `json:"first_names"`   // Имена
	LastNames    string          `json:"last_names"`    // Фамилии
	NationalID   string          `json:"national_id"`   // Номер удостоверения (cédula)
	Email        string          `json:"email"`         // Электронная почта
	Address      string          `json:"address"`       // Адрес
	Role         string          `json:"role"`          // Роль пользователя, admin или user
	PasswordHash string          `json:"-"`             // Хэш пароля, наружу не отдается
	Status       string          `json:"status"`        // activo или eliminado
	CreatedAt    time.Time       `json:"created_at"`    // Дата создания профиля
	UpdatedAt    *time.Time      `json:"updated_at"`    // Дата последнего обновления профиля
	DeletedAt    *time.Time      `json:"deleted_at"`    // Дата деактивации учетной записи
	PlanAssigned *PlanAssignment `json:"plan_assigned"` // Назначенный план (nil, если плана с orden=1 не было)
}

// ProfileUpdate содержит изменяемые поля профиля. Nil означает
// "поле не трогать": обновление сливается с текущим документом.
type ProfileUpdate struct {
	FirstNames *string
	LastNames  *string
	NationalID *string
	Address    *string
}

// AccountInfo краткая выжимка профиля для проверки статуса без аутентификации.
type AccountInfo struct {
	UID    string `json:"uid"`
	Status string `json:"status"`
}
