package models

import (
	"math"
	"time"
)

// Plan описывает тариф подписки из каталога планов.
type Plan struct {
	ID           string   `json:"id"`            // Идентификатор плана
	Name         string   `json:"name"`          // Название плана
	Price        float64  `json:"price"`         // Цена
	Rank         int      `json:"rank"`          // Порядковый номер (orden); план с orden=1 назначается при регистрации
	Description  string   `json:"description"`   // Описание
	ValidityDays int      `json:"validity_days"` // Срок действия в днях
	Features     []string `json:"features"`      // Список характеристик плана
}

// PlanAssignment снимок плана, встроенный в профиль при регистрации.
// После встраивания с определением плана не синхронизируется.
type PlanAssignment struct {
	PlanName     string    `json:"plan_name"`
	PlanID       string    `json:"plan_id"`
	ValidityDays int       `json:"validity_days"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// RemainingDays возвращает количество целых дней до истечения назначенного
// плана на момент now. Отрицательный остаток обрезается до нуля.
func (a *PlanAssignment) RemainingDays(now time.Time) int {
	expiry := a.AssignedAt.AddDate(0, 0, a.ValidityDays)
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
