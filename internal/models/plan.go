// Package models содержит доменные структуры тарифных планов, пользователей,
// членств и тренировочных слотов, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import "time"

// Plan представляет тарифный план зала: название, цена и длительность в месяцах.
// Флаг IsActive управляет видимостью плана для подписчиков и не влияет на
// исторические членства, ссылающиеся на план.
type Plan struct {
	ID             int       `json:"id"`              // Уникальный идентификатор плана
	Name           string    `json:"name"`            // Название плана (уникальное)
	Description    string    `json:"description"`     // Описание плана
	Price          float64   `json:"price"`           // Цена плана
	DurationMonths int       `json:"duration_months"` // Длительность в полных месяцах
	IsActive       bool      `json:"is_active"`       // Доступен ли план для оформления
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DummyPlan используется для приёма данных плана из JSON-запроса
// до их валидации и сохранения.
type DummyPlan struct {
	Name           string  `json:"name" validate:"required"`                // Название плана
	Description    string  `json:"description" validate:"omitempty"`       // Описание (опционально)
	Price          float64 `json:"price" validate:"required,gte=0"`        // Цена (>=0)
	DurationMonths int     `json:"duration_months" validate:"required,gt=0"` // Длительность в месяцах (>0)
	IsActive       *bool   `json:"is_active" validate:"omitempty"`         // Флаг активности (по умолчанию true)
}
