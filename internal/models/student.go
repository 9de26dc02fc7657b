package models

import "time"

// Уровни подготовки ученика.
const (
	LevelBasic        = "basico"
	LevelIntermediate = "intermedio"
	LevelAdvanced     = "avanzado"
)

// Student представляет карточку ученика академии: имя, уровень подготовки,
// опциональное фото профиля (base64) и опциональная геолокация.
// Карточка не связана с учётной записью: реестр учеников ведётся отдельно
// от каталога пользователей.
type Student struct {
	ID        int       `json:"id"`                  // Уникальный идентификатор ученика
	Name      string    `json:"name"`                // Имя ученика
	Level     string    `json:"level"`               // Уровень: basico, intermedio или avanzado
	Photo     string    `json:"photo,omitempty"`     // Фото профиля в base64 (опционально)
	Latitude  *float64  `json:"latitude,omitempty"`  // Широта (опционально)
	Longitude *float64  `json:"longitude,omitempty"` // Долгота (опционально)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyStudent используется для приёма данных ученика из JSON-запроса.
// Обновление перезаписывает карточку целиком.
type DummyStudent struct {
	Name      string   `json:"name" validate:"required"`                                   // Имя ученика
	Level     string   `json:"level" validate:"required,oneof=basico intermedio avanzado"` // Уровень подготовки
	Photo     string   `json:"photo" validate:"omitempty"`                                 // Фото профиля в base64 (опционально)
	Latitude  *float64 `json:"latitude" validate:"omitempty"`                              // Широта (опционально)
	Longitude *float64 `json:"longitude" validate:"omitempty"`                             // Долгота (опционально)
}
