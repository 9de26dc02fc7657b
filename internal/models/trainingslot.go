package models

import "time"

// TrainingSlot представляет еженедельный тренировочный слот, привязанный
// к членству. Время хранится строками ("17:00") и не интерпретируется:
// корректность формата и отсутствие пересечений — ответственность вызывающего.
type TrainingSlot struct {
	ID           int       `json:"id"`            // Уникальный идентификатор слота
	MembershipID int       `json:"membership_id"` // Членство, к которому привязан слот
	Weekday      string    `json:"weekday"`       // День недели
	StartTime    string    `json:"start_time"`    // Время начала
	EndTime      string    `json:"end_time"`      // Время окончания
	IsActive     bool      `json:"is_active"`     // Флаг активности слота
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummySlot используется для приёма данных нового слота из JSON-запроса.
type DummySlot struct {
	Weekday   string `json:"weekday" validate:"required"`    // День недели
	StartTime string `json:"start_time" validate:"required"` // Время начала
	EndTime   string `json:"end_time" validate:"required"`   // Время окончания
}
