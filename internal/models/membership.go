package models

import "time"

// Membership представляет членство пользователя в зале: подписку на один план
// с рассчитанным окном действия. Окно вычисляется один раз при создании или
// смене плана и позже не пересчитывается. У пользователя может быть не более
// одного членства с IsActive = true.
type Membership struct {
	ID        int       `json:"id"`         // Уникальный идентификатор членства
	UserUID   string    `json:"user_uid"`   // Владелец членства
	PlanID    int       `json:"plan_id"`    // Оформленный план
	StartDate time.Time `json:"start_date"` // Дата начала действия
	EndDate   time.Time `json:"end_date"`   // Дата окончания действия
	IsActive  bool      `json:"is_active"`  // Текущее членство или отменённое (история)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyMembership используется для приёма запроса на оформление членства.
// UserUID указывает владельца и доступен только администратору;
// обычный пользователь оформляет членство на себя.
type DummyMembership struct {
	UserUID string `json:"user_uid" validate:"omitempty,uuid"` // Владелец (опционально, только admin)
	PlanID  int    `json:"plan_id" validate:"required,gt=0"`   // Идентификатор плана
}

// DummyChangePlan используется для приёма запроса на смену плана
// существующего членства.
type DummyChangePlan struct {
	PlanID int `json:"plan_id" validate:"required,gt=0"` // Идентификатор нового плана
}
