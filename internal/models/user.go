package models

import "time"

// Роли пользователей. Роль хранится строкой, но значения ограничены
// этим закрытым набором: сервисы и middleware сравнивают только с константами.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет зарегистрированного пользователя системы.
// Email и Rut уникальны в пределах всех пользователей.
type User struct {
	UID          string    `json:"uid"`     // Уникальный идентификатор пользователя (uuid)
	Name         string    `json:"name"`    // Имя
	Surname      string    `json:"surname"` // Фамилия
	Rut          string    `json:"rut"`     // Национальный идентификатор (уникальный)
	Email        string    `json:"email"`   // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`       // Хэш пароля, наружу не отдаётся
	Role         string    `json:"role"`    // Роль пользователя, admin или user
	Enabled      bool      `json:"enabled"` // Разрешён ли вход
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Name     string `json:"name" validate:"required"`        // Имя
	Surname  string `json:"surname" validate:"required"`     // Фамилия
	Rut      string `json:"rut" validate:"required"`         // Национальный идентификатор
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Password string `json:"password" validate:"required,min=6"` // Пароль (>=6 символов)
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Password string `json:"password" validate:"required"`    // Пароль
}

// DummyUserUpdate используется для приёма изменяемых полей пользователя
// администратором. Пустые поля не изменяются.
type DummyUserUpdate struct {
	Name    string `json:"name" validate:"omitempty"`
	Surname string `json:"surname" validate:"omitempty"`
	Rut     string `json:"rut" validate:"omitempty"`
	Email   string `json:"email" validate:"omitempty,email"`
	Role    string `json:"role" validate:"omitempty,oneof=admin user"`
}
