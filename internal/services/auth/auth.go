// Package services содержит логику регистрации, входа и проверки JWT.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/academy-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/academy-manager/internal/lib/password"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Ошибки аутентификации.
var (
	// ErrInvalidCredentials — почта не найдена или пароль не подходит.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserDisabled — учётная запись отключена администратором.
	ErrUserDisabled = errors.New("user is disabled")
)

// UserDirectory описывает контракт справочника пользователей,
// нужный для регистрации и входа.
type UserDirectory interface {
	// Create сохраняет нового пользователя.
	Create(ctx context.Context, user models.User) (*models.User, error)
	// FindByEmail возвращает пользователя по почте.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Identity — идентичность вызывающего: пара (uid, роль) плюс почта.
// Ядро принимает её как обычные значения и не зависит от самой
// сущности пользователя.
type Identity struct {
	UserUID string
	Email   string
	Role    string
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserDirectory
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserDirectory, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью user, затем сразу выдаёт токен.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Rut:          req.Rut,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		Enabled:      true,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(created.Email, created.Role, created.UID)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", "", ErrUserDisabled
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает идентичность вызывающего.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserUID: claims.UserUID,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
