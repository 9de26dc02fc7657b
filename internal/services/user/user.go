// Package services содержит бизнес-логику справочника пользователей:
// учётные записи, роли и флаг доступа.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/academy-manager/internal/models"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

// Ошибки справочника пользователей.
var (
	// ErrUserNotFound — пользователь с указанным UID не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail — почта занята другим пользователем.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateRut — национальный идентификатор занят другим пользователем.
	ErrDuplicateRut = errors.New("rut already registered")
)

// UserRepository определяет методы хранилища для работы с пользователями.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser перезаписывает редактируемые поля пользователя.
	UpdateUser(ctx context.Context, user models.User, userUID string) (int64, error)
	// ToggleUserEnabled переключает флаг доступа.
	ToggleUserEnabled(ctx context.Context, userUID string) (int64, error)
	// DeleteUser физически удаляет пользователя.
	DeleteUser(ctx context.Context, userUID string) (int64, error)
	// UserEmailExists сообщает, занята ли почта другим пользователем.
	UserEmailExists(ctx context.Context, email, excludeUID string) (bool, error)
	// UserRutExists сообщает, занят ли rut другим пользователем.
	UserRutExists(ctx context.Context, rut, excludeUID string) (bool, error)
}

// UserService реализует справочник пользователей.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет нового пользователя. Почта и rut уникальны среди всех
// пользователей; роль должна быть из закрытого набора models.
func (s *UserService) Create(ctx context.Context, user models.User) (*models.User, error) {
	if err := s.checkUnique(ctx, user.Email, user.Rut, ""); err != nil {
		return nil, err
	}

	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return nil, translateUnique(err)
	}
	user.UID = uid

	s.log.Info("created new user", slog.String("uid", uid), slog.String("email", user.Email))
	return &user, nil
}

// List возвращает всех пользователей.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Read возвращает пользователя по UID.
func (s *UserService) Read(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail возвращает пользователя по почте.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update перезаписывает редактируемые поля пользователя. Пустые поля
// запроса сохраняют текущие значения.
func (s *UserService) Update(ctx context.Context, userUID string, req models.DummyUserUpdate) (*models.User, error) {
	existing, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated := *existing
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Surname != "" {
		updated.Surname = req.Surname
	}
	if req.Rut != "" {
		updated.Rut = req.Rut
	}
	if req.Email != "" {
		updated.Email = req.Email
	}
	if req.Role != "" {
		updated.Role = req.Role
	}

	if err = s.checkUnique(ctx, updated.Email, updated.Rut, userUID); err != nil {
		return nil, err
	}

	if _, err = s.repo.UpdateUser(ctx, updated, userUID); err != nil {
		return nil, translateUnique(err)
	}

	s.log.Info("updated user", slog.String("uid", userUID))
	return &updated, nil
}

// ToggleEnabled переключает флаг доступа пользователя.
func (s *UserService) ToggleEnabled(ctx context.Context, userUID string) (*models.User, error) {
	count, err := s.repo.ToggleUserEnabled(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}
	return s.repo.GetUser(ctx, userUID)
}

// Delete физически удаляет пользователя; членства и слоты удаляются
// каскадно на уровне схемы.
func (s *UserService) Delete(ctx context.Context, userUID string) error {
	count, err := s.repo.DeleteUser(ctx, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	s.log.Info("deleted user", slog.String("uid", userUID))
	return nil
}

// checkUnique проверяет уникальность почты и rut, исключая самого
// редактируемого пользователя.
func (s *UserService) checkUnique(ctx context.Context, email, rut, excludeUID string) error {
	emailTaken, err := s.repo.UserEmailExists(ctx, email, excludeUID)
	if err != nil {
		return err
	}
	if emailTaken {
		return ErrDuplicateEmail
	}
	rutTaken, err := s.repo.UserRutExists(ctx, rut, excludeUID)
	if err != nil {
		return err
	}
	if rutTaken {
		return ErrDuplicateRut
	}
	return nil
}

// translateUnique переводит нарушение уникального индекса в доменную
// ошибку: закрывает гонку между проверкой и вставкой.
func translateUnique(err error) error {
	if errors.Is(err, repository.ErrUniqueViolation) {
		if strings.Contains(err.Error(), "rut") {
			return ErrDuplicateRut
		}
		return ErrDuplicateEmail
	}
	return err
}
