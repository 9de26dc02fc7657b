package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

const userColumns = `uid, name, surname, rut, email, password_hash, role, enabled,
			      created_at, updated_at`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, surname, rut, email, password_hash, role, enabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Rut, user.Email, user.PasswordHash,
		user.Role, user.Enabled).Scan(&newUID); err != nil {
		return "", translateError(op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Name, &u.Surname, &u.Rut, &u.Email,
		&u.PasswordHash, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Name, &u.Surname, &u.Rut, &u.Email,
		&u.PasswordHash, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.UID, &u.Name, &u.Surname, &u.Rut, &u.Email,
			&u.PasswordHash, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser перезаписывает редактируемые поля пользователя и возвращает
// количество обновлённых строк.
func (s *Storage) UpdateUser(ctx context.Context, user models.User, userUID string) (int64, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, surname = $2, rut = $3, email = $4, role = $5,
			      updated_at = CURRENT_TIMESTAMP
			  WHERE uid = $6`
	result, err := s.DB.ExecContext(ctx, query,
		user.Name, user.Surname, user.Rut, user.Email, user.Role, userUID)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ToggleUserEnabled переключает флаг enabled пользователя.
func (s *Storage) ToggleUserEnabled(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.ToggleUserEnabled"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET enabled = NOT enabled, updated_at = CURRENT_TIMESTAMP
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteUser физически удаляет пользователя. Членства и слоты удаляются
// каскадно по внешним ключам.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// UserEmailExists сообщает, занята ли почта другим пользователем.
func (s *Storage) UserEmailExists(ctx context.Context, email, excludeUID string) (bool, error) {
	const op = "storage.UserEmailExists"
	return s.userFieldExists(ctx, op,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND uid::TEXT <> $2)`, email, excludeUID)
}

// UserRutExists сообщает, занят ли национальный идентификатор другим пользователем.
func (s *Storage) UserRutExists(ctx context.Context, rut, excludeUID string) (bool, error) {
	const op = "storage.UserRutExists"
	return s.userFieldExists(ctx, op,
		`SELECT EXISTS(SELECT 1 FROM users WHERE rut = $1 AND uid::TEXT <> $2)`, rut, excludeUID)
}

func (s *Storage) userFieldExists(ctx context.Context, op, query, value, excludeUID string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, value, excludeUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
