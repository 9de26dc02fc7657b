package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

const membershipColumns = `id, user_uid, plan_id, start_date, end_date, is_active,
			      created_at, updated_at`

// CreateMembership вставляет новое членство и возвращает его ID.
// Партичный уникальный индекс не допускает второго активного членства
// у того же пользователя даже при конкурентных запросах.
func (s *Storage) CreateMembership(ctx context.Context, m models.Membership) (int, error) {
	const op = "storage.CreateMembership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO memberships (user_uid, plan_id, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		m.UserUID, m.PlanID, m.StartDate, m.EndDate, m.IsActive).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// ReadMembership возвращает членство по его ID.
func (s *Storage) ReadMembership(ctx context.Context, id int) (*models.Membership, error) {
	const op = "storage.ReadMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + `
			  FROM memberships
			  WHERE id = $1`
	m := &models.Membership{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&m.ID, &m.UserUID, &m.PlanID, &m.StartDate, &m.EndDate,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// UpdateMembershipPlan меняет план и окно действия той же строки членства.
// Прежнее окно отдельной историей не сохраняется.
func (s *Storage) UpdateMembershipPlan(ctx context.Context, id, planID int, start, end time.Time) (int64, error) {
	const op = "storage.UpdateMembershipPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET plan_id = $1, start_date = $2, end_date = $3,
			      updated_at = CURRENT_TIMESTAMP
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, planID, start, end, id)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CancelMembership снимает флаг активности членства. Строка остаётся
// в базе как история и не удаляется.
func (s *Storage) CancelMembership(ctx context.Context, id int) (int64, error) {
	const op = "storage.CancelMembership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// FindActiveMembership возвращает единственное активное членство пользователя.
func (s *Storage) FindActiveMembership(ctx context.Context, userUID string) (*models.Membership, error) {
	const op = "storage.FindActiveMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + `
			  FROM memberships
			  WHERE user_uid = $1 AND is_active`
	m := &models.Membership{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&m.ID, &m.UserUID, &m.PlanID, &m.StartDate, &m.EndDate,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMembershipsForUser возвращает все членства пользователя,
// активные и отменённые.
func (s *Storage) ListMembershipsForUser(ctx context.Context, userUID string) ([]*models.Membership, error) {
	const op = "storage.ListMembershipsForUser"
	return s.listMemberships(ctx, op, `SELECT `+membershipColumns+`
			  FROM memberships
			  WHERE user_uid = $1`, userUID)
}

// ListAllMemberships возвращает членства всех пользователей.
func (s *Storage) ListAllMemberships(ctx context.Context) ([]*models.Membership, error) {
	const op = "storage.ListAllMemberships"
	return s.listMemberships(ctx, op, `SELECT `+membershipColumns+`
			  FROM memberships`)
}

func (s *Storage) listMemberships(ctx context.Context, op, query string, args ...any) ([]*models.Membership, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Membership
	for rows.Next() {
		var m models.Membership
		if err = rows.Scan(&m.ID, &m.UserUID, &m.PlanID, &m.StartDate, &m.EndDate,
			&m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExistsActiveMembership сообщает, есть ли у пользователя активное членство.
func (s *Storage) ExistsActiveMembership(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.ExistsActiveMembership"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(SELECT 1 FROM memberships WHERE user_uid = $1 AND is_active)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
