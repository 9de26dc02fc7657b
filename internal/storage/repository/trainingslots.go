package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// CreateSlot вставляет новый тренировочный слот и возвращает его ID.
func (s *Storage) CreateSlot(ctx context.Context, slot models.TrainingSlot) (int, error) {
	const op = "storage.CreateSlot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO training_slots (membership_id, weekday, start_time, end_time, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		slot.MembershipID, slot.Weekday, slot.StartTime, slot.EndTime, slot.IsActive).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// ListSlotsForMembership возвращает активные слоты членства.
func (s *Storage) ListSlotsForMembership(ctx context.Context, membershipID int) ([]*models.TrainingSlot, error) {
	const op = "storage.ListSlotsForMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, membership_id, weekday, start_time, end_time, is_active,
			      created_at, updated_at
			  FROM training_slots
			  WHERE membership_id = $1 AND is_active
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.TrainingSlot
	for rows.Next() {
		var slot models.TrainingSlot
		if err = rows.Scan(&slot.ID, &slot.MembershipID, &slot.Weekday, &slot.StartTime,
			&slot.EndTime, &slot.IsActive, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &slot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteSlot физически удаляет слот по ID и возвращает количество
// удалённых строк.
func (s *Storage) DeleteSlot(ctx context.Context, id int) (int64, error) {
	const op = "storage.DeleteSlot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM training_slots WHERE id = $1`
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

// DeleteSlotsForMembership массово удаляет все слоты членства.
// Вызывается только при полном удалении членства, не при отмене.
func (s *Storage) DeleteSlotsForMembership(ctx context.Context, membershipID int) (int64, error) {
	const op = "storage.DeleteSlotsForMembership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM training_slots WHERE membership_id = $1`
	result, err := s.DB.ExecContext(ctx, query, membershipID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
