package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// CreatePlan вставляет новый план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (int, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO plans (name, description, price, duration_months, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.Price, plan.DurationMonths, plan.IsActive).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// ReadPlan возвращает план по его ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, duration_months, is_active,
			      created_at, updated_at
			  FROM plans
			  WHERE id = $1`
	p := &models.Plan{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description,
		&p.Price, &p.DurationMonths, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPlans возвращает все планы независимо от статуса.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	return s.listPlans(ctx, op, `SELECT id, name, description, price, duration_months,
			      is_active, created_at, updated_at
			  FROM plans
			  ORDER BY id`)
}

// ListActivePlans возвращает планы, доступные для оформления.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	return s.listPlans(ctx, op, `SELECT id, name, description, price, duration_months,
			      is_active, created_at, updated_at
			  FROM plans
			  WHERE is_active
			  ORDER BY id`)
}

func (s *Storage) listPlans(ctx context.Context, op, query string) ([]*models.Plan, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Plan
	for rows.Next() {
		var p models.Plan
		if err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
			&p.DurationMonths, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePlan перезаписывает поля плана по ID и возвращает количество
// обновлённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, plan models.Plan, id int) (int64, error) {
	const op = "storage.UpdatePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE plans
			  SET name = $1, description = $2, price = $3, duration_months = $4,
			      is_active = $5, updated_at = CURRENT_TIMESTAMP
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.Description, plan.Price, plan.DurationMonths, plan.IsActive, id)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeletePlan удаляет план по ID и возвращает количество удалённых строк.
// План, на который ссылаются членства, удалить нельзя: срабатывает
// ограничение внешнего ключа.
func (s *Storage) DeletePlan(ctx context.Context, id int) (int64, error) {
	const op = "storage.DeletePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM plans WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// TogglePlanActive переключает флаг активности плана.
func (s *Storage) TogglePlanActive(ctx context.Context, id int) (int64, error) {
	const op = "storage.TogglePlanActive"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE plans
			  SET is_active = NOT is_active, updated_at = CURRENT_TIMESTAMP
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

// PlanNameExists сообщает, занято ли имя плана другим планом (excludeID
// исключает сам редактируемый план, 0 — без исключений).
func (s *Storage) PlanNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	const op = "storage.PlanNameExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(SELECT 1 FROM plans WHERE name = $1 AND id <> $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountPlans возвращает общее количество планов. Используется при
// первоначальном наполнении каталога.
func (s *Storage) CountPlans(ctx context.Context) (int, error) {
	const op = "storage.CountPlans"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
