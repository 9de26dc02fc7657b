package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

const studentColumns = `id, name, level, photo, latitude, longitude,
			      created_at, updated_at`

// CreateStudent вставляет новую карточку ученика и возвращает её ID.
func (s *Storage) CreateStudent(ctx context.Context, student models.Student) (int, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO students (name, level, photo, latitude, longitude)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		student.Name, student.Level, student.Photo,
		student.Latitude, student.Longitude).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// ReadStudent возвращает карточку ученика по её ID.
func (s *Storage) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	const op = "storage.ReadStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + `
			  FROM students
			  WHERE id = $1`
	student := &models.Student{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&student.ID, &student.Name, &student.Level, &student.Photo,
		&student.Latitude, &student.Longitude,
		&student.CreatedAt, &student.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return student, nil
}

// ListStudents возвращает все карточки учеников.
func (s *Storage) ListStudents(ctx context.Context) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + `
			  FROM students
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Student
	for rows.Next() {
		var student models.Student
		if err = rows.Scan(&student.ID, &student.Name, &student.Level, &student.Photo,
			&student.Latitude, &student.Longitude,
			&student.CreatedAt, &student.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &student)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStudent перезаписывает карточку ученика целиком и возвращает
// количество обновлённых строк.
func (s *Storage) UpdateStudent(ctx context.Context, student models.Student, id int) (int64, error) {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE students
			  SET name = $1, level = $2, photo = $3, latitude = $4, longitude = $5,
			      updated_at = CURRENT_TIMESTAMP
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		student.Name, student.Level, student.Photo,
		student.Latitude, student.Longitude, id)
	if err != nil {
		return 0, translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteStudent физически удаляет карточку ученика по ID и возвращает
// количество удалённых строк.
func (s *Storage) DeleteStudent(ctx context.Context, id int) (int64, error) {
	const op = "storage.DeleteStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM students WHERE id = $1`
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
