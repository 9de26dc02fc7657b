// Package services содержит бизнес-логику реестра учеников академии:
// карточки с именем, уровнем подготовки, фото профиля и геолокацией.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// ErrStudentNotFound — ученик с указанным ID не существует.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepository определяет методы хранилища для работы с учениками.
type StudentRepository interface {
	// CreateStudent добавляет новую карточку и возвращает её ID.
	CreateStudent(ctx context.Context, student models.Student) (int, error)
	// ReadStudent возвращает карточку по ID.
	ReadStudent(ctx context.Context, id int) (*models.Student, error)
	// ListStudents возвращает все карточки.
	ListStudents(ctx context.Context) ([]*models.Student, error)
	// UpdateStudent перезаписывает карточку целиком.
	UpdateStudent(ctx context.Context, student models.Student, id int) (int64, error)
	// DeleteStudent удаляет карточку по ID.
	DeleteStudent(ctx context.Context, id int) (int64, error)
}

// StudentService реализует управление реестром учеников. Карточка
// обновляется целиком: частичных обновлений нет.
type StudentService struct {
	repo StudentRepository
	log  *slog.Logger
}

// NewStudentService создает новый экземпляр StudentService.
func NewStudentService(repo StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет новую карточку ученика.
func (s *StudentService) Create(ctx context.Context, req models.DummyStudent) (*models.Student, error) {
	student := models.Student{
		Name:      req.Name,
		Level:     req.Level,
		Photo:     req.Photo,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	id, err := s.repo.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	student.ID = id

	s.log.Info("created student",
		slog.Int("id", id),
		slog.String("level", student.Level))

	return &student, nil
}

// Read возвращает карточку ученика по ID.
func (s *StudentService) Read(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.repo.ReadStudent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// List возвращает все карточки учеников.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.repo.ListStudents(ctx)
}

// Update перезаписывает карточку ученика целиком.
func (s *StudentService) Update(ctx context.Context, id int, req models.DummyStudent) (*models.Student, error) {
	if _, err := s.repo.ReadStudent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	student := models.Student{
		Name:      req.Name,
		Level:     req.Level,
		Photo:     req.Photo,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	count, err := s.repo.UpdateStudent(ctx, student, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrStudentNotFound
	}
	student.ID = id

	s.log.Info("updated student", slog.Int("id", id))
	return &student, nil
}

// Delete физически удаляет карточку ученика.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	count, err := s.repo.DeleteStudent(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrStudentNotFound
	}

	s.log.Info("deleted student", slog.Int("id", id))
	return nil
}
