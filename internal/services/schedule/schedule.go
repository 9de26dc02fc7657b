// Package services содержит бизнес-логику расписания тренировок:
// привязку и удаление еженедельных слотов членства.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

// Ошибки расписания тренировок.
var (
	// ErrMembershipNotFound — членство с указанным ID не существует.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrSlotNotFound — слот с указанным ID не существует.
	ErrSlotNotFound = errors.New("training slot not found")
)

// ScheduleRepository определяет методы хранилища для работы со слотами.
type ScheduleRepository interface {
	// ReadMembership возвращает членство по ID.
	ReadMembership(ctx context.Context, id int) (*models.Membership, error)
	// CreateSlot добавляет новый слот и возвращает его ID.
	CreateSlot(ctx context.Context, slot models.TrainingSlot) (int, error)
	// ListSlotsForMembership возвращает активные слоты членства.
	ListSlotsForMembership(ctx context.Context, membershipID int) ([]*models.TrainingSlot, error)
	// DeleteSlot удаляет слот по ID.
	DeleteSlot(ctx context.Context, id int) (int64, error)
	// DeleteSlotsForMembership массово удаляет слоты членства.
	DeleteSlotsForMembership(ctx context.Context, membershipID int) (int64, error)
}

// ScheduleService реализует управление расписанием тренировок.
// Время слота хранится строками и не интерпретируется: проверка формата
// и пересечений слотов не выполняется.
type ScheduleService struct {
	repo ScheduleRepository
	log  *slog.Logger
}

// NewScheduleService создает новый экземпляр ScheduleService.
func NewScheduleService(repo ScheduleRepository, log *slog.Logger) *ScheduleService {
	return &ScheduleService{
		repo: repo,
		log:  log,
	}
}

// Create привязывает новый слот к существующему членству.
func (s *ScheduleService) Create(ctx context.Context, membershipID int, req models.DummySlot) (*models.TrainingSlot, error) {
	if _, err := s.repo.ReadMembership(ctx, membershipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	slot := models.TrainingSlot{
		MembershipID: membershipID,
		Weekday:      req.Weekday,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsActive:     true,
	}
	id, err := s.repo.CreateSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	slot.ID = id

	s.log.Info("created training slot",
		slog.Int("id", id),
		slog.Int("membership_id", membershipID))

	return &slot, nil
}

// ListForMembership возвращает активные слоты членства.
func (s *ScheduleService) ListForMembership(ctx context.Context, membershipID int) ([]*models.TrainingSlot, error) {
	if _, err := s.repo.ReadMembership(ctx, membershipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return s.repo.ListSlotsForMembership(ctx, membershipID)
}

// Delete физически удаляет слот.
func (s *ScheduleService) Delete(ctx context.Context, slotID int) error {
	count, err := s.repo.DeleteSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSlotNotFound
	}

	s.log.Info("deleted training slot", slog.Int("id", slotID))
	return nil
}

// DeleteAllForMembership массово удаляет слоты членства. Используется
// при полном удалении членства; отмена членства слоты не трогает.
func (s *ScheduleService) DeleteAllForMembership(ctx context.Context, membershipID int) (int64, error) {
	count, err := s.repo.DeleteSlotsForMembership(ctx, membershipID)
	if err != nil {
		return 0, err
	}

	s.log.Info("deleted training slots for membership",
		slog.Int("membership_id", membershipID),
		slog.Int64("count", count))
	return count, nil
}
