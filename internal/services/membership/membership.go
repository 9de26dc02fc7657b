// Package services содержит бизнес-логику жизненного цикла членства:
// оформление, смену плана и отмену подписки пользователя на план зала.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/academy-manager/internal/lib/dates"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

// Ошибки жизненного цикла членства.
var (
	// ErrUserNotFound — пользователь с указанным UID не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrPlanNotFound — план с указанным ID не существует.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrMembershipNotFound — членство с указанным ID не существует.
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrActiveMembershipExists — у пользователя уже есть активное членство.
	ErrActiveMembershipExists = errors.New("user already has an active membership")
	// ErrMembershipInactive — операция недопустима для отменённого членства.
	ErrMembershipInactive = errors.New("membership is not active")
)

// MembershipRepository определяет методы хранилища, нужные движку членств.
type MembershipRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// CreateMembership добавляет новое членство и возвращает его ID.
	CreateMembership(ctx context.Context, m models.Membership) (int, error)
	// ReadMembership возвращает членство по ID.
	ReadMembership(ctx context.Context, id int) (*models.Membership, error)
	// UpdateMembershipPlan меняет план и окно действия членства.
	UpdateMembershipPlan(ctx context.Context, id, planID int, start, end time.Time) (int64, error)
	// CancelMembership снимает флаг активности членства.
	CancelMembership(ctx context.Context, id int) (int64, error)
	// FindActiveMembership возвращает активное членство пользователя.
	FindActiveMembership(ctx context.Context, userUID string) (*models.Membership, error)
	// ListMembershipsForUser возвращает все членства пользователя.
	ListMembershipsForUser(ctx context.Context, userUID string) ([]*models.Membership, error)
	// ListAllMemberships возвращает членства всех пользователей.
	ListAllMemberships(ctx context.Context) ([]*models.Membership, error)
	// ExistsActiveMembership сообщает, есть ли активное членство.
	ExistsActiveMembership(ctx context.Context, userUID string) (bool, error)
}

// MembershipService реализует движок жизненного цикла членства.
// Сервис не хранит состояния между вызовами: всё состояние в хранилище.
type MembershipService struct {
	repo MembershipRepository
	log  *slog.Logger
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(repo MembershipRepository, log *slog.Logger) *MembershipService {
	return &MembershipService{
		repo: repo,
		log:  log,
	}
}

// Create оформляет членство пользователя на план: начало — сегодня,
// окончание — сегодня плюс длительность плана в месяцах. Второе активное
// членство не допускается; проверка до вставки даёт структурную ошибку,
// а партичный уникальный индекс закрывает гонку конкурентных запросов.
func (s *MembershipService) Create(ctx context.Context, userUID string, planID int) (*models.Membership, error) {
	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	plan, err := s.repo.ReadPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	exists, err := s.repo.ExistsActiveMembership(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrActiveMembershipExists
	}

	start := dates.Today()
	membership := models.Membership{
		UserUID:   userUID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   dates.EndDate(start, plan.DurationMonths),
		IsActive:  true,
	}

	id, err := s.repo.CreateMembership(ctx, membership)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrActiveMembershipExists
		}
		return nil, err
	}
	membership.ID = id

	s.log.Info("created new membership",
		slog.Int("id", id),
		slog.String("user_uid", userUID),
		slog.Int("plan_id", plan.ID))

	return &membership, nil
}

// ChangePlan меняет план активного членства: та же строка получает новый
// план и окно, пересчитанное от сегодняшнего дня. Прежнее окно не
// сохраняется. Отменённое членство менять нельзя.
func (s *MembershipService) ChangePlan(ctx context.Context, membershipID, newPlanID int) (*models.Membership, error) {
	membership, err := s.repo.ReadMembership(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	plan, err := s.repo.ReadPlan(ctx, newPlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !membership.IsActive {
		return nil, ErrMembershipInactive
	}

	start := dates.Today()
	end := dates.EndDate(start, plan.DurationMonths)
	if _, err = s.repo.UpdateMembershipPlan(ctx, membershipID, plan.ID, start, end); err != nil {
		return nil, err
	}

	membership.PlanID = plan.ID
	membership.StartDate = start
	membership.EndDate = end

	s.log.Info("changed membership plan",
		slog.Int("id", membershipID),
		slog.Int("plan_id", plan.ID))

	return membership, nil
}

// Cancel отменяет членство: снимается флаг активности, строка остаётся
// историей. Тренировочные слоты при отмене не трогаются.
func (s *MembershipService) Cancel(ctx context.Context, membershipID int) error {
	count, err := s.repo.CancelMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMembershipNotFound
	}

	s.log.Info("cancelled membership", slog.Int("id", membershipID))
	return nil
}

// Read возвращает членство по ID.
func (s *MembershipService) Read(ctx context.Context, membershipID int) (*models.Membership, error) {
	membership, err := s.repo.ReadMembership(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return membership, nil
}

// FindActiveForUser возвращает единственное активное членство пользователя
// или nil, если активного членства нет.
func (s *MembershipService) FindActiveForUser(ctx context.Context, userUID string) (*models.Membership, error) {
	membership, err := s.repo.FindActiveMembership(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return membership, nil
}

// FindHistoryForUser возвращает все членства пользователя, активные
// и отменённые. Порядок не гарантируется: сортировка — забота отображения.
func (s *MembershipService) FindHistoryForUser(ctx context.Context, userUID string) ([]*models.Membership, error) {
	return s.repo.ListMembershipsForUser(ctx, userUID)
}

// List возвращает членства в зависимости от роли: администратор видит все,
// пользователь — только свои.
func (s *MembershipService) List(ctx context.Context, userUID, role string) ([]*models.Membership, error) {
	if role == models.RoleAdmin {
		return s.repo.ListAllMemberships(ctx)
	}
	return s.repo.ListMembershipsForUser(ctx, userUID)
}

// HasActiveMembership сообщает, есть ли у пользователя активное членство.
func (s *MembershipService) HasActiveMembership(ctx context.Context, userUID string) (bool, error) {
	return s.repo.ExistsActiveMembership(ctx, userUID)
}

// IsExpired сообщает, прошла ли дата окончания членства. Предикат только
// для отображения: активность определяется флагом, а не датой.
func (s *MembershipService) IsExpired(m *models.Membership) bool {
	return dates.IsExpired(m.EndDate, dates.Today())
}
