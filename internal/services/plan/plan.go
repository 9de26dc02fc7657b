// Package services содержит бизнес-логику каталога тарифных планов,
// включая кеширование читаемых данных.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/academy-manager/internal/models"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

// Ошибки каталога планов.
var (
	// ErrPlanNotFound — план с указанным ID не существует.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrDuplicateName — план с таким именем уже есть.
	ErrDuplicateName = errors.New("plan name already exists")
	// ErrPlanInUse — на план ссылаются членства, удалить нельзя.
	ErrPlanInUse = errors.New("plan is referenced by memberships")
)

const activePlansCacheKey = "plans:active"

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	// CreatePlan добавляет новый план и возвращает его ID.
	CreatePlan(ctx context.Context, plan models.Plan) (int, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// ListPlans возвращает все планы.
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	// ListActivePlans возвращает планы, доступные для оформления.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
	// UpdatePlan перезаписывает поля плана по ID.
	UpdatePlan(ctx context.Context, plan models.Plan, id int) (int64, error)
	// DeletePlan удаляет план по ID.
	DeletePlan(ctx context.Context, id int) (int64, error)
	// TogglePlanActive переключает флаг активности плана.
	TogglePlanActive(ctx context.Context, id int) (int64, error)
	// PlanNameExists сообщает, занято ли имя другим планом.
	PlanNameExists(ctx context.Context, name string, excludeID int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PlanService реализует бизнес-логику каталога планов, включая кеширование.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create добавляет новый план в каталог. Имя плана должно быть уникальным.
func (s *PlanService) Create(ctx context.Context, req models.DummyPlan) (*models.Plan, error) {
	exists, err := s.repo.PlanNameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	plan := models.Plan{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		IsActive:       isActive,
	}

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	plan.ID = id

	s.log.Info("created new plan", slog.Int("id", id), slog.String("name", plan.Name))
	s.invalidateCatalog(id)

	return &plan, nil
}

// Read возвращает план по ID, используя кеш или репозиторий.
func (s *PlanService) Read(ctx context.Context, id int) (*models.Plan, error) {
	var result *models.Plan
	cacheKey := fmt.Sprintf("plan:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListAll возвращает все планы каталога независимо от статуса.
func (s *PlanService) ListAll(ctx context.Context) ([]*models.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// ListActive возвращает планы, доступные подписчикам, используя кеш.
func (s *PlanService) ListActive(ctx context.Context) ([]*models.Plan, error) {
	var result []*models.Plan
	found, err := s.cache.Get(activePlansCacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(activePlansCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache active plans", slog.Any("err", err))
	}
	return result, nil
}

// Update перезаписывает поля плана. Переименование в собственное текущее имя
// не считается дубликатом.
func (s *PlanService) Update(ctx context.Context, id int, req models.DummyPlan) (*models.Plan, error) {
	existing, err := s.repo.ReadPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	exists, err := s.repo.PlanNameExists(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	plan := models.Plan{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		IsActive:       isActive,
	}
	if _, err = s.repo.UpdatePlan(ctx, plan, id); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	plan.ID = id

	s.log.Info("updated plan", slog.Int("id", id))
	s.invalidateCatalog(id)

	return &plan, nil
}

// Delete физически удаляет план. Удаление плана, на который ссылаются
// членства (в том числе исторические), отклоняется.
func (s *PlanService) Delete(ctx context.Context, id int) error {
	count, err := s.repo.DeletePlan(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrPlanInUse
		}
		return err
	}
	if count == 0 {
		return ErrPlanNotFound
	}

	s.log.Info("deleted plan", slog.Int("id", id))
	s.invalidateCatalog(id)
	return nil
}

// ToggleActive переключает видимость плана для подписчиков.
func (s *PlanService) ToggleActive(ctx context.Context, id int) (*models.Plan, error) {
	count, err := s.repo.TogglePlanActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPlanNotFound
	}
	s.invalidateCatalog(id)
	return s.repo.ReadPlan(ctx, id)
}

// invalidateCatalog сбрасывает кеш плана и списка активных планов.
func (s *PlanService) invalidateCatalog(id int) {
	cacheKey := fmt.Sprintf("plan:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if err := s.cache.Invalidate(activePlansCacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", activePlansCacheKey), slog.Any("err", err))
	}
}
