package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/academy-manager/internal/models"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePlan(ctx context.Context, plan models.Plan) (int, error) {
	args := m.Called(ctx, plan)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *RepoMock) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}
func (m *RepoMock) UpdatePlan(ctx context.Context, plan models.Plan, id int) (int64, error) {
	args := m.Called(ctx, plan, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) DeletePlan(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) TogglePlanActive(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) PlanNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPlanService_Create(t *testing.T) {
	req := models.DummyPlan{
		Name:           "Premium",
		Price:          115000,
		DurationMonths: 6,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "success with default active flag",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("PlanNameExists", mock.Anything, "Premium", 0).Return(false, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.MatchedBy(func(p models.Plan) bool {
					return p.Name == "Premium" && p.DurationMonths == 6 && p.IsActive
				})).Return(5, nil).Once()
				c.On("Invalidate", "plan:5").Return(nil).Once()
				c.On("Invalidate", "plans:active").Return(nil).Once()
			},
		},
		{
			name: "duplicate name",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("PlanNameExists", mock.Anything, "Premium", 0).Return(true, nil).Once()
			},
			wantErr: ErrDuplicateName,
		},
		{
			name: "duplicate name caught by constraint",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("PlanNameExists", mock.Anything, "Premium", 0).Return(false, nil).Once()
				r.On("CreatePlan", mock.Anything, mock.Anything).
					Return(0, repository.ErrUniqueViolation).Once()
			},
			wantErr: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := NewPlanService(repo, cache, newNoopLogger())

			plan, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, plan)
			} else {
				require.NoError(t, err)
				require.NotNil(t, plan)
				assert.Equal(t, 5, plan.ID)
				assert.True(t, plan.IsActive)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPlanService_Read(t *testing.T) {
	plan := &models.Plan{ID: 5, Name: "Premium", DurationMonths: 6}

	t.Run("cache miss falls through to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "plan:5", mock.Anything).Return(false, nil).Once()
		repo.On("ReadPlan", mock.Anything, 5).Return(plan, nil).Once()
		cache.On("Set", "plan:5", plan, time.Hour).Return(nil).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		got, err := svc.Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, plan, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "plan:9", mock.Anything).Return(false, nil).Once()
		repo.On("ReadPlan", mock.Anything, 9).Return(nil, sql.ErrNoRows).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		_, err := svc.Read(context.Background(), 9)
		require.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestPlanService_Update(t *testing.T) {
	existing := &models.Plan{ID: 5, Name: "Premium", DurationMonths: 6, IsActive: true}

	t.Run("rename to own name is allowed", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("ReadPlan", mock.Anything, 5).Return(existing, nil).Once()
		repo.On("PlanNameExists", mock.Anything, "Premium", 5).Return(false, nil).Once()
		repo.On("UpdatePlan", mock.Anything, mock.Anything, 5).Return(int64(1), nil).Once()
		cache.On("Invalidate", "plan:5").Return(nil).Once()
		cache.On("Invalidate", "plans:active").Return(nil).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		plan, err := svc.Update(context.Background(), 5, models.DummyPlan{
			Name:           "Premium",
			Price:          120000,
			DurationMonths: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, plan.ID)
		assert.True(t, plan.IsActive)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("rename to taken name is rejected", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("ReadPlan", mock.Anything, 5).Return(existing, nil).Once()
		repo.On("PlanNameExists", mock.Anything, "Anual", 5).Return(true, nil).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		_, err := svc.Update(context.Background(), 5, models.DummyPlan{
			Name:           "Anual",
			Price:          120000,
			DurationMonths: 6,
		})
		require.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestPlanService_Delete(t *testing.T) {
	t.Run("plan referenced by memberships", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("DeletePlan", mock.Anything, 5).Return(int64(0), repository.ErrForeignKeyViolation).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		require.ErrorIs(t, svc.Delete(context.Background(), 5), ErrPlanInUse)
	})

	t.Run("unknown plan", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("DeletePlan", mock.Anything, 5).Return(int64(0), nil).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		require.ErrorIs(t, svc.Delete(context.Background(), 5), ErrPlanNotFound)
	})

	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("DeletePlan", mock.Anything, 5).Return(int64(1), nil).Once()
		cache.On("Invalidate", "plan:5").Return(nil).Once()
		cache.On("Invalidate", "plans:active").Return(nil).Once()
		svc := NewPlanService(repo, cache, newNoopLogger())

		require.NoError(t, svc.Delete(context.Background(), 5))
		cache.AssertExpectations(t)
	})
}

func TestPlanService_ToggleActive(t *testing.T) {
	toggled := &models.Plan{ID: 5, Name: "Premium", IsActive: false}

	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("TogglePlanActive", mock.Anything, 5).Return(int64(1), nil).Once()
	cache.On("Invalidate", "plan:5").Return(nil).Once()
	cache.On("Invalidate", "plans:active").Return(nil).Once()
	repo.On("ReadPlan", mock.Anything, 5).Return(toggled, nil).Once()
	svc := NewPlanService(repo, cache, newNoopLogger())

	plan, err := svc.ToggleActive(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, plan.IsActive)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
