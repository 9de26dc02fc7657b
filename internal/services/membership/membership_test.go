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

	"github.com/magabrotheeeer/academy-manager/internal/lib/dates"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	"github.com/magabrotheeeer/academy-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) CreateMembership(ctx context.Context, membership models.Membership) (int, error) {
	args := m.Called(ctx, membership)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadMembership(ctx context.Context, id int) (*models.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) UpdateMembershipPlan(ctx context.Context, id, planID int, start, end time.Time) (int64, error) {
	args := m.Called(ctx, id, planID, start, end)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) CancelMembership(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) FindActiveMembership(ctx context.Context, userUID string) (*models.Membership, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) ListMembershipsForUser(ctx context.Context, userUID string) ([]*models.Membership, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}
func (m *RepoMock) ListAllMemberships(ctx context.Context) ([]*models.Membership, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}
func (m *RepoMock) ExistsActiveMembership(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testUserUID = "4e3f6a19-7e55-4b08-9aa1-6f8d4c2a9b01"

func TestMembershipService_Create(t *testing.T) {
	user := &models.User{UID: testUserUID, Email: "maria@academy.cl"}
	plan := &models.Plan{ID: 3, Name: "Premium", DurationMonths: 6, IsActive: true}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(user, nil).Once()
				r.On("ReadPlan", mock.Anything, 3).Return(plan, nil).Once()
				r.On("ExistsActiveMembership", mock.Anything, testUserUID).Return(false, nil).Once()
				r.On("CreateMembership", mock.Anything, mock.MatchedBy(func(m models.Membership) bool {
					return m.UserUID == testUserUID &&
						m.PlanID == 3 &&
						m.IsActive &&
						m.EndDate.Equal(dates.EndDate(m.StartDate, 6))
				})).Return(42, nil).Once()
			},
		},
		{
			name: "unknown user",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "unknown plan",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(user, nil).Once()
				r.On("ReadPlan", mock.Anything, 3).Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: ErrPlanNotFound,
		},
		{
			name: "second active membership is rejected",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(user, nil).Once()
				r.On("ReadPlan", mock.Anything, 3).Return(plan, nil).Once()
				r.On("ExistsActiveMembership", mock.Anything, testUserUID).Return(true, nil).Once()
			},
			wantErr: ErrActiveMembershipExists,
		},
		{
			name: "concurrent insert hits unique index",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(user, nil).Once()
				r.On("ReadPlan", mock.Anything, 3).Return(plan, nil).Once()
				r.On("ExistsActiveMembership", mock.Anything, testUserUID).Return(false, nil).Once()
				r.On("CreateMembership", mock.Anything, mock.Anything).
					Return(0, repository.ErrUniqueViolation).Once()
			},
			wantErr: ErrActiveMembershipExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := NewMembershipService(repo, newNoopLogger())

			membership, err := svc.Create(context.Background(), testUserUID, 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, membership)
			} else {
				require.NoError(t, err)
				require.NotNil(t, membership)
				assert.Equal(t, 42, membership.ID)
				assert.Equal(t, dates.Today(), membership.StartDate)
				assert.Equal(t, dates.EndDate(dates.Today(), 6), membership.EndDate)
				assert.True(t, membership.IsActive)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMembershipService_ChangePlan(t *testing.T) {
	oldStart := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	active := &models.Membership{
		ID:        7,
		UserUID:   testUserUID,
		PlanID:    1,
		StartDate: oldStart,
		EndDate:   oldStart.AddDate(0, 1, 0),
		IsActive:  true,
	}
	newPlan := &models.Plan{ID: 4, Name: "Anual", DurationMonths: 12, IsActive: true}

	t.Run("window is reset from today", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadMembership", mock.Anything, 7).Return(active, nil).Once()
		repo.On("ReadPlan", mock.Anything, 4).Return(newPlan, nil).Once()
		today := dates.Today()
		repo.On("UpdateMembershipPlan", mock.Anything, 7, 4, today, dates.EndDate(today, 12)).
			Return(int64(1), nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		membership, err := svc.ChangePlan(context.Background(), 7, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, membership.PlanID)
		assert.Equal(t, today, membership.StartDate)
		assert.Equal(t, dates.EndDate(today, 12), membership.EndDate)
		repo.AssertExpectations(t)
	})

	t.Run("cancelled membership cannot change plan", func(t *testing.T) {
		cancelled := *active
		cancelled.IsActive = false
		repo := new(RepoMock)
		repo.On("ReadMembership", mock.Anything, 7).Return(&cancelled, nil).Once()
		repo.On("ReadPlan", mock.Anything, 4).Return(newPlan, nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		_, err := svc.ChangePlan(context.Background(), 7, 4)
		require.ErrorIs(t, err, ErrMembershipInactive)
	})

	t.Run("unknown membership", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadMembership", mock.Anything, 7).Return(nil, sql.ErrNoRows).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		_, err := svc.ChangePlan(context.Background(), 7, 4)
		require.ErrorIs(t, err, ErrMembershipNotFound)
	})
}

func TestMembershipService_Cancel(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CancelMembership", mock.Anything, 7).Return(int64(1), nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		require.NoError(t, svc.Cancel(context.Background(), 7))
		repo.AssertExpectations(t)
	})

	t.Run("unknown membership", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CancelMembership", mock.Anything, 7).Return(int64(0), nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		require.ErrorIs(t, svc.Cancel(context.Background(), 7), ErrMembershipNotFound)
	})
}

func TestMembershipService_FindActiveForUser(t *testing.T) {
	t.Run("no active membership yields nil without error", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindActiveMembership", mock.Anything, testUserUID).Return(nil, sql.ErrNoRows).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		membership, err := svc.FindActiveForUser(context.Background(), testUserUID)
		require.NoError(t, err)
		assert.Nil(t, membership)
	})
}

func TestMembershipService_List(t *testing.T) {
	all := []*models.Membership{{ID: 1}, {ID: 2}, {ID: 3}}
	own := []*models.Membership{{ID: 1}}

	t.Run("admin sees all memberships", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListAllMemberships", mock.Anything).Return(all, nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		got, err := svc.List(context.Background(), testUserUID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("user sees only own memberships", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListMembershipsForUser", mock.Anything, testUserUID).Return(own, nil).Once()
		svc := NewMembershipService(repo, newNoopLogger())

		got, err := svc.List(context.Background(), testUserUID, models.RoleUser)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestMembershipService_IsExpired(t *testing.T) {
	svc := NewMembershipService(new(RepoMock), newNoopLogger())

	expired := &models.Membership{EndDate: dates.Today().AddDate(0, 0, -1)}
	current := &models.Membership{EndDate: dates.Today().AddDate(0, 0, 1)}

	assert.True(t, svc.IsExpired(expired))
	assert.False(t, svc.IsExpired(current))
}
