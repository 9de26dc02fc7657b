package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/academy-manager/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadMembership(ctx context.Context, id int) (*models.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}
func (m *RepoMock) CreateSlot(ctx context.Context, slot models.TrainingSlot) (int, error) {
	args := m.Called(ctx, slot)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListSlotsForMembership(ctx context.Context, membershipID int) ([]*models.TrainingSlot, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrainingSlot), args.Error(1)
}
func (m *RepoMock) DeleteSlot(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) DeleteSlotsForMembership(ctx context.Context, membershipID int) (int64, error) {
	args := m.Called(ctx, membershipID)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestScheduleService_Create(t *testing.T) {
	membership := &models.Membership{ID: 7, IsActive: true}
	req := models.DummySlot{Weekday: "monday", StartTime: "17:00", EndTime: "18:00"}

	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadMembership", mock.Anything, 7).Return(membership, nil).Once()
		repo.On("CreateSlot", mock.Anything, mock.MatchedBy(func(s models.TrainingSlot) bool {
			return s.MembershipID == 7 && s.Weekday == "monday" && s.IsActive
		})).Return(11, nil).Once()
		svc := NewScheduleService(repo, newNoopLogger())

		slot, err := svc.Create(context.Background(), 7, req)
		require.NoError(t, err)
		assert.Equal(t, 11, slot.ID)
		assert.Equal(t, "17:00", slot.StartTime)
		repo.AssertExpectations(t)
	})

	t.Run("unknown membership", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadMembership", mock.Anything, 7).Return(nil, sql.ErrNoRows).Once()
		svc := NewScheduleService(repo, newNoopLogger())

		_, err := svc.Create(context.Background(), 7, req)
		require.ErrorIs(t, err, ErrMembershipNotFound)
	})
}

func TestScheduleService_ListForMembership(t *testing.T) {
	membership := &models.Membership{ID: 7, IsActive: true}
	slots := []*models.TrainingSlot{{ID: 1}, {ID: 2}}

	repo := new(RepoMock)
	repo.On("ReadMembership", mock.Anything, 7).Return(membership, nil).Once()
	repo.On("ListSlotsForMembership", mock.Anything, 7).Return(slots, nil).Once()
	svc := NewScheduleService(repo, newNoopLogger())

	got, err := svc.ListForMembership(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestScheduleService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("DeleteSlot", mock.Anything, 11).Return(int64(1), nil).Once()
		svc := NewScheduleService(repo, newNoopLogger())

		require.NoError(t, svc.Delete(context.Background(), 11))
	})

	t.Run("unknown slot", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("DeleteSlot", mock.Anything, 11).Return(int64(0), nil).Once()
		svc := NewScheduleService(repo, newNoopLogger())

		require.ErrorIs(t, svc.Delete(context.Background(), 11), ErrSlotNotFound)
	})
}

func TestScheduleService_DeleteAllForMembership(t *testing.T) {
	repo := new(RepoMock)
	repo.On("DeleteSlotsForMembership", mock.Anything, 7).Return(int64(3), nil).Once()
	svc := NewScheduleService(repo, newNoopLogger())

	count, err := svc.DeleteAllForMembership(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
