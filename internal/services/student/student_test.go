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

func (m *RepoMock) CreateStudent(ctx context.Context, student models.Student) (int, error) {
	args := m.Called(ctx, student)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) ListStudents(ctx context.Context) ([]*models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}
func (m *RepoMock) UpdateStudent(ctx context.Context, student models.Student, id int) (int64, error) {
	args := m.Called(ctx, student, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) DeleteStudent(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStudentService_Create(t *testing.T) {
	lat := -33.45
	lon := -70.66
	req := models.DummyStudent{
		Name:      "Diego",
		Level:     models.LevelIntermediate,
		Latitude:  &lat,
		Longitude: &lon,
	}

	repo := new(RepoMock)
	repo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(s models.Student) bool {
		return s.Name == "Diego" && s.Level == models.LevelIntermediate &&
			s.Latitude != nil && *s.Latitude == lat
	})).Return(5, nil).Once()
	svc := NewStudentService(repo, newNoopLogger())

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, student.ID)
	assert.Equal(t, models.LevelIntermediate, student.Level)
	repo.AssertExpectations(t)
}

func TestStudentService_Read(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadStudent", mock.Anything, 5).
			Return(&models.Student{ID: 5, Name: "Diego", Level: models.LevelBasic}, nil).Once()
		svc := NewStudentService(repo, newNoopLogger())

		student, err := svc.Read(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Diego", student.Name)
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadStudent", mock.Anything, 5).Return(nil, sql.ErrNoRows).Once()
		svc := NewStudentService(repo, newNoopLogger())

		_, err := svc.Read(context.Background(), 5)
		require.ErrorIs(t, err, ErrStudentNotFound)
	})
}

func TestStudentService_List(t *testing.T) {
	students := []*models.Student{{ID: 1}, {ID: 2}, {ID: 3}}

	repo := new(RepoMock)
	repo.On("ListStudents", mock.Anything).Return(students, nil).Once()
	svc := NewStudentService(repo, newNoopLogger())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	repo.AssertExpectations(t)
}

func TestStudentService_Update(t *testing.T) {
	req := models.DummyStudent{Name: "Diego", Level: models.LevelAdvanced, Photo: "aGVsbG8="}

	t.Run("success overwrites whole card", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadStudent", mock.Anything, 5).
			Return(&models.Student{ID: 5, Name: "Diego", Level: models.LevelBasic}, nil).Once()
		repo.On("UpdateStudent", mock.Anything, mock.MatchedBy(func(s models.Student) bool {
			return s.Level == models.LevelAdvanced && s.Photo == "aGVsbG8=" &&
				s.Latitude == nil && s.Longitude == nil
		}), 5).Return(int64(1), nil).Once()
		svc := NewStudentService(repo, newNoopLogger())

		student, err := svc.Update(context.Background(), 5, req)
		require.NoError(t, err)
		assert.Equal(t, models.LevelAdvanced, student.Level)
		repo.AssertExpectations(t)
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ReadStudent", mock.Anything, 5).Return(nil, sql.ErrNoRows).Once()
		svc := NewStudentService(repo, newNoopLogger())

		_, err := svc.Update(context.Background(), 5, req)
		require.ErrorIs(t, err, ErrStudentNotFound)
	})
}

func TestStudentService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("DeleteStudent", mock.Anything, 5).Return(int64(1), nil).Once()
		svc := NewStudentService(repo, newNoopLogger())

		require.NoError(t, svc.Delete(context.Background(), 5))
	})

	t.Run("unknown student", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("DeleteStudent", mock.Anything, 5).Return(int64(0), nil).Once()
		svc := NewStudentService(repo, newNoopLogger())

		require.ErrorIs(t, svc.Delete(context.Background(), 5), ErrStudentNotFound)
	})
}
