package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/academy-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/academy-manager/internal/lib/password"
	"github.com/magabrotheeeer/academy-manager/internal/models"
)

type UserDirectoryMock struct {
	mock.Mock
}

func (m *UserDirectoryMock) Create(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserDirectoryMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	users := new(UserDirectoryMock)
	svc := NewAuthService(users, newTestMaker())

	users.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleUser && u.Enabled && u.PasswordHash != "secret123"
	})).Return(&models.User{
		UID:   "uid-1",
		Email: "maria@academy.cl",
		Role:  models.RoleUser,
	}, nil)

	token, err := svc.Register(context.Background(), models.DummyRegister{
		Name:     "Maria",
		Surname:  "Rojas",
		Rut:      "12345678-5",
		Email:    "maria@academy.cl",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", identity.UserUID)
	assert.Equal(t, models.RoleUser, identity.Role)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     *models.User
		findErr  error
		password string
		wantErr  error
	}{
		{
			name: "success",
			user: &models.User{
				UID:          "uid-1",
				Email:        "maria@academy.cl",
				PasswordHash: hash,
				Role:         models.RoleAdmin,
				Enabled:      true,
			},
			password: "secret123",
		},
		{
			name:     "unknown email",
			findErr:  assert.AnError,
			password: "secret123",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			user: &models.User{
				UID:          "uid-1",
				Email:        "maria@academy.cl",
				PasswordHash: hash,
				Enabled:      true,
			},
			password: "not-the-password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "disabled account",
			user: &models.User{
				UID:          "uid-1",
				Email:        "maria@academy.cl",
				PasswordHash: hash,
				Enabled:      false,
			},
			password: "secret123",
			wantErr:  ErrUserDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserDirectoryMock)
			if tt.findErr != nil {
				users.On("FindByEmail", mock.Anything, "maria@academy.cl").Return(nil, tt.findErr)
			} else {
				users.On("FindByEmail", mock.Anything, "maria@academy.cl").Return(tt.user, nil)
			}
			svc := NewAuthService(users, newTestMaker())

			token, role, err := svc.Login(context.Background(), "maria@academy.cl", tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, tt.user.Role, role)
		})
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	svc := NewAuthService(new(UserDirectoryMock), newTestMaker())

	identity, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Nil(t, identity)
}
