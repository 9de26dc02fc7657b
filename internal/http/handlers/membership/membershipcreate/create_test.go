package membershipcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/academy-manager/internal/models"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
)

// MockService реализует интерфейс membershipcreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, planID int) (*models.Membership, error) {
	args := m.Called(ctx, userUID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

const callerUID = "4e3f6a19-7e55-4b08-9aa1-6f8d4c2a9b01"
const otherUID = "9b7c1d55-0a36-4f7e-8c00-2d1e5a7b9c44"

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		role           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное оформление членства",
			requestBody: models.DummyMembership{PlanID: 3},
			role:        models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, callerUID, 3).
					Return(&models.Membership{ID: 42, UserUID: callerUID, PlanID: 3, IsActive: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":42`,
		},
		{
			name:        "админ оформляет членство другому пользователю",
			requestBody: models.DummyMembership{UserUID: otherUID, PlanID: 3},
			role:        models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, otherUID, 3).
					Return(&models.Membership{ID: 43, UserUID: otherUID, PlanID: 3, IsActive: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":43`,
		},
		{
			name:           "пользователь не может оформить членство другому",
			requestBody:    models.DummyMembership{UserUID: otherUID, PlanID: 3},
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `only admin can create membership for another user`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			requestBody:    models.DummyMembership{},
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field PlanID is a required field`,
		},
		{
			name:        "второе активное членство",
			requestBody: models.DummyMembership{PlanID: 3},
			role:        models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, callerUID, 3).
					Return(nil, membershipservice.ErrActiveMembershipExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `active membership already exists`,
		},
		{
			name:        "план не найден",
			requestBody: models.DummyMembership{PlanID: 99},
			role:        models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, callerUID, 99).
					Return(nil, membershipservice.ErrPlanNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `plan not found`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.DummyMembership{PlanID: 3},
			role:        models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, callerUID, 3).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create membership`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/memberships", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, callerUID)
			ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
