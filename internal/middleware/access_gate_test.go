package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func gateContext(claims *auth.Claims) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}
	return c
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAccessGate_RequireUser(t *testing.T) {
	claims := &auth.Claims{UserID: 1}

	tests := []struct {
		name       string
		claims     *auth.Claims
		user       *model.User
		repoErr    error
		wantStatus int
	}{
		{
			name:       "no claims",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "user row deleted since token issue",
			claims:     claims,
			repoErr:    gorm.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "lookup failure",
			claims:     claims,
			repoErr:    assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "live user passes",
			claims: claims,
			user:   &model.User{ID: 1, Role: model.RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			if tt.claims != nil {
				if tt.repoErr != nil {
					userRepo.On("FindByID", mock.Anything, tt.claims.UserID).Return(nil, tt.repoErr)
				} else {
					userRepo.On("FindByID", mock.Anything, tt.claims.UserID).Return(tt.user, nil)
				}
			}
			gate := NewAccessGate(userRepo)
			c := gateContext(tt.claims)

			err := gate.RequireUser(okHandler)(c)

			if tt.wantStatus != 0 {
				httpErr, ok := err.(*echo.HTTPError)
				if assert.True(t, ok, "expected *echo.HTTPError, got %v", err) {
					assert.Equal(t, tt.wantStatus, httpErr.Code)
				}
			} else {
				assert.NoError(t, err)
				user, ok := CurrentUser(c)
				assert.True(t, ok)
				assert.Equal(t, uint(1), user.ID)
			}
		})
	}
}

func TestAccessGate_RequireAdmin(t *testing.T) {
	claims := &auth.Claims{UserID: 1}

	t.Run("admin role in database passes", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin}, nil)
		gate := NewAccessGate(userRepo)
		c := gateContext(claims)

		assert.NoError(t, gate.RequireAdmin(okHandler)(c))
	})

	t.Run("role revoked in database is forbidden even with an admin token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Role: model.RoleUser}, nil)
		gate := NewAccessGate(userRepo)
		// Token still claims admin; the database row decides.
		c := gateContext(&auth.Claims{UserID: 1, Role: model.RoleAdmin})

		err := gate.RequireAdmin(okHandler)(c)

		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusForbidden, httpErr.Code)
		}
	})

	t.Run("no claims", func(t *testing.T) {
		gate := NewAccessGate(new(MockUserRepository))
		c := gateContext(nil)

		err := gate.RequireAdmin(okHandler)(c)

		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
	})
}
