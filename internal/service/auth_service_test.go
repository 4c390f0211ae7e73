package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("new user gets the default role and a hashed password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))

		userRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" &&
				u.Role == model.RoleUser &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
		})).Return(nil)

		user, err := svc.Register(context.Background(), "new@example.com", "password123", "New User")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))

		userRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: 1}, nil)

		_, err := svc.Register(context.Background(), "taken@example.com", "password123", "Someone")

		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	user := &model.User{ID: 1, Email: "user@example.com", PasswordHash: string(hash), Role: model.RoleUser}

	t.Run("valid credentials return both tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)

		userRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(1), "user@example.com", auth.RefreshTokenExpiry).Return(nil)

		accessToken, refreshToken, got, err := svc.Login(context.Background(), "user@example.com", "correct-password")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.ID, got.ID)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))

		userRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

		_, _, _, err := svc.Login(context.Background(), "user@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected with the same error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))

		userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("role is re-read from the user row", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "user@example.com")
		assert.NoError(t, err)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(1), "user@example.com", nil)
		// Promoted to admin since the refresh token was issued.
		userRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "user@example.com", Role: model.RoleAdmin}, nil)

		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		svc := NewAuthService(userRepo, jwtService, tokenStore)

		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "user@example.com")
		assert.NoError(t, err)

		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		_, err = svc.RefreshToken(context.Background(), refreshToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))

		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenStore := new(MockTokenStore)
	svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "user@example.com")
	assert.NoError(t, err)

	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	tokenStore.AssertExpectations(t)
}
