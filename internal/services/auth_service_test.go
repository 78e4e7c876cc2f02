package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foodshare/internal/models"
	"foodshare/internal/repositories"
	"foodshare/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func newDonorProfile() *models.User {
	return &models.User{
		Name: "Dana", Email: "dana@example.org", Phone: "555-0100", Role: models.RoleDonor,
		Address: "1 Main St", City: "Jaipur", State: "Rajasthan",
	}
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	// Test successful registration
	user := newDonorProfile()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, fmt.Errorf("user: %w", repositories.ErrNotFound)).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user, "password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", ctx, user.Email).Return(&models.User{ID: 1}, nil).Once()
	err = authService.RegisterUser(ctx, newDonorProfile(), "password123")
	assert.ErrorIs(t, err, services.ErrDuplicateIdentity)
	assert.Contains(t, err.Error(), "email 'dana@example.org' already registered")
	mockRepo.AssertExpectations(t)

	// Test unique index race: lookup misses, insert collides
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicate)).Once()
	err = authService.RegisterUser(ctx, newDonorProfile(), "password123")
	assert.ErrorIs(t, err, services.ErrDuplicateIdentity)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserRejectsUnknownRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := newDonorProfile()
	user.Role = "admin"
	err := authService.RegisterUser(context.Background(), user, "password123")
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := newDonorProfile()
	user.ID = 42
	user.PasswordHash = string(hashedPassword)

	// Test successful login
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, user.Email, "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "Dana", claims["name"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, "donor", claims["role"])
	assert.Contains(t, claims, "exp")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", ctx, "nobody@example.org").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.LoginUser(ctx, "nobody@example.org", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return s
	}

	// Test valid token
	valid := sign(jwt.MapClaims{
		"user_id": 7, "name": "Ravi", "email": "ravi@example.org", "role": "receiver",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleReceiver, claims.Role)

	// Test garbled token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Test wrong secret
	_, err = authService.ValidateToken(sign(jwt.MapClaims{"user_id": 7}, "other_secret"))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Test expired token
	expired := sign(jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Test token without identity
	_, err = authService.ValidateToken(sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
