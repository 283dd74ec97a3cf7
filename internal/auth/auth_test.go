package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autotrackhq/autotrack/internal/models"
)

func TestNewService(t *testing.T) {
	service, err := NewService()
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestService_HashPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	// Test correct password
	assert.True(t, service.CheckPassword(password, hash))

	// Test incorrect password
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_GenerateToken(t *testing.T) {
	service, _ := NewService()

	user := &models.User{
		ID:    "user-1",
		Email: "test@example.com",
	}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := NewService()

	user := &models.User{
		ID:    "user-1",
		Email: "test@example.com",
	}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Greater(t, claims.Exp, time.Now().Unix())

	// Bearer prefix is stripped before parsing.
	claims, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	service, _ := NewService()

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := NewService()

	token, err := service.ExtractTokenFromHeader("Bearer abc123")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = service.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("abc123")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidatePassword(t *testing.T) {
	service, _ := NewService()

	assert.NoError(t, service.ValidatePassword("longenough"))
	assert.Error(t, service.ValidatePassword("short"))
}

func TestService_ValidateEmail(t *testing.T) {
	service, _ := NewService()

	assert.NoError(t, service.ValidateEmail("test@example.com"))
	assert.Error(t, service.ValidateEmail("not-an-email"))
	assert.Error(t, service.ValidateEmail(""))
}

func TestService_ValidateName(t *testing.T) {
	service, _ := NewService()

	assert.NoError(t, service.ValidateName("Test User"))
	assert.Error(t, service.ValidateName("   "))
	assert.Error(t, service.ValidateName(""))
}
