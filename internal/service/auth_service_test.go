package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/crediq/loan-api/internal/config"
	"github.com/crediq/loan-api/internal/domain"
	apperrors "github.com/crediq/loan-api/pkg/errors"
	"github.com/crediq/loan-api/tests/mocks"
)

func newTestAuthService(users *mocks.MockUserRepository) *AuthService {
	cfg := &config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTL:      "1h",
		AdminUsername: "admin",
		AdminPassword: "admin-secret",
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewAuthService(users, cfg, log)
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	users := &mocks.MockUserRepository{}
	service := newTestAuthService(users)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &domain.User{Username: "jane", PasswordHash: string(hashed), Role: domain.RoleCustomer}
	users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)

	token, err := service.Login(context.Background(), "jane", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	identity, err := service.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "jane", identity.Username)
	assert.Equal(t, domain.RoleCustomer, identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mocks.MockUserRepository{}
	service := newTestAuthService(users)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &domain.User{Username: "jane", PasswordHash: string(hashed)}
	users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)

	_, err := service.Login(context.Background(), "jane", "wrong")

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, apperrors.CodeOf(err))
}

func TestLogin_UnknownUser(t *testing.T) {
	users := &mocks.MockUserRepository{}
	service := newTestAuthService(users)

	users.On("GetByUsername", mock.Anything, "nobody").Return(nil, sql.ErrNoRows)

	_, err := service.Login(context.Background(), "nobody", "whatever")

	// Unknown user and wrong password are indistinguishable to the caller.
	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, apperrors.CodeOf(err))
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	service := newTestAuthService(&mocks.MockUserRepository{})

	_, err := service.ParseToken("not-a-token")

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, apperrors.CodeOf(err))
}

func TestEnsureDefaultAdmin_CreatesAdminOnEmptyTable(t *testing.T) {
	users := &mocks.MockUserRepository{}
	service := newTestAuthService(users)

	users.On("Count", mock.Anything).Return(int64(0), nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "admin" && u.Role == domain.RoleAdmin
	})).Return(nil)

	err := service.EnsureDefaultAdmin(context.Background())

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestEnsureDefaultAdmin_SkipsWhenUsersExist(t *testing.T) {
	users := &mocks.MockUserRepository{}
	service := newTestAuthService(users)

	users.On("Count", mock.Anything).Return(int64(3), nil)

	err := service.EnsureDefaultAdmin(context.Background())

	assert.NoError(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
