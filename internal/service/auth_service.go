package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/crediq/loan-api/internal/config"
	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
)

// Claims carried in issued tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues tokens and bootstraps the initial admin account.
type AuthService struct {
	users repository.UserRepository
	cfg   *config.AuthConfig
	log   *logrus.Logger

	now func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg *config.AuthConfig, log *logrus.Logger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Login verifies the credentials and returns a signed token carrying the
// username and role.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.WrapInvalidCredentials()
		}
		return "", apperrors.WrapDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.WrapInvalidCredentials()
	}

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.cfg.GetTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	s.log.WithField("username", user.Username).Info("user logged in")
	return signed, nil
}

// ParseToken validates a token and returns the caller identity.
func (s *AuthService) ParseToken(tokenString string) (domain.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, apperrors.WrapInvalidCredentials()
	}

	return domain.Identity{Username: claims.Subject, Role: claims.Role}, nil
}

// EnsureDefaultAdmin creates the configured admin account when the user
// table is empty, so a fresh deployment is immediately usable.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if count > 0 {
		return nil
	}

	if s.cfg.AdminPassword == "" {
		return errors.New("BOOTSTRAP_ADMIN_PASSWORD is required to create the default admin user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		ID:           uuid.New(),
		Username:     s.cfg.AdminUsername,
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.log.WithField("username", admin.Username).Info("default admin user created")
	return nil
}
