package services

import (
	"time"

	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/security"
)

// AuthService handles admin authentication for the submissions dashboard.
type AuthService struct {
	passwordHash  string
	jwtSecret     string
	tokenLifetime time.Duration
	logger        *logging.ChanneledLogger
}

// NewAuthService creates the auth service.
func NewAuthService(passwordHash, jwtSecret string, tokenLifetime time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenLifetime: tokenLifetime,
		logger:        logger,
	}
}

// Enabled reports whether the admin surface is configured.
func (s *AuthService) Enabled() bool {
	return s.passwordHash != "" && s.jwtSecret != ""
}

// Login verifies the admin password and returns a bearer token.
func (s *AuthService) Login(password string) (string, error) {
	if !s.Enabled() || !security.CheckPassword(password, s.passwordHash) {
		s.logger.Auth().Warn("Admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken(s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", err
	}
	s.logger.Auth().Info("Admin login succeeded")
	return token, nil
}

// Verify checks a bearer token and confirms the admin role.
func (s *AuthService) Verify(token string) bool {
	if !s.Enabled() {
		return false
	}
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false
	}
	return security.IsAdminClaims(claims)
}
