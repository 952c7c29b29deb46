package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"qualityweb/internal/apperror"
	"qualityweb/internal/auth"
	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// Login outcomes recorded by auth_login_attempts_total.
const (
	loginSuccess       = "success"
	loginUnknownUser   = "unknown_user"
	loginWrongPassword = "wrong_password"
	loginInactive      = "inactive"
	loginError         = "error"
)

// TokenIssuer is the part of auth.TokenService used by login and logout.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
	Revoke(ctx context.Context, id *auth.Identity) (bool, error)
}

// LoginResult is the body returned by a successful login.
type LoginResult struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    model.UserSummary `json:"usuario"`
}

// AuthService exchanges credentials for session tokens.
type AuthService interface {
	// Login verifies the credentials and issues a token. Unknown users and
	// wrong passwords are indistinguishable; an inactive account is only
	// reported once the password has been proven.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout revokes the caller's token when a denylist is configured.
	Logout(ctx context.Context, id *auth.Identity) error
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	logger   *slog.Logger
	attempts *prometheus.CounterVec
}

// NewAuthService registers the login counter on reg and returns the service.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, logger *slog.Logger, reg prometheus.Registerer) (AuthService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(attempts); err != nil {
		return nil, err
	}
	return &authService{users: users, tokens: tokens, logger: logger, attempts: attempts}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			s.attempts.WithLabelValues(loginUnknownUser).Inc()
			return nil, ErrInvalidCredential
		}
		s.attempts.WithLabelValues(loginError).Inc()
		return nil, apperror.Storage("find user", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.ErrorContext(ctx, "stored password hash is unusable", "user_id", user.ID, "error", err)
		}
		s.attempts.WithLabelValues(loginWrongPassword).Inc()
		return nil, ErrInvalidCredential
	}

	if !user.Active {
		s.attempts.WithLabelValues(loginInactive).Inc()
		return nil, ErrUserInactive
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.attempts.WithLabelValues(loginError).Inc()
		return nil, apperror.Storage("issue token", err)
	}

	s.attempts.WithLabelValues(loginSuccess).Inc()
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{
		Message: "Login exitoso",
		Token:   token,
		User:    user.Summary(),
	}, nil
}

func (s *authService) Logout(ctx context.Context, id *auth.Identity) error {
	if id == nil {
		return apperror.Unauthorized("UNAUTHORIZED", "unauthorized")
	}
	revoked, err := s.tokens.Revoke(ctx, id)
	if err != nil {
		return apperror.Storage("revoke token", err)
	}
	if !revoked {
		s.logger.DebugContext(ctx, "logout without denylist; token stays valid until expiry", "user_id", id.UserID)
	}
	return nil
}
