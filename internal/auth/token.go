package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Verify for every rejection reason.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified subject of a session token.
type Identity struct {
	UserID    int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Claims is the JWT payload. id and correo keep the field names the
// dashboard client already decodes.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"correo"`
	jwt.RegisteredClaims
}

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenService issues and verifies stateless HS256 session tokens.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
	denylist Denylist
	logger   *slog.Logger
}

type Option func(*TokenService)

func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func WithIssuer(issuer string) Option {
	return func(s *TokenService) { s.issuer = issuer }
}

func WithDenylist(d Denylist) Option {
	return func(s *TokenService) { s.denylist = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TokenService) { s.logger = l }
}

func NewTokenService(secret []byte, ttl time.Duration, opts ...Option) *TokenService {
	s := &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the lifetime given to newly issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the user that expires TTL from now.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, payload shape, expiry and, when a
// denylist is configured, revocation. Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(ctx context.Context, raw string) (*Identity, error) {
	var claims Claims
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID <= 0 || claims.Email == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "denylist lookup failed", "component", "auth", "error", err)
			return nil, fmt.Errorf("%w: denylist unavailable", ErrInvalidToken)
		}
		if revoked {
			return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}

	return &Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke denylists the identity's token for the rest of its lifetime.
// Without a denylist it is a no-op and reports false.
func (s *TokenService) Revoke(ctx context.Context, id *Identity) (bool, error) {
	if s.denylist == nil || id == nil {
		return false, nil
	}
	ttl := id.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return true, nil
	}
	if err := s.denylist.Revoke(ctx, id.TokenID, ttl); err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return true, nil
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the verified identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the identity attached by the auth gate.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
