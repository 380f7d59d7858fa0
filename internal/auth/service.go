package auth

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reelintake/internal/config"
	"reelintake/internal/logging"
)

// RoleAdmin is the only role the review surface issues.
const RoleAdmin = "admin"

var (
	// ErrNotConfigured is returned when no admin credentials are present in
	// the configuration.
	ErrNotConfigured = errors.New("admin credentials are not configured")

	// ErrInvalidCredentials is returned for a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for expired, revoked, or malformed tokens.
	ErrInvalidToken = errors.New("invalid or expired session token")
)

// Claims is the JWT payload for an admin session.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Session is an authenticated admin session.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Listener receives session lifecycle callbacks. The session is non-nil on
// sign-in and nil on sign-out.
type Listener func(session *Session)

// Service issues and validates admin session tokens. Tokens are stateless
// JWTs; sign-out tracks revoked token identifiers until they expire.
type Service struct {
	email  string
	hash   string
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners []Listener
}

// NewService builds the session service from the auth configuration.
func NewService(cfg config.Auth, logger *slog.Logger) *Service {
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		email:   strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		hash:    cfg.AdminPasswordHash,
		secret:  []byte(cfg.TokenSecret),
		ttl:     ttl,
		logger:  logging.NewComponentLogger(logger, "auth"),
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Configured reports whether admin credentials are available.
func (s *Service) Configured() bool {
	return s.email != "" && s.hash != "" && len(s.secret) > 0
}

// SignIn verifies the credentials and issues a session token.
func (s *Service) SignIn(email, password string) (*Session, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		Email: s.email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: token, Email: s.email, ExpiresAt: expires}
	s.logger.Info("admin signed in", logging.String("email", s.email))
	s.notify(session)
	return session, nil
}

// GetSession validates a token and returns the session it represents.
func (s *Service) GetSession(token string) (*Session, error) {
	claims, err := s.validate(token)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes a token. Revocations are kept until the token would have
// expired anyway.
func (s *Service) SignOut(token string) error {
	claims, err := s.validate(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.pruneLocked()
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.mu.Unlock()

	s.logger.Info("admin signed out", logging.String("email", claims.Email))
	s.notify(nil)
	return nil
}

// OnSessionChange registers a listener for sign-in and sign-out events.
func (s *Service) OnSessionChange(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Service) validate(tokenStr string) (*Claims, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) notify(session *Session) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, listener := range listeners {
		listener(session)
	}
}

func (s *Service) pruneLocked() {
	now := s.now()
	for id, expires := range s.revoked {
		if expires.Before(now) {
			delete(s.revoked, id)
		}
	}
}

// HashPassword produces a bcrypt hash suitable for the configuration file.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
