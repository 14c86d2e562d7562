package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimarket/storefront/internal/core/domain"
	"github.com/minimarket/storefront/internal/core/ports"
)

const defaultTokenTTL = 2 * time.Hour

// AuthService implements registration, login, and session token handling.
// Tokens are HS256-signed JWTs; the signing method is pinned on both ends
// so a token cannot downgrade itself to "none".
type AuthService struct {
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{users: users, secret: []byte(jwtSecret), ttl: ttl, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password, fullName, email string) (*domain.UserAccount, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.UserAccount{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Email:        email,
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("account registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.UserAccount, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// An unknown username and a bad password are indistinguishable
		// to the caller.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// issueToken snapshots the account's role and full name into the claim
// set. Issued tokens keep these values until expiry regardless of later
// profile changes.
func (s *AuthService) issueToken(user *domain.UserAccount) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.Username,
		"full_name": user.FullName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify decodes and validates an encoded session token: structure,
// signature, and expiry. Any failure resolves to domain.ErrUnauthorized.
func (s *AuthService) Verify(token string) (*ports.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrUnauthorized
	}
	fullName, _ := claims["full_name"].(string)

	id := &ports.Identity{Username: sub, FullName: fullName, Role: role}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

func (s *AuthService) Users(ctx context.Context) ([]domain.UserAccount, error) {
	return s.users.List(ctx)
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}
