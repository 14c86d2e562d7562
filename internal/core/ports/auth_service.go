package ports

import (
	"context"
	"time"

	"github.com/minimarket/storefront/internal/core/domain"
)

// Identity is the resolved subject of a verified session token. The
// claims are a snapshot taken at issuance; later profile changes do not
// retroactively affect already-issued tokens.
type Identity struct {
	Username  string
	FullName  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, username, password, fullName, email string) (*domain.UserAccount, error)
	// Login verifies the credentials and returns a signed session token
	// together with the account. It fails with
	// domain.ErrInvalidCredentials for an unknown username or a password
	// mismatch, without distinguishing the two.
	Login(ctx context.Context, username, password string) (string, *domain.UserAccount, error)
	// Verify decodes and validates an encoded session token. It returns
	// domain.ErrUnauthorized on any structural, signature, or expiry
	// failure.
	Verify(token string) (*Identity, error)
	Users(ctx context.Context) ([]domain.UserAccount, error)
	TokenTTL() time.Duration
}
