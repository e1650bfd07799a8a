package auth

import (
	"errors"
	"strings"

	"github.com/spec-kit/school-service/internal/domain"
)

// BearerScheme is the only accepted credential scheme.
const BearerScheme = "Bearer"

var (
	// ErrMissingCredential means the header is absent or not "Bearer <token>".
	ErrMissingCredential = errors.New("missing or invalid authorization header")
	// ErrUnauthenticated covers every token verification failure.
	ErrUnauthenticated = errors.New("invalid or expired token")
)

// TokenVerifier is the part of the codec the authenticator needs.
type TokenVerifier interface {
	Verify(token string) (PrincipalClaims, error)
}

// Authenticator turns a raw Authorization header value into a Principal.
type Authenticator struct {
	tokens TokenVerifier
}

// NewAuthenticator constructs an authenticator.
func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate expects exactly two space-separated parts, the literal scheme
// and the token. Codec failures are not distinguished from one another.
func (a *Authenticator) Authenticate(header string) (domain.Principal, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != BearerScheme || parts[1] == "" {
		return domain.Principal{}, ErrMissingCredential
	}

	claims, err := a.tokens.Verify(parts[1])
	if err != nil {
		return domain.Principal{}, ErrUnauthenticated
	}
	return domain.NewPrincipal(claims.UserID, claims.Role, claims.SchoolID), nil
}
