package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/school-service/internal/domain"
)

// Verification failures. Callers outside this package must not branch on them
// when answering clients; the Authenticator collapses them into one error.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claims describes the JWT payload.
type Claims struct {
	Role     domain.Role `json:"role"`
	SchoolID *string     `json:"schoolId"`
	jwt.RegisteredClaims
}

// PrincipalClaims is the identity part of a token, independent of its lifetime.
type PrincipalClaims struct {
	UserID   string
	Role     domain.Role
	SchoolID string
}

// TokenCodec issues and verifies HS256 identity tokens with a shared secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a new codec.
func NewTokenCodec(secret string, ttlMinutes int) *TokenCodec {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenCodec{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute, now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *tc
	clone.now = now
	return &clone
}

// TTL reports the lifetime given to issued tokens.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs claims with issuedAt = now and expiresAt = now + ttl.
func (tc *TokenCodec) Issue(pc PrincipalClaims) (string, time.Time, error) {
	issuedAt := tc.now()
	expiresAt := issuedAt.Add(tc.ttl)

	claims := &Claims{
		Role: pc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pc.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if pc.SchoolID != "" {
		schoolID := pc.SchoolID
		claims.SchoolID = &schoolID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// No clock-skew leeway is applied.
func (tc *TokenCodec) Verify(tokenStr string) (PrincipalClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		return PrincipalClaims{}, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return PrincipalClaims{}, ErrMalformed
	}

	pc := PrincipalClaims{UserID: claims.Subject, Role: claims.Role}
	if claims.SchoolID != nil {
		pc.SchoolID = *claims.SchoolID
	}
	return pc, nil
}

// classify maps jwt errors onto the codec's three failure modes. The jwt
// parser checks the signature before claims, so an expired token is only
// reported as such once its signature has verified.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
