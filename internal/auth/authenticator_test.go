package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-service/internal/domain"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	codec := NewTokenCodec("test-secret", 60)
	authn := NewAuthenticator(codec)

	valid, _, err := codec.Issue(PrincipalClaims{UserID: "u-9", Role: domain.RoleSchoolAdmin, SchoolID: "school-a"})
	require.NoError(t, err)

	expired, _, err := codec.WithClock(fixedClock(time.Now().Add(-3 * time.Hour))).
		Issue(PrincipalClaims{UserID: "u-9", Role: domain.RoleSchoolAdmin, SchoolID: "school-a"})
	require.NoError(t, err)

	foreign, _, err := NewTokenCodec("other-secret", 60).Issue(PrincipalClaims{UserID: "u-9", Role: domain.RoleSuperadmin})
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		principal, err := authn.Authenticate("Bearer " + valid)
		require.NoError(t, err)
		assert.Equal(t, "u-9", principal.UserID())
		assert.Equal(t, domain.RoleSchoolAdmin, principal.Role())
		assert.Equal(t, "school-a", principal.SchoolID())
	})

	shapes := []string{"", "Bearer", "Bearer ", "bearer " + valid, "Basic " + valid, valid, "Bearer " + valid + " extra"}
	for _, header := range shapes {
		t.Run("shape "+header, func(t *testing.T) {
			_, err := authn.Authenticate(header)
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}

	// expired, wrong secret and garbage must be indistinguishable
	for name, token := range map[string]string{"expired": expired, "foreign": foreign, "garbage": "x.y.z"} {
		t.Run(name, func(t *testing.T) {
			_, err := authn.Authenticate("Bearer " + token)
			assert.Equal(t, ErrUnauthenticated, err)
		})
	}
}

func TestAuthenticator_SuperadminDropsSchool(t *testing.T) {
	codec := NewTokenCodec("test-secret", 60)
	token, _, err := codec.Issue(PrincipalClaims{UserID: "root", Role: domain.RoleSuperadmin, SchoolID: "ignored"})
	require.NoError(t, err)

	principal, err := NewAuthenticator(codec).Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.False(t, principal.HasSchool())
}
