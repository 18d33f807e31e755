package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "libnet-test")
	actor := domain.Actor{
		ID:            domain.NewStaffID(),
		Role:          domain.RoleLocalCoordinator,
		HomeLibraryID: domain.NewLibraryID(),
	}

	token, err := svc.GenerateActorToken(actor, time.Hour)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestAdminTokenCarriesNoLibrary(t *testing.T) {
	svc := NewService("test-signing-key", "libnet-test")
	actor := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}

	token, err := svc.GenerateActorToken(actor, time.Hour)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, got.HomeLibraryID.IsNil())
	assert.Equal(t, domain.RoleNetworkAdmin, got.Role)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := NewService("test-signing-key", "libnet-test")
	actor := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateActorToken(actor, -time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewService("different-key", "libnet-test")
		token, err := other.GenerateActorToken(actor, time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
