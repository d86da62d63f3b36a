package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := SignAccessToken(testSecret, 42, "AC", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(testSecret, token, "access")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "AC", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestVerifyTokenRejectsWrongType(t *testing.T) {
	token, err := SignRefreshToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token, "access")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignAccessToken(testSecret, 42, "ME", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", token, "access")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	token, err := SignAccessToken(testSecret, 42, "ME", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token, "access")
	assert.Error(t, err)
}

func TestSignRequiresSecret(t *testing.T) {
	_, err := SignAccessToken("", 1, "SA", time.Hour)
	assert.Error(t, err)

	_, err = SignRefreshToken("", 1, time.Hour)
	assert.Error(t, err)
}
