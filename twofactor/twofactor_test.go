package twofactor

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretIsUniquePerCall(t *testing.T) {
	first, err := GenerateSecret("medico@example.com")
	require.NoError(t, err)
	second, err := GenerateSecret("medico@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestVerifyAcceptsCurrentCode(t *testing.T) {
	secret, err := GenerateSecret("medico@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	assert.True(t, Verify(secret, code))
}

func TestVerifyRejectsBadInput(t *testing.T) {
	secret, err := GenerateSecret("medico@example.com")
	require.NoError(t, err)

	assert.False(t, Verify(secret, "000000"))
	assert.False(t, Verify(secret, ""))
	assert.False(t, Verify(secret, "not-a-code"))
}

func TestVerifyRejectsStaleCode(t *testing.T) {
	secret, err := GenerateSecret("medico@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)

	assert.False(t, Verify(secret, code))
}
