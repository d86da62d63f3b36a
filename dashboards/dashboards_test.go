package dashboards

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRoleSelectsStrategyPerRole(t *testing.T) {
	sa, err := ForRole(nil, "SA")
	require.NoError(t, err)
	assert.IsType(t, &superAdminStrategy{}, sa)

	ac, err := ForRole(nil, "AC")
	require.NoError(t, err)
	assert.IsType(t, &clinicAdminStrategy{}, ac)

	me, err := ForRole(nil, "ME")
	require.NoError(t, err)
	assert.IsType(t, &medicoStrategy{}, me)
}

func TestForRoleRejectsUnknownRole(t *testing.T) {
	for _, role := range []string{"", "XX", "admin", "sa"} {
		strategy, err := ForRole(nil, role)
		assert.Nil(t, strategy)
		assert.ErrorIs(t, err, ErrUnknownRole)
	}
}

func TestNullFloat(t *testing.T) {
	assert.Nil(t, nullFloat(sql.NullFloat64{}))
	assert.Equal(t, 4.5, nullFloat(sql.NullFloat64{Float64: 4.5, Valid: true}))
}
