package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironment_Defaults(t *testing.T) {
	for _, key := range []string{
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "API_PORT", "QUEUE_POOL_SIZE_FACTOR",
		"SOLVE_TIMEOUT_SECONDS", "RESPONSE_CACHE_TTL_SECONDS", "RULES_DIR", "SOLUTION_CACHE_FILE",
	} {
		t.Setenv(key, "")
	}

	e, err := FromEnvironment()
	require.NoError(t, err)

	assert.Equal(t, "5432", e.PgPort)
	assert.Equal(t, "8080", e.ApiPort)
	assert.Equal(t, 1, e.QueuePoolSizeFactor)
	assert.Equal(t, 30*time.Second, e.SolveTimeout)
	assert.Equal(t, 5*time.Minute, e.ResponseCacheTTL)
	assert.Empty(t, e.RulesDir)
	assert.False(t, e.HasDatabase())
}

func TestFromEnvironment_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_DB", "anvil")
	t.Setenv("API_PORT", "9090")
	t.Setenv("QUEUE_POOL_SIZE_FACTOR", "4")
	t.Setenv("SOLVE_TIMEOUT_SECONDS", "5")
	t.Setenv("RULES_DIR", "/etc/anvil/rules")

	e, err := FromEnvironment()
	require.NoError(t, err)

	assert.True(t, e.HasDatabase())
	assert.Equal(t, "9090", e.ApiPort)
	assert.Equal(t, 4, e.QueuePoolSizeFactor)
	assert.Equal(t, 5*time.Second, e.SolveTimeout)
	assert.Equal(t, "/etc/anvil/rules", e.RulesDir)
}

func TestFromEnvironment_InvalidNumbers(t *testing.T) {
	t.Setenv("QUEUE_POOL_SIZE_FACTOR", "many")
	_, err := FromEnvironment()
	assert.Error(t, err)

	t.Setenv("QUEUE_POOL_SIZE_FACTOR", "")
	t.Setenv("SOLVE_TIMEOUT_SECONDS", "0")
	_, err = FromEnvironment()
	assert.Error(t, err)
}
