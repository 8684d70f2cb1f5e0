package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	require.Equal(t, "fallback", GetString("FINLAP_TEST_MISSING", "fallback"))

	t.Setenv("FINLAP_TEST_STRING", "set")
	require.Equal(t, "set", GetString("FINLAP_TEST_STRING", "fallback"))
}

func TestGetInt(t *testing.T) {
	require.Equal(t, 42, GetInt("FINLAP_TEST_MISSING", 42))

	t.Setenv("FINLAP_TEST_INT", "8080")
	require.Equal(t, 8080, GetInt("FINLAP_TEST_INT", 42))
}

func TestGetBool(t *testing.T) {
	require.True(t, GetBool("FINLAP_TEST_MISSING", true))

	t.Setenv("FINLAP_TEST_BOOL", "false")
	require.False(t, GetBool("FINLAP_TEST_BOOL", true))
}
