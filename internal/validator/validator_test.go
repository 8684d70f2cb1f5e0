package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCollectsErrors(t *testing.T) {
	var v Validator

	require.False(t, v.HasErrors())

	v.Check(true, "should not be recorded")
	v.Check(false, "first error")
	v.Check(false, "second error")

	require.True(t, v.HasErrors())
	require.Equal(t, []string{"first error", "second error"}, v.Errors)
}

func TestRgxBvn(t *testing.T) {
	require.True(t, Matches("12345678901", RgxBvn))

	require.False(t, Matches("1234567890", RgxBvn))
	require.False(t, Matches("123456789012", RgxBvn))
	require.False(t, Matches("1234567890a", RgxBvn))
	require.False(t, Matches("", RgxBvn))
}

func TestRgxUserTag(t *testing.T) {
	require.True(t, Matches("jane_d", RgxUserTag))
	require.True(t, Matches("jane.d99", RgxUserTag))

	require.False(t, Matches("jane d", RgxUserTag))
	require.False(t, Matches("jane-d", RgxUserTag))
	require.False(t, Matches("jane@d", RgxUserTag))
}

func TestRgxName(t *testing.T) {
	require.True(t, Matches("Jane", RgxName))
	require.True(t, Matches("Mary Jane", RgxName))

	require.False(t, Matches("Jane2", RgxName))
	require.False(t, Matches("", RgxName))
}

func TestIsEmail(t *testing.T) {
	require.True(t, IsEmail("jane@example.com"))
	require.True(t, IsEmail("jane+tag@sub.example.co"))

	require.False(t, IsEmail("jane"))
	require.False(t, IsEmail("jane@"))
	require.False(t, IsEmail("@example.com"))
}
