package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPort(t *testing.T) {
	cases := map[string]string{
		"1.2.3.4:8080": "1.2.3.4",
		"1.2.3.4":      "1.2.3.4",
		"[::1]:8080":   "::1",
		"::1":          "::1",
		"2001:db8::7":  "2001:db8::7",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripPort(in), "input %q", in)
	}
}

func TestGeneratedPasswordTruncates(t *testing.T) {
	key := MD5Hex("anything")
	assert.Len(t, GeneratedPassword(key), 12)
	assert.Equal(t, "short", GeneratedPassword("short"))
}

func TestIsAlphanumeric(t *testing.T) {
	assert.True(t, IsAlphanumeric("alice99"))
	assert.False(t, IsAlphanumeric("alice smith"))
	assert.False(t, IsAlphanumeric("alice!"))
	assert.False(t, IsAlphanumeric(""))
}
