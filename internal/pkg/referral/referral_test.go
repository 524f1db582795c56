package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewCode()
		assert.Len(t, code, CodeLength)
		assert.True(t, IsValidCode(code), "generated code %q must validate", code)
		seen[code] = true
	}
	// 100 draws from a 16^8 space should not collide.
	assert.Len(t, seen, 100)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("ABCD1234"))
	assert.True(t, IsValidCode("00000000"))
	assert.True(t, IsValidCode("FFFFFFFF"))

	assert.False(t, IsValidCode(""))
	assert.False(t, IsValidCode("ABC123"))
	assert.False(t, IsValidCode("ABCD12345"))
	assert.False(t, IsValidCode("abcd1234"), "codes are upper case")
	assert.False(t, IsValidCode("GHIJ1234"), "codes are hex characters only")
	assert.False(t, IsValidCode("ABCD 123"))
}
