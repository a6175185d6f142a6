package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsValidAndAscending(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	assert.True(t, Valid(a))
	assert.Len(t, a, 24)
	assert.Less(t, a, b)
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("65a1f0c2e4b0a1b2c3d4e5f6"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("123"))
	assert.False(t, Valid("zza1f0c2e4b0a1b2c3d4e5f6"))
	assert.False(t, Valid("65a1f0c2e4b0a1b2c3d4e5f6aa"))
}
