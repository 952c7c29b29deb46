package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("right")
	require.NoError(t, err)
	assert.NotEqual(t, "right", hash)

	assert.NoError(t, CheckPassword(hash, "right"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestCheckPassword_CorruptHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "right")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestBurnPasswordCheck(t *testing.T) {
	assert.NotPanics(t, func() { BurnPasswordCheck("anything") })
}
