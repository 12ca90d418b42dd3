package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapHasher() *PasswordHasher {
	return NewPasswordHasherWithParams(1, 8*1024, 1)
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := cheapHasher()

	encoded, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"))
	assert.NotContains(t, encoded, "secret1")

	ok, err := h.Verify("secret1", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("secret2", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltsDiffer(t *testing.T) {
	h := cheapHasher()

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_VerifiesForeignParams(t *testing.T) {
	encoded, err := NewPasswordHasherWithParams(2, 16*1024, 2).Hash("pw")
	require.NoError(t, err)

	ok, err := cheapHasher().Verify("pw", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_InvalidHash(t *testing.T) {
	h := cheapHasher()

	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
	} {
		_, err := h.Verify("pw", bad)
		assert.ErrorIs(t, err, ErrInvalidHash, bad)
	}
}
