package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	h, err := NewHasher(AlgorithmBcrypt)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewHasher("")
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewHasher(AlgorithmArgon2id)
	require.NoError(t, err)
	assert.IsType(t, &Argon2idHasher{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}

func TestHashers(t *testing.T) {
	hashers := map[string]PasswordHasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": NewArgon2idHasher(),
	}

	for name, hasher := range hashers {
		t.Run(name, func(t *testing.T) {
			t.Run("same password produces different hashes (salt)", func(t *testing.T) {
				h1, err := hasher.Hash("password1")
				require.NoError(t, err)
				h2, err := hasher.Hash("password1")
				require.NoError(t, err)
				assert.NotEqual(t, h1, h2)

				ok, err := hasher.Verify("password1", h1)
				require.NoError(t, err)
				assert.True(t, ok)

				ok, err = hasher.Verify("password1", h2)
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("hash never contains the password", func(t *testing.T) {
				h, err := hasher.Hash("password1")
				require.NoError(t, err)
				assert.NotContains(t, h, "password1")
			})

			t.Run("wrong password is a mismatch, not an error", func(t *testing.T) {
				h, err := hasher.Hash("password1")
				require.NoError(t, err)

				ok, err := hasher.Verify("wrong0000", h)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("malformed hash is an error", func(t *testing.T) {
				ok, err := hasher.Verify("password1", "not-a-valid-hash")
				assert.False(t, ok)
				assert.True(t, errors.Is(err, ErrInvalidHash))
			})

			t.Run("empty password rejected", func(t *testing.T) {
				_, err := hasher.Hash("")
				assert.ErrorIs(t, err, ErrEmptyPassword)
			})

			t.Run("fresh hash does not need rehash", func(t *testing.T) {
				h, err := hasher.Hash("password1")
				require.NoError(t, err)
				assert.False(t, hasher.NeedsRehash(h))
			})
		})
	}
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h, err := NewBcryptHasher(BcryptCost).Hash("password1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	low := NewBcryptHasher(bcrypt.MinCost)
	h, err := low.Hash("password1")
	require.NoError(t, err)

	assert.True(t, NewBcryptHasher(BcryptCost).NeedsRehash(h))
	assert.True(t, low.NeedsRehash("$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"))
}

func TestBcryptHasher_LongPasswordIsTruncated(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("x", 100)

	hash, err := h.Hash(long)
	require.NoError(t, err)

	ok, err := h.Verify(long, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// only the first 72 bytes count
	ok, err = h.Verify(strings.Repeat("x", BcryptMaxBytes)+"different tail", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(strings.Repeat("x", BcryptMaxBytes-1), hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idHasher_RejectsBadEncodings(t *testing.T) {
	h := NewArgon2idHasher()

	cases := map[string]string{
		"wrong algorithm":  "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"bad version":      "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"bad parameters":   "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"threads overflow": "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA",
		"bad salt":         "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA",
		"bad key":          "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!",
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.Verify("password1", encoded)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestArgon2idHasher_NeedsRehashForBcrypt(t *testing.T) {
	b, err := NewBcryptHasher(bcrypt.MinCost).Hash("password1")
	require.NoError(t, err)
	assert.True(t, NewArgon2idHasher().NeedsRehash(b))
}
