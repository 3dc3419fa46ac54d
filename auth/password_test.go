package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordKnownDigests(t *testing.T) {
	assert.Equal(t, "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9", HashPassword("admin123"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashPassword(""))
	assert.Len(t, HashPassword("osmar123"), 64)
	assert.Equal(t, HashPassword("osmar123"), HashPassword("osmar123"))
}

func TestSHA256HasherVerify(t *testing.T) {
	h := SHA256Hasher{}
	hash, err := h.Hash("diogo123")
	require.NoError(t, err)

	assert.True(t, h.Verify(hash, "diogo123"))
	assert.False(t, h.Verify(hash, "diogo124"))
	assert.True(t, h.Deterministic())
}

func TestBcryptHasherVerify(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	a, err := h.Hash("secret")
	require.NoError(t, err)
	b, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "secret"))
	assert.False(t, h.Verify(a, "Secret"))
	assert.False(t, h.Deterministic())
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("")
	require.NoError(t, err)
	assert.IsType(t, SHA256Hasher{}, h)

	h, err = NewHasher("BCRYPT")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}
