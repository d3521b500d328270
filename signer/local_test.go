package signer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalSigner(t *testing.T) {
	t.Run("nil key rejected", func(t *testing.T) {
		_, err := NewLocalSigner(nil)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("wrong curve rejected", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		require.NoError(t, err)

		_, err = NewLocalSigner(key)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("p256 accepted", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		s, err := NewLocalSigner(key)
		require.NoError(t, err)
		assert.Equal(t, &key.PublicKey, s.Public())
	})
}

func TestLocalSignerSign(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	s, err := NewLocalSigner(key)
	require.NoError(t, err)

	message := []byte("signing message")

	sig, err := s.Sign(t.Context(), message)
	require.NoError(t, err)

	digest := sha256.Sum256(message)
	assert.True(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig))

	digest = sha256.Sum256([]byte("different message"))
	assert.False(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig))
}
