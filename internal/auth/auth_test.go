package auth

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := CreateHash("hunter2", fastParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	p, _, _, err := DecodeHash(hash)
	require.NoError(t, err)
	assert.Equal(t, fastParams, p)
}

func TestDecodeHashRejectsMalformed(t *testing.T) {
	_, _, _, err := DecodeHash("plain")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, _, _, err = DecodeHash("$argon2id$v=1$m=1,t=1,p=1$AAAA$AAAA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init(&config.Config{TokenExpiry: time.Hour}))

	token, err := CreateJWT("user-123")
	require.NoError(t, err)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	_, err = AuthenticateJWT(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTFromOtherKeyIsRejected(t *testing.T) {
	require.NoError(t, Init(&config.Config{}))
	token, err := CreateJWT("user-123")
	require.NoError(t, err)

	require.NoError(t, Init(&config.Config{}))
	_, err = AuthenticateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInitFromPath(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	dir := t.TempDir()
	privPath, pubPath := filepath.Join(dir, "key"), filepath.Join(dir, "key.pub")
	require.NoError(t, os.WriteFile(privPath, priv, 0o600))
	require.NoError(t, os.WriteFile(pubPath, pub, 0o644))

	require.NoError(t, InitFromPath(&config.Config{TokenExpiry: 2 * time.Hour}, privPath, pubPath))
	assert.Equal(t, 7200, CookieMaxAge())

	token, err := CreateJWT("user-9")
	require.NoError(t, err)
	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", sub)

	assert.Error(t, InitFromPath(&config.Config{}, pubPath, privPath))
}
