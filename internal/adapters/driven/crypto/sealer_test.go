package crypto

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer("a passphrase that is long enough to use")
	require.NoError(t, err)

	sealed, err := s.Seal("1//0gRefreshToken")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "RefreshToken")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "1//0gRefreshToken", plain)
}

func TestSealer_NonceDiffers(t *testing.T) {
	s, err := NewSealer("secret")
	require.NoError(t, err)

	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	assert.NotEqual(t, a, b)
}

func TestNewSealer_RawKey(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	s, err := NewSealer(key)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{7}, 32), s.key[:])
}

func TestNewSealer_Empty(t *testing.T) {
	_, err := NewSealer("   ")
	assert.Error(t, err)
}

func TestSealer_WrongKey(t *testing.T) {
	a, _ := NewSealer("key-a")
	b, _ := NewSealer("key-b")

	sealed, err := a.Seal("token")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestSealer_Open_Malformed(t *testing.T) {
	s, _ := NewSealer("key")

	_, err := s.Open("v1:!!!not-base64")
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = s.Open("v1:" + base64.RawStdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestSealer_Open_LegacyPlaintext(t *testing.T) {
	s, _ := NewSealer("key")

	plain, err := s.Open("1//legacy-token")
	require.NoError(t, err)
	assert.Equal(t, "1//legacy-token", plain)
}

func TestSealer_Seal_RandFailure(t *testing.T) {
	s, _ := NewSealer("key")
	s.rand = bytes.NewReader(nil)

	_, err := s.Seal("token")
	assert.Error(t, err)
}
