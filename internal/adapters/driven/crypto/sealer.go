// Package crypto seals refresh tokens at rest with NaCl secretbox.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
)

const (
	keySize   = 32
	nonceSize = 24

	// sealedPrefix versions the stored format.
	sealedPrefix = "v1:"
)

// kdfSalt domain-separates derived token keys from other uses of the secret.
var kdfSalt = []byte("contestcal/refresh-token/v1")

// ErrDecrypt indicates a sealed value could not be opened with the key.
var ErrDecrypt = errors.New("crypto: cannot decrypt sealed value")

// Ensure Sealer implements the interface.
var _ driven.TokenSealer = (*Sealer)(nil)

// Sealer encrypts tokens with a 32-byte secretbox key.
type Sealer struct {
	key  [keySize]byte
	rand io.Reader
}

// NewSealer builds a sealer from the configured secret. A base64 encoded
// 32-byte value is used as the key directly; any other non-empty secret is
// stretched with Argon2id.
func NewSealer(secret string) (*Sealer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("crypto: empty token encryption key")
	}

	s := &Sealer{rand: rand.Reader}
	if raw, err := base64.StdEncoding.DecodeString(secret); err == nil && len(raw) == keySize {
		copy(s.key[:], raw)
		return s, nil
	}

	derived := argon2.IDKey([]byte(secret), kdfSalt, 3, 64*1024, 2, keySize)
	copy(s.key[:], derived)
	return s, nil
}

// Seal encrypts plaintext and returns "v1:" followed by base64(nonce || box).
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return "", fmt.Errorf("crypto: reading nonce: %w", err)
	}

	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. Values without the version prefix
// were written before encryption was enabled and are returned unchanged.
func (s *Sealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return sealed, nil
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
