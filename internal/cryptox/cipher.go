// Package cryptox implements the cryptographic helpers used by CloudyGo:
// an authenticated envelope cipher for one-time tokens that travel in email
// links, and password hashing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/cloudygo/internal/common"
)

const (
	// NonceSize is the GCM nonce length prepended to every envelope.
	NonceSize = 12
	// TagSize is the GCM authentication tag length appended to every envelope.
	TagSize = 16
)

// envelopeEncoding is base64 with '-' and '_' in place of '+' and '/',
// and no '=' padding, so envelopes are safe inside URLs.
var envelopeEncoding = base64.RawURLEncoding

// Encrypt seals plaintext with AES-256-GCM under key and returns the
// URL-safe envelope nonce || ciphertext || tag.
//
// A fresh random nonce is drawn on every call, so encrypting the same
// plaintext twice yields different envelopes.
//
// Parameters:
//   - plaintext: the token to protect. Empty strings are allowed.
//   - key: exactly KeySize bytes.
//
// Returns:
//   - the encoded envelope.
//   - common.ErrConfiguration if the key has the wrong size.
//
// Example:
//
//	key, _ := cryptox.ParseKey(os.Getenv("ENCRYPTION_KEY"))
//	env, err := cryptox.Encrypt("3f9a...", key.SecretValue())
//	link := domain + "/verifyEmail?token=" + env
func Encrypt(plaintext string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	// Seal appends ciphertext||tag to its first argument.
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return envelopeEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt.
//
// Any malformed or tampered input, including a wrong key, yields
// common.ErrIntegrity. Unauthenticated plaintext is never returned.
//
// Parameters:
//   - envelope: URL-safe base64, with or without trailing padding.
//   - key: the key used for encryption.
//
// Returns:
//   - the original plaintext.
//   - common.ErrConfiguration if the key has the wrong size.
//   - common.ErrIntegrity if decoding or authentication fails.
func Decrypt(envelope string, key []byte) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	envelope = strings.TrimRight(envelope, "=")

	// A single dangling character can never be produced by base64.
	if len(envelope)%4 == 1 {
		return "", fmt.Errorf("%w: malformed envelope length", common.ErrIntegrity)
	}

	raw, err := envelopeEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: malformed envelope encoding", common.ErrIntegrity)
	}

	if len(raw) < NonceSize+TagSize {
		return "", fmt.Errorf("%w: envelope too short", common.ErrIntegrity)
	}

	nonce, sealed := raw[:NonceSize], raw[NonceSize:]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", common.ErrIntegrity)
	}

	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", common.ErrConfiguration, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	return cipher.NewGCM(block)
}

// TokenCipher binds Encrypt and Decrypt to a hex key taken from configuration.
// The key is parsed on first use, so a missing key is reported by the first
// request that needs it rather than at startup.
type TokenCipher struct {
	rawKey string

	once sync.Once
	key  Key
	err  error
}

// NewTokenCipher returns a cipher for the given 64-character hex key.
func NewTokenCipher(hexKey string) *TokenCipher {
	return &TokenCipher{rawKey: hexKey}
}

func (c *TokenCipher) loadKey() (Key, error) {
	c.once.Do(func() {
		if c.rawKey == "" {
			c.err = fmt.Errorf("%w: ENCRYPTION_KEY is not set", common.ErrConfiguration)
			return
		}
		c.key, c.err = ParseKey(c.rawKey)
	})
	return c.key, c.err
}

// Encrypt seals plaintext under the configured key.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	key, err := c.loadKey()
	if err != nil {
		return "", err
	}
	return Encrypt(plaintext, key.SecretValue())
}

// Decrypt opens an envelope under the configured key.
func (c *TokenCipher) Decrypt(envelope string) (string, error) {
	key, err := c.loadKey()
	if err != nil {
		return "", err
	}
	return Decrypt(envelope, key.SecretValue())
}
