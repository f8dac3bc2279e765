package webpush

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
	"io"
)

// Provider is the set of primitives the encryptor draws on. Tests swap it
// for one with fixed randomness so output can be compared byte for byte.
type Provider interface {
	// HMAC returns HMAC-SHA256(key, message).
	HMAC(key, message []byte) []byte
	// Seal encrypts plaintext with AES-128-GCM and appends the tag.
	Seal(key, nonce, plaintext []byte) ([]byte, error)
	// GenerateKey returns a fresh P-256 key pair.
	GenerateKey() (*ecdh.PrivateKey, error)
	// ECDH returns the shared X coordinate for priv and a raw peer key.
	ECDH(priv *ecdh.PrivateKey, peerPublicKey []byte) ([]byte, error)
	// RandomBytes returns n bytes from a cryptographically secure source.
	RandomBytes(n int) ([]byte, error)
}

// SystemProvider implements Provider on the standard library. The zero
// value reads randomness from crypto/rand and is safe for concurrent use.
type SystemProvider struct {
	// Rand overrides the entropy source. Leave nil outside of tests.
	Rand io.Reader
}

var _ Provider = SystemProvider{}

func (p SystemProvider) reader() io.Reader {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.Reader
}

func (SystemProvider) HMAC(key, message []byte) []byte {
	return HMACHash(key, message)
}

func (SystemProvider) Seal(key, nonce, plaintext []byte) ([]byte, error) {
	if len(key) != CEKSize {
		return nil, fmt.Errorf("%w: aes-128-gcm key is %d bytes, want %d", ErrCryptoOperationFailed, len(key), CEKSize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrCryptoOperationFailed, len(nonce), NonceSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %w", ErrCryptoOperationFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create GCM: %w", ErrCryptoOperationFailed, err)
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func (p SystemProvider) GenerateKey() (*ecdh.PrivateKey, error) {
	return GenerateKeyPair(p.reader())
}

func (SystemProvider) ECDH(priv *ecdh.PrivateKey, peerPublicKey []byte) ([]byte, error) {
	return ComputeSharedSecret(priv, peerPublicKey)
}

func (p SystemProvider) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(p.reader(), b); err != nil {
		return nil, fmt.Errorf("%w: read random bytes: %w", ErrCryptoOperationFailed, err)
	}
	return b, nil
}
