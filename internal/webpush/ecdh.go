package webpush

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
	"io"
)

// GenerateKeyPair creates a P-256 key pair for a single message. A nil
// reader uses crypto/rand.
func GenerateKeyPair(r io.Reader) (*ecdh.PrivateKey, error) {
	if r == nil {
		r = rand.Reader
	}
	priv, err := ecdh.P256().GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("%w: generate P-256 key: %w", ErrCryptoOperationFailed, err)
	}
	return priv, nil
}

// ComputeSharedSecret performs ECDH between priv and the peer's raw
// uncompressed public key and returns the 32-byte X coordinate.
func ComputeSharedSecret(priv *ecdh.PrivateKey, peerPublicKey []byte) ([]byte, error) {
	pub, err := ecdh.P256().NewPublicKey(peerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: peer key is not a P-256 point: %w", ErrInvalidKey, err)
	}
	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: ecdh: %w", ErrCryptoOperationFailed, err)
	}
	return secret, nil
}
