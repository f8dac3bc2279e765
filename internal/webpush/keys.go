package webpush

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
)

// VAPIDKeys is an application server key pair in base64url form.
type VAPIDKeys struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// GenerateVAPIDKeys returns a fresh application server key pair: the
// 65-byte public point and the 32-byte private scalar, both base64url.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ECDSA key: %w", err)
	}

	// PublicKey.Bytes is the SEC 1 uncompressed form the browser's
	// applicationServerKey expects.
	pubBytes, err := priv.PublicKey.Bytes()
	if err != nil {
		return "", "", fmt.Errorf("encode VAPID public key: %w", err)
	}

	// priv.Bytes is fixed-width, so no manual left-padding of D.
	privBytes, err := priv.Bytes()
	if err != nil {
		return "", "", fmt.Errorf("encode VAPID private key: %w", err)
	}

	return EncodeBase64URL(pubBytes), EncodeBase64URL(privBytes), nil
}

// ParseVAPIDKeys decodes base64url-encoded VAPID keys and returns the
// ECDSA private key (which includes the public key) ready for ES256.
func ParseVAPIDKeys(publicKeyB64, privateKeyB64 string) (*ecdsa.PrivateKey, error) {
	pub, priv, err := decodeVAPIDKeys(publicKeyB64, privateKeyB64)
	if err != nil {
		return nil, err
	}

	keyPEM, err := VapidKeyPEM(priv, pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	key, err := parseVapidKeyPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return key, nil
}

// Parse is ParseVAPIDKeys applied to k.
func (k VAPIDKeys) Parse() (*ecdsa.PrivateKey, error) {
	return ParseVAPIDKeys(k.PublicKey, k.PrivateKey)
}

// decodeVAPIDKeys checks the shapes of both keys and that the public key
// belongs to the private scalar.
func decodeVAPIDKeys(publicKeyB64, privateKeyB64 string) (pub, priv []byte, err error) {
	pub, err = DecodeBase64URL(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if len(pub) != PublicKeySize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(pub), PublicKeySize)
	}
	pubKey, err := ecdh.P256().NewPublicKey(pub)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: not a valid P-256 point", ErrInvalidPublicKey)
	}

	priv, err = DecodeBase64URL(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	if len(priv) != PrivateKeySize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPrivateKey, len(priv), PrivateKeySize)
	}
	scalar, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}

	if !scalar.PublicKey().Equal(pubKey) {
		return nil, nil, fmt.Errorf("%w: does not match the private key", ErrInvalidPublicKey)
	}
	return pub, priv, nil
}
