package webpush

import (
	"encoding/json"
	"fmt"
)

// Keys are the base64url values from PushSubscription.getKey().
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription mirrors the JSON of a browser PushSubscription.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// ParseSubscription decodes a PushSubscription JSON document and checks
// that its endpoint and keys are usable.
func ParseSubscription(data []byte) (*Subscription, error) {
	var sub Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	if _, err := Audience(sub.Endpoint); err != nil {
		return nil, err
	}
	if _, err := decodeSubscriberKey(sub.Keys.P256dh); err != nil {
		return nil, err
	}
	if _, err := decodeAuthSecret(sub.Keys.Auth); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Encrypt encrypts payload for this subscription with fresh keys and salt.
func (s *Subscription) Encrypt(payload []byte) ([]byte, error) {
	return EncryptContent(s.Keys.P256dh, s.Keys.Auth, payload)
}

// Encryptor produces aes128gcm bodies. The zero value uses SystemProvider.
type Encryptor struct {
	Provider Provider
}

func (e Encryptor) provider() Provider {
	if e.Provider == nil {
		return SystemProvider{}
	}
	return e.Provider
}

// EncryptContent encrypts payload for the subscriber identified by its
// base64url p256dh key and auth secret, using a fresh key pair and salt.
func EncryptContent(subscriberPublicKey, authSecret string, payload []byte) ([]byte, error) {
	return Encryptor{}.EncryptContent(subscriberPublicKey, authSecret, payload)
}

// EncryptContent is the package-level EncryptContent bound to e's Provider.
func (e Encryptor) EncryptContent(subscriberPublicKey, authSecret string, payload []byte) ([]byte, error) {
	return e.EncryptWithOptions(subscriberPublicKey, authSecret, payload, CipherOptions{})
}

// EncryptWithOptions is EncryptContent with custom record size and padding.
func (e Encryptor) EncryptWithOptions(subscriberPublicKey, authSecret string, payload []byte, opts CipherOptions) ([]byte, error) {
	dh, err := decodeSubscriberKey(subscriberPublicKey)
	if err != nil {
		return nil, err
	}
	auth, err := decodeAuthSecret(authSecret)
	if err != nil {
		return nil, err
	}

	p := e.provider()
	sender, err := p.GenerateKey()
	if err != nil {
		return nil, err
	}
	salt, err := p.RandomBytes(SaltSize)
	if err != nil {
		return nil, err
	}

	shared, err := p.ECDH(sender, dh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubscriberKey, err)
	}
	senderPublicKey := sender.PublicKey().Bytes()

	dk, err := deriveKeyAndNonce(p, salt, auth, shared, dh, senderPublicKey)
	if err != nil {
		return nil, err
	}
	return createCipherText(p, senderPublicKey, salt, payload, dk, opts)
}

func decodeSubscriberKey(s string) ([]byte, error) {
	dh, err := DecodeBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubscriberKey, err)
	}
	if len(dh) != PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSubscriberKey, len(dh), PublicKeySize)
	}
	return dh, nil
}

func decodeAuthSecret(s string) ([]byte, error) {
	auth, err := DecodeBase64URL(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAuthSecret, err)
	}
	if len(auth) < MinAuthSecretSize {
		return nil, fmt.Errorf("%w: got %d bytes, want at least %d", ErrInvalidAuthSecret, len(auth), MinAuthSecretSize)
	}
	return auth, nil
}
