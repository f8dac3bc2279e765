package webpush

import "fmt"

// DerivedKey is the content-encryption key and nonce base for one message.
type DerivedKey struct {
	Key       []byte
	NonceBase []byte
}

// DeriveKeyAndNonce implements the RFC 8291 section 3.4 key schedule. The
// info strings carry a trailing NUL octet.
func DeriveKeyAndNonce(salt, authSecret, sharedSecret, subscriberPublicKey, senderPublicKey []byte) (DerivedKey, error) {
	return deriveKeyAndNonce(SystemProvider{}, salt, authSecret, sharedSecret, subscriberPublicKey, senderPublicKey)
}

func deriveKeyAndNonce(p Provider, salt, authSecret, sharedSecret, subscriberPublicKey, senderPublicKey []byte) (DerivedKey, error) {
	info := concat(webPushInfo, subscriberPublicKey, senderPublicKey)
	ikm, err := HKDFExpand(p.HMAC(authSecret, sharedSecret), info, 32)
	if err != nil {
		return DerivedKey{}, fmt.Errorf("derive ikm: %w", err)
	}

	prk := p.HMAC(salt, ikm)

	key, err := HKDFExpand(prk, cekInfo, CEKSize)
	if err != nil {
		return DerivedKey{}, fmt.Errorf("derive content encryption key: %w", err)
	}
	nonce, err := HKDFExpand(prk, nonceInfo, NonceSize)
	if err != nil {
		return DerivedKey{}, fmt.Errorf("derive nonce: %w", err)
	}
	return DerivedKey{Key: key, NonceBase: nonce}, nil
}
