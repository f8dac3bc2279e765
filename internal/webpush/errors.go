package webpush

import "errors"

var (
	// ErrInvalidSubscriberKey is returned when the subscription's p256dh key
	// is not a 65-byte uncompressed P-256 point.
	ErrInvalidSubscriberKey = errors.New("invalid subscriber key")

	// ErrInvalidAuthSecret is returned when the subscription's auth secret
	// decodes to fewer than 16 bytes.
	ErrInvalidAuthSecret = errors.New("invalid auth secret")

	// ErrInvalidAudience is returned when the VAPID audience is not a URL
	// with a hostname.
	ErrInvalidAudience = errors.New("invalid VAPID audience")

	// ErrInvalidSubject is returned when the VAPID subject is neither a
	// mailto: URI nor a URL with a hostname.
	ErrInvalidSubject = errors.New("invalid VAPID subject")

	// ErrInvalidPublicKey is returned when the VAPID public key is not a
	// 65-byte P-256 point matching the private key.
	ErrInvalidPublicKey = errors.New("invalid VAPID public key")

	// ErrInvalidPrivateKey is returned when the VAPID private key is not a
	// usable 32-byte P-256 scalar.
	ErrInvalidPrivateKey = errors.New("invalid VAPID private key")

	// ErrInvalidExpiration is returned for a negative VAPID expiration.
	ErrInvalidExpiration = errors.New("invalid VAPID expiration")

	// ErrExpirationTooLarge is returned when the VAPID token would be valid
	// for 24 hours or more.
	ErrExpirationTooLarge = errors.New("VAPID expiration must be less than 24 hours")

	// ErrCryptoOperationFailed wraps failures of the underlying AEAD, ECDH,
	// random source or signing primitives.
	ErrCryptoOperationFailed = errors.New("crypto operation failed")

	// ErrInvalidKey is returned when a peer public key is not a valid point
	// on P-256.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidRecordSize is returned for a record size outside [18, 4096].
	ErrInvalidRecordSize = errors.New("invalid record size")

	// ErrInvalidPadding is returned when the requested padding does not fit
	// into a single record.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrRecordOverflow is returned when a message would need more records
	// than the 48-bit record counter can address.
	ErrRecordOverflow = errors.New("record counter overflow")

	// ErrDecryptionFailed is returned when an aes128gcm body cannot be
	// authenticated or is malformed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEndpoint is returned when a subscription endpoint is not an
	// absolute URL.
	ErrInvalidEndpoint = errors.New("invalid subscription endpoint")

	// ErrInvalidTTL is returned for a TTL outside [0, MaxTTL].
	ErrInvalidTTL = errors.New("invalid TTL")

	// ErrInvalidUrgency is returned for an Urgency that is not one of the
	// four RFC 8030 values.
	ErrInvalidUrgency = errors.New("invalid urgency")

	// ErrInvalidTopic is returned for a Topic longer than 32 characters or
	// using characters outside the base64url alphabet.
	ErrInvalidTopic = errors.New("invalid topic")
)
