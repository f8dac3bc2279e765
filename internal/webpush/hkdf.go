package webpush

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// maxHKDFLength is the RFC 5869 output limit for SHA-256 (255 blocks).
const maxHKDFLength = 255 * sha256.Size

// HMACHash returns HMAC-SHA256(key, message).
func HMACHash(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// HKDFExpand runs the RFC 5869 expand step over a pseudorandom key and
// returns length bytes of output keying material.
func HKDFExpand(prk, info []byte, length int) ([]byte, error) {
	if length < 0 || length > maxHKDFLength {
		return nil, fmt.Errorf("%w: hkdf output length %d out of range", ErrCryptoOperationFailed, length)
	}
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, info), out); err != nil {
		return nil, fmt.Errorf("%w: hkdf expand: %w", ErrCryptoOperationFailed, err)
	}
	return out, nil
}
