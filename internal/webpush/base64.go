package webpush

import (
	"encoding/base64"
	"strings"
)

// EncodeBase64URL encodes data as URL-safe base64 without padding.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL decodes URL-safe base64, with or without trailing padding.
// Keys exported by some browsers use the standard alphabet, so '+' and '/'
// are accepted as well.
func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	if strings.ContainsAny(s, "+/") {
		return base64.RawStdEncoding.DecodeString(s)
	}
	return base64.RawURLEncoding.DecodeString(s)
}
