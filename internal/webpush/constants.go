package webpush

const (
	// SaltSize is the size of the per-message salt in bytes.
	SaltSize = 16
	// MinAuthSecretSize is the minimum size of a subscription auth secret.
	MinAuthSecretSize = 16
	// PublicKeySize is the size of an uncompressed P-256 point (0x04||X||Y).
	PublicKeySize = 65
	// PrivateKeySize is the size of a raw P-256 scalar.
	PrivateKeySize = 32

	// CEKSize is the size of the AES-128-GCM content-encryption key.
	CEKSize = 16
	// NonceSize is the size of the AES-GCM nonce.
	NonceSize = 12
	// TagSize is the size of the AES-GCM authentication tag.
	TagSize = 16

	// DefaultRecordSize is the record size push services are required to accept.
	DefaultRecordSize uint32 = 4096
	// MinRecordSize is the smallest record that still holds one plaintext byte.
	MinRecordSize uint32 = RecordOverhead + 1
	// RecordOverhead is the delimiter octet plus the AEAD tag.
	RecordOverhead = 1 + TagSize

	// HeaderSize is the length of an aes128gcm header carrying a P-256 keyid.
	HeaderSize = SaltSize + 4 + 1 + PublicKeySize

	// ContentEncoding is the HTTP Content-Encoding of an encrypted body.
	ContentEncoding = "aes128gcm"

	delimiterMore byte = 0x01
	delimiterLast byte = 0x02

	// maxRecordCounter bounds the 48-bit record sequence number.
	maxRecordCounter = 1<<48 - 1
)

var (
	webPushInfo = []byte("WebPush: info\x00")
	cekInfo     = []byte("Content-Encoding: aes128gcm\x00")
	nonceInfo   = []byte("Content-Encoding: nonce\x00")
)
