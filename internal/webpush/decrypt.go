package webpush

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// Header is the parsed aes128gcm content-coding header.
type Header struct {
	Salt       []byte
	RecordSize uint32
	KeyID      []byte
}

// ParseHeader splits an aes128gcm body into its header and the records.
func ParseHeader(body []byte) (Header, []byte, error) {
	s := cryptobyte.String(body)
	var (
		h     Header
		keyID cryptobyte.String
	)
	if !s.ReadBytes(&h.Salt, SaltSize) || !s.ReadUint32(&h.RecordSize) || !s.ReadUint8LengthPrefixed(&keyID) {
		return Header{}, nil, fmt.Errorf("%w: truncated header", ErrDecryptionFailed)
	}
	if h.RecordSize < MinRecordSize {
		return Header{}, nil, fmt.Errorf("%w: record size %d", ErrDecryptionFailed, h.RecordSize)
	}
	h.KeyID = keyID
	return h, s, nil
}

// Decrypt reverses EncryptContent on the user agent side, given the
// subscription private key and auth secret. It is the receiving half of
// RFC 8291 and checks every record delimiter.
func Decrypt(body []byte, subscriber *ecdh.PrivateKey, authSecret []byte) ([]byte, error) {
	h, records, err := ParseHeader(body)
	if err != nil {
		return nil, err
	}

	shared, err := ComputeSharedSecret(subscriber, h.KeyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	dk, err := DeriveKeyAndNonce(h.Salt, authSecret, shared, subscriber.PublicKey().Bytes(), h.KeyID)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(dk.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %w", ErrCryptoOperationFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create GCM: %w", ErrCryptoOperationFailed, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrDecryptionFailed)
	}
	rs := int(h.RecordSize)
	var plaintext []byte
	for counter := uint64(0); len(records) > 0; counter++ {
		n := min(rs, len(records))
		record := records[:n]
		records = records[n:]
		isLast := len(records) == 0

		framed, err := gcm.Open(nil, GenerateNonce(dk.NonceBase, counter), record, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDecryptionFailed, counter, err)
		}
		chunk, err := unpadRecord(framed, isLast)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", counter, err)
		}
		plaintext = append(plaintext, chunk...)
	}
	return plaintext, nil
}

// unpadRecord strips trailing zero padding and checks the delimiter.
func unpadRecord(framed []byte, isLast bool) ([]byte, error) {
	end := len(bytes.TrimRight(framed, "\x00"))
	if end == 0 {
		return nil, fmt.Errorf("%w: missing delimiter", ErrDecryptionFailed)
	}
	want := delimiterMore
	if isLast {
		want = delimiterLast
	}
	if got := framed[end-1]; got != want {
		return nil, fmt.Errorf("%w: delimiter 0x%02x, want 0x%02x", ErrDecryptionFailed, got, want)
	}
	return framed[:end-1], nil
}
