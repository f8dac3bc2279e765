package webpush

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// CipherOptions tunes the aes128gcm framing. The zero value produces
// 4096-byte records without padding.
type CipherOptions struct {
	// RecordSize is the rs header field, in [MinRecordSize, DefaultRecordSize].
	RecordSize uint32
	// Padding is the number of zero octets added to hide the payload length.
	// It goes on the last record, except for the part that fills out the
	// record before it when the payload tail fits but the padding does not.
	Padding int
}

func (o CipherOptions) recordSize() (uint32, error) {
	rs := o.RecordSize
	if rs == 0 {
		rs = DefaultRecordSize
	}
	if rs < MinRecordSize || rs > DefaultRecordSize {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidRecordSize, rs, MinRecordSize, DefaultRecordSize)
	}
	if o.Padding < 0 || o.Padding > int(rs)-RecordOverhead {
		return 0, fmt.Errorf("%w: %d bytes does not fit a %d-byte record", ErrInvalidPadding, o.Padding, rs)
	}
	return rs, nil
}

// GenerateNonce XORs the 48-bit big-endian counter into the low six bytes
// of a copy of nonceBase.
func GenerateNonce(nonceBase []byte, counter uint64) []byte {
	nonce := make([]byte, len(nonceBase))
	copy(nonce, nonceBase)
	seq := beUint48(counter)
	off := len(nonce) - len(seq)
	for i, b := range seq {
		nonce[off+i] ^= b
	}
	return nonce
}

// EncryptRecord seals one record: chunk, the delimiter (0x02 on the last
// record, 0x01 otherwise) and padLength zero octets, in the RFC 8188 order.
func EncryptRecord(dk DerivedKey, counter uint64, chunk []byte, padLength int, isLast bool) ([]byte, error) {
	return encryptRecord(SystemProvider{}, dk, counter, chunk, padLength, isLast)
}

func encryptRecord(p Provider, dk DerivedKey, counter uint64, chunk []byte, padLength int, isLast bool) ([]byte, error) {
	if counter > maxRecordCounter {
		return nil, fmt.Errorf("%w: record %d", ErrRecordOverflow, counter)
	}
	if padLength < 0 {
		return nil, fmt.Errorf("%w: negative padding %d", ErrInvalidPadding, padLength)
	}

	delimiter := delimiterMore
	if isLast {
		delimiter = delimiterLast
	}
	framed := make([]byte, len(chunk)+1+padLength)
	copy(framed, chunk)
	framed[len(chunk)] = delimiter

	sealed, err := p.Seal(dk.Key, GenerateNonce(dk.NonceBase, counter), framed)
	if err != nil {
		return nil, fmt.Errorf("seal record %d: %w", counter, err)
	}
	return sealed, nil
}

// CreateCipherHeader returns the rs || idlen || keyid part of the
// aes128gcm header. The salt that precedes it is written by CreateCipherText.
func CreateCipherHeader(keyID []byte, recordSize uint32) ([]byte, error) {
	var b cryptobyte.Builder
	addCipherHeader(&b, keyID, recordSize)
	header, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("build cipher header: %w", err)
	}
	return header, nil
}

func addCipherHeader(b *cryptobyte.Builder, keyID []byte, recordSize uint32) {
	b.AddUint32(recordSize)
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(keyID)
	})
}

// CreateCipherText assembles the full aes128gcm body: the header with the
// sender public key as keyid, followed by the encrypted records.
func CreateCipherText(senderPublicKey, salt, payload []byte, dk DerivedKey, opts CipherOptions) ([]byte, error) {
	return createCipherText(SystemProvider{}, senderPublicKey, salt, payload, dk, opts)
}

func createCipherText(p Provider, senderPublicKey, salt, payload []byte, dk DerivedKey, opts CipherOptions) ([]byte, error) {
	rs, err := opts.recordSize()
	if err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt is %d bytes, want %d", len(salt), SaltSize)
	}

	var b cryptobyte.Builder
	b.AddBytes(salt)
	addCipherHeader(&b, senderPublicKey, rs)
	header, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("build cipher header: %w", err)
	}

	f := &recordFramer{
		p:         p,
		dk:        dk,
		chunkSize: int(rs) - RecordOverhead,
		padding:   opts.Padding,
		remaining: payload,
	}
	return f.appendRecords(header)
}

type framerState int

const (
	// stateMore: the rest of the payload plus padding does not fit one record.
	stateMore framerState = iota
	// stateLast: the rest of the payload plus padding fits one record.
	stateLast
)

// recordFramer splits a payload into records. It moves from stateMore to
// stateLast exactly once and stops after emitting the last record.
type recordFramer struct {
	p         Provider
	dk        DerivedKey
	chunkSize int
	padding   int
	counter   uint64
	remaining []byte
}

func (f *recordFramer) state() framerState {
	if len(f.remaining)+f.padding <= f.chunkSize {
		return stateLast
	}
	return stateMore
}

func (f *recordFramer) appendRecords(out []byte) ([]byte, error) {
	for {
		switch f.state() {
		case stateMore:
			// Every record but the last is exactly rs bytes, so a short
			// tail is topped up from the padding budget.
			n := min(len(f.remaining), f.chunkSize)
			fill := f.chunkSize - n
			record, err := encryptRecord(f.p, f.dk, f.counter, f.remaining[:n], fill, false)
			if err != nil {
				return nil, err
			}
			out = append(out, record...)
			f.remaining = f.remaining[n:]
			f.padding -= fill
			f.counter++
		case stateLast:
			record, err := encryptRecord(f.p, f.dk, f.counter, f.remaining, f.padding, true)
			if err != nil {
				return nil, err
			}
			return append(out, record...), nil
		}
	}
}
