package webpush

import "encoding/binary"

// concat returns a new slice holding all parts back to back.
func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// beUint48 encodes the low 48 bits of v as 6 big-endian bytes.
func beUint48(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b[2:]
}
