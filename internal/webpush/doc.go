// Package webpush encrypts Web Push messages and signs VAPID tokens.
//
// # Message encryption
//
// [EncryptContent] implements RFC 8291 on top of the aes128gcm content
// coding of RFC 8188. Each call draws a fresh P-256 key pair and a fresh
// 16-byte salt, agrees on a secret with the subscriber's p256dh key, runs
// the two-stage HKDF key schedule of [DeriveKeyAndNonce] and seals the
// payload in records of at most 4096 bytes:
//
//	salt(16) | rs(4, big-endian) | idlen(1) | keyid(65) | record_0 | ... | record_n
//
// Every record is plaintext || delimiter || zero padding, where the
// delimiter is 0x02 on the last record and 0x01 on all others. The nonce
// of record i is the derived nonce base with i XORed into its low six
// bytes ([GenerateNonce]). An empty payload still yields one record.
//
// Encrypting the same payload twice never yields the same body. Reusing a
// salt and key pair would reuse an AES-GCM key and nonce, so the high-level
// entry points ([EncryptContent], [NewRequest]) never take a salt. The
// building blocks [DeriveKeyAndNonce] and [CreateCipherText] do, and are
// meant for test vectors; tests of the entry points replace the [Provider].
//
// [Decrypt] is the user agent side and is used to check round trips.
//
// # VAPID
//
// [GetVapidAuthorizationString] checks the audience, subject and raw key
// shapes, rebuilds a signing key from the 32-byte scalar and 65-byte point
// via a SEC 1 DER / PEM encoding ([ECPrivateKeyDER], [VapidKeyPEM]) and
// signs an ES256 JWT carrying aud, exp and sub:
//
//	Authorization: vapid t=<jwt>, k=<base64url public key>
//
// Tokens expire after 12 hours by default and never 24 hours or more
// after issue.
//
// # Delivery
//
// Sending is left to the caller. [NewRequest] builds an unsent POST with
// the body and headers, and [ClassifyResponse] tells the caller whether a
// reply means delivered, gone (delete the subscription), retry or rejected.
//
// All functions are safe for concurrent use and return sentinel errors
// (see errors.go) that can be matched with errors.Is.
package webpush
