package webpush

import (
	"crypto/ecdh"
	"fmt"
	"testing"
)

// Key material and intermediate values from RFC 8291 Appendix A.
const (
	rfcPlaintext         = "When I grow up, I want to be a watermelon"
	rfcSenderPrivate     = "yfWPiYE-n46HLnH0KqZOF1fJJU3MYrct3AELtAQ-oRw"
	rfcSenderPublic      = "BP4z9KsN6nGRTbVYI_c7VJSPQTBtkgcy27mlmlMoZIIgDll6e3vCYLocInmYWAmS6TlzAC8wEqKK6PBru3jl7A8"
	rfcSubscriberPrivate = "q1dXpw3UpT5VOmu_cf_v6ih07Aems3njxI-JWgLcM94"
	rfcSubscriberPublic  = "BCVxsr7N_eNgVRqvHtD0zTZsEc6-VV-JvLexhqUzORcxaOzi6-AYWXvTBHm4bjyPjs7Vd8pZGH6SRpkNtoIAiw4"
	rfcAuthSecret        = "BTBZMqHH6r4Tts7J_aSIgg"
	rfcSalt              = "DGv6ra1nlYgDCS1FRnbzlw"
	rfcSharedSecret      = "kyrL1jIIOHEzg3sM2ZWRHDRB62YACZhhSlknJ672kSs"
	rfcIKM               = "S4lYMb_L0FxCeq0WhDx813KgSYqU26kOyzWUdsXYyrg"
	rfcPRK               = "09_eUZGrsvxChDCGRCdkLiDXrReGOEVeSCdCcPBSJSc"
	rfcCEK               = "oIhVW04MRdy2XN9CiKLxTg"
	rfcNonce             = "4h_95klXJ5E_qnoN"
	rfcBody              = "DGv6ra1nlYgDCS1FRnbzlwAAEABBBP4z9KsN6nGRTbVYI_c7VJSPQTBtkgcy27mlmlMoZIIgDll6e3vCYLocInmYWAmS6TlzAC8wEqKK6PBru3jl7A_yl95bQpu6cVPTpK4Mqgkf1CXztLVBSt2Ks3oZwbuwXPXLWyouBWLVWGNWQexSgSxsj_Qulcy4a-fN"
)

func mustDecode(t testing.TB, s string) []byte {
	t.Helper()
	b, err := DecodeBase64URL(s)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return b
}

func mustECDHKey(t testing.TB, private string) *ecdh.PrivateKey {
	t.Helper()
	key, err := ecdh.P256().NewPrivateKey(mustDecode(t, private))
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	return key
}

// fixedProvider replays a known sender key and salt so output can be
// compared byte for byte.
type fixedProvider struct {
	SystemProvider
	key  *ecdh.PrivateKey
	salt []byte
}

func (p fixedProvider) GenerateKey() (*ecdh.PrivateKey, error) {
	return p.key, nil
}

func (p fixedProvider) RandomBytes(n int) ([]byte, error) {
	if n != len(p.salt) {
		return nil, fmt.Errorf("fixed salt is %d bytes, asked for %d", len(p.salt), n)
	}
	return append([]byte(nil), p.salt...), nil
}

func rfcEncryptor(t testing.TB) Encryptor {
	t.Helper()
	return Encryptor{Provider: fixedProvider{
		key:  mustECDHKey(t, rfcSenderPrivate),
		salt: mustDecode(t, rfcSalt),
	}}
}

func rfcDerivedKey(t testing.TB) DerivedKey {
	t.Helper()
	return DerivedKey{Key: mustDecode(t, rfcCEK), NonceBase: mustDecode(t, rfcNonce)}
}

// subscriber is a browser-side subscription: the private key and auth
// secret stay with the test so bodies can be decrypted.
type subscriber struct {
	key  *ecdh.PrivateKey
	auth []byte
}

func newSubscriber(t testing.TB) subscriber {
	t.Helper()
	key, err := GenerateKeyPair(nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	auth, err := SystemProvider{}.RandomBytes(16)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	return subscriber{key: key, auth: auth}
}

func (s subscriber) p256dh() string { return EncodeBase64URL(s.key.PublicKey().Bytes()) }
func (s subscriber) authSecret() string { return EncodeBase64URL(s.auth) }

func (s subscriber) subscription(endpoint string) *Subscription {
	return &Subscription{Endpoint: endpoint, Keys: Keys{P256dh: s.p256dh(), Auth: s.authSecret()}}
}

func rfcSubscriber(t testing.TB) subscriber {
	t.Helper()
	return subscriber{key: mustECDHKey(t, rfcSubscriberPrivate), auth: mustDecode(t, rfcAuthSecret)}
}
