package webpush

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/asn1"
	"encoding/pem"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const (
	pemTypeECParameters = "EC PARAMETERS"
	pemTypeECPrivateKey = "EC PRIVATE KEY"
)

// oidNamedCurveP256 is prime256v1 (secp256r1).
var oidNamedCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}

// ECPrivateKeyDER encodes a raw P-256 scalar and its uncompressed public
// point as a SEC 1 ECPrivateKey:
//
//	ECPrivateKey ::= SEQUENCE {
//	  version        INTEGER { ecPrivkeyVer1(1) },
//	  privateKey     OCTET STRING,
//	  parameters [0] ECParameters {{ NamedCurve }},
//	  publicKey  [1] BIT STRING }
//
// The output is byte-for-byte what crypto/x509.MarshalECPrivateKey emits.
func ECPrivateKeyDER(privateKey, publicKey []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(1)
		b.AddASN1OctetString(privateKey)
		b.AddASN1(cbasn1.Tag(0).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidNamedCurveP256)
		})
		b.AddASN1(cbasn1.Tag(1).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1BitString(publicKey)
		})
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode ECPrivateKey: %w", err)
	}
	return der, nil
}

// VapidKeyPEM wraps the raw VAPID key pair as an EC PARAMETERS block
// followed by an EC PRIVATE KEY block, the layout `openssl ecparam
// -genkey` writes.
func VapidKeyPEM(privateKey, publicKey []byte) ([]byte, error) {
	var params cryptobyte.Builder
	params.AddASN1ObjectIdentifier(oidNamedCurveP256)
	paramsDER, err := params.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode EC parameters: %w", err)
	}
	keyDER, err := ECPrivateKeyDER(privateKey, publicKey)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: pemTypeECParameters, Bytes: paramsDER}); err != nil {
		return nil, fmt.Errorf("pem encode EC parameters: %w", err)
	}
	if err := pem.Encode(&buf, &pem.Block{Type: pemTypeECPrivateKey, Bytes: keyDER}); err != nil {
		return nil, fmt.Errorf("pem encode EC private key: %w", err)
	}
	return buf.Bytes(), nil
}

// parseVapidKeyPEM finds the EC PRIVATE KEY block, skipping any EC
// PARAMETERS block in front of it, and loads it as a signing key.
func parseVapidKeyPEM(data []byte) (*ecdsa.PrivateKey, error) {
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("no %s block found", pemTypeECPrivateKey)
		}
		if block.Type == pemTypeECPrivateKey {
			key, err := jwt.ParseECPrivateKeyFromPEM(pem.EncodeToMemory(block))
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", pemTypeECPrivateKey, err)
			}
			return key, nil
		}
		data = rest
	}
}
