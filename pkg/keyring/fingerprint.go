package keyring

import (
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // fingerprinting only, not a security primitive.
	"crypto/x509"
	"fmt"

	"github.com/flod-project/flod/pkg/flod/wire"
)

// Fingerprint computes the 8-byte PGPKeyID this package assigns a public
// key: the low 8 bytes of the SHA-1 digest of its DER SubjectPublicKeyInfo
// encoding (x509.MarshalPKIXPublicKey). This mirrors, without depending on
// GnuPG, the role the original KeyManager's GPG fingerprint played —
// identifying a public key by a short, stable, content-derived value.
func Fingerprint(pub *rsa.PublicKey) ([wire.PGPKeyIDSize]byte, error) {
	var id [wire.PGPKeyIDSize]byte

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return id, fmt.Errorf("keyring: marshal public key: %w", err)
	}

	digest := sha1.Sum(der) //nolint:gosec
	copy(id[:], digest[len(digest)-wire.PGPKeyIDSize:])
	return id, nil
}
