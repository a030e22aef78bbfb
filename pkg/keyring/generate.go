package keyring

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/flod-project/flod/pkg/flod"
)

// GenerateKeyPair generates a fresh RSA key pair, the Go equivalent of the
// original KeyManager's gen_plain_rsa_key: a throwaway key for tests, demos,
// and bootstrapping a keyring, not a replacement for an operator's
// production key management.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < flod.MinRSAKeyBits {
		return nil, fmt.Errorf("keyring: key size %d below flod.MinRSAKeyBits (%d)", bits, flod.MinRSAKeyBits)
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("keyring: generate rsa key: %w", err)
	}
	return priv, nil
}
