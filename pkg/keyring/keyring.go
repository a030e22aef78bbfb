package keyring

import (
	"crypto/rsa"
	"fmt"
	"sync"

	"github.com/flod-project/flod/pkg/flod"
	"github.com/flod-project/flod/pkg/flod/wire"
)

// Keyring is an in-memory flod.KeyProvider. It is safe for concurrent use:
// every method takes the same RWMutex, readers (YieldKeys, Lookup) taking a
// read lock and writers (AddPrivateKey, AddSignerKey, AddPlainKey) taking a
// write lock.
//
// A Keyring plays two roles the original KeyManager bundled into one class:
// it holds this party's own private keys (tried in Disassemble's
// trial-decryption loop) and it holds the public keys of signers this party
// is willing to authenticate (resolved by Lookup).
type Keyring struct {
	mu sync.RWMutex

	privateKeys []*rsa.PrivateKey
	byID        map[[wire.PGPKeyIDSize]byte]*rsa.PublicKey
	plainKeys   []*rsa.PublicKey
}

// New returns an empty Keyring.
func New() *Keyring {
	return &Keyring{
		byID: make(map[[wire.PGPKeyIDSize]byte]*rsa.PublicKey),
	}
}

// AddPrivateKey registers priv as one of this party's own keys. Disassemble
// tries private keys in the order they were added.
func (k *Keyring) AddPrivateKey(priv *rsa.PrivateKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.privateKeys = append(k.privateKeys, priv)
}

// AddSignerKey registers pub as the public key that verifies signatures
// claiming the given PGPKeyID. id must not be all-zero — that id is
// reserved for AddPlainKey's candidate set (spec.md's "non-PGP plain key"
// case).
func (k *Keyring) AddSignerKey(id [wire.PGPKeyIDSize]byte, pub *rsa.PublicKey) error {
	if id == ([wire.PGPKeyIDSize]byte{}) {
		return fmt.Errorf("keyring: all-zero id is reserved for plain (non-PGP) keys, use AddPlainKey")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.byID[id] = pub
	return nil
}

// AddPlainKey registers pub as a candidate for the all-zero "non-PGP plain
// key" signer id. Lookup tries every registered plain key against a
// signature claiming that id.
func (k *Keyring) AddPlainKey(pub *rsa.PublicKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.plainKeys = append(k.plainKeys, pub)
}

// YieldKeys implements flod.KeyProvider. The returned slice is a copy; the
// caller may not mutate the Keyring's internal state through it.
func (k *Keyring) YieldKeys() []*rsa.PrivateKey {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]*rsa.PrivateKey, len(k.privateKeys))
	copy(out, k.privateKeys)
	return out
}

// Lookup implements flod.KeyProvider.
func (k *Keyring) Lookup(id [wire.PGPKeyIDSize]byte) flod.LookupResult {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if id == ([wire.PGPKeyIDSize]byte{}) {
		if len(k.plainKeys) == 0 {
			return flod.LookupAbsentResult()
		}
		out := make([]*rsa.PublicKey, len(k.plainKeys))
		copy(out, k.plainKeys)
		return flod.LookupManyResult(out)
	}

	if pub, ok := k.byID[id]; ok {
		return flod.LookupOneResult(pub)
	}
	return flod.LookupAbsentResult()
}
