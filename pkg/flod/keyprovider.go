package flod

import "crypto/rsa"

// KeyProvider is FLOD's only external collaborator (spec §6.2). The core
// never stores key material itself; it asks a KeyProvider for it on every
// call. Implementations must be safe for concurrent read access — multiple
// Assemble/Disassemble calls may run in different goroutines — and must be
// finite: Disassemble's trial-decryption loop consumes YieldKeys() fully
// before giving up.
type KeyProvider interface {
	// YieldKeys returns the private keys to try, in trial order.
	// Disassemble tries them in this exact order (spec §5: "sequential in
	// the order yield_keys() yields").
	YieldKeys() []*rsa.PrivateKey

	// Lookup resolves an 8-byte PGPKeyID to the public key(s) that can
	// verify a signature claiming that id. See LookupResult.
	Lookup(id [8]byte) LookupResult
}

// LookupKind discriminates the three outcomes KeyProvider.Lookup can
// produce. Source systems that collapse this into one dynamically-typed
// return slot (a single key, a set of keys, or nil) push the type
// confusion onto every caller; LookupResult makes the three cases
// exhaustive and explicit instead (spec §9, "Dynamic typing of the
// key-provider lookup").
type LookupKind int

const (
	// LookupAbsent means no public key is registered under the requested
	// id.
	LookupAbsent LookupKind = iota
	// LookupOne means exactly one public key is registered under the
	// requested (non-zero) id.
	LookupOne
	// LookupMany means the requested id was all-zero ("non-PGP plain
	// key") and a set of candidate public keys was returned. By
	// contract, LookupMany must only ever be produced for the all-zero
	// id.
	LookupMany
)

// LookupResult is the tagged variant KeyProvider.Lookup returns. Callers
// should switch on Kind; the Key/Keys fields are only meaningful for the
// matching Kind.
type LookupResult struct {
	Kind LookupKind
	Key  *rsa.PublicKey
	Keys []*rsa.PublicKey
}

// LookupOneResult wraps a single matched public key.
func LookupOneResult(pub *rsa.PublicKey) LookupResult {
	return LookupResult{Kind: LookupOne, Key: pub}
}

// LookupManyResult wraps a set of candidate public keys for the all-zero
// id case.
func LookupManyResult(pubs []*rsa.PublicKey) LookupResult {
	return LookupResult{Kind: LookupMany, Keys: pubs}
}

// LookupAbsentResult reports that no public key is registered under the
// requested id.
func LookupAbsentResult() LookupResult {
	return LookupResult{Kind: LookupAbsent}
}
