package flod

import (
	"github.com/flod-project/flod/pkg/flod/primitives"
	"github.com/flod-project/flod/pkg/flod/wire"
)

// assembleHMACBlock computes HMAC-SHA1 over contentBlockDER (the DER
// encoding of MPContentContainer exactly as it appears in the packet, not
// over the plaintext payload — spec §3 invariants) and wraps it.
func assembleHMACBlock(contentBlockDER, key []byte) wire.MPHMACContainer {
	return wire.MPHMACContainer{
		DigestAlgorithm: wire.NewSHA1Identifier(),
		Digest:          primitives.HMACSum(contentBlockDER, key),
	}
}

// verifyHMACBlock recomputes the HMAC of contentBlockDER under key and
// compares it against block.Digest in constant time.
func verifyHMACBlock(block wire.MPHMACContainer, key, contentBlockDER []byte) bool {
	return primitives.HMACEqual(contentBlockDER, key, block.Digest)
}
