package flod

import (
	"crypto/rsa"
	"crypto/subtle"
	"fmt"

	"github.com/flod-project/flod/pkg/flod/primitives"
	"github.com/flod-project/flod/pkg/flod/wire"
)

// signerInfo bundles a sender's private key and the PGPKeyID to embed
// alongside the resulting signature (spec §6.3's optional `signer`
// argument to Assemble).
type signerInfo struct {
	priv *rsa.PrivateKey
	id   [wire.PGPKeyIDSize]byte
}

// signContent is the message RSASSA-PSS signs/verifies: HMACKey
// concatenated with AESKey, in that order (spec §4.6).
func signContent(hmacKey, aesKey []byte) []byte {
	buf := make([]byte, 0, len(hmacKey)+len(aesKey))
	buf = append(buf, hmacKey...)
	buf = append(buf, aesKey...)
	return buf
}

// assembleHeader builds, optionally signs, DER-encodes, and chunk-encrypts
// MPHeader under the recipient's public key (spec §4.5 "Assemble").
//
// FLOD's signature field is fixed at one RSA block of the *recipient's*
// key (spec §3 invariants), so a real signature and its decoy must be the
// same length: this requires the sender's RSA modulus to be the same size
// as the recipient's.
func assembleHeader(recipientPub *rsa.PublicKey, hmacKey, aesKey []byte, signer *signerInfo) (wire.MPHeaderContainer, error) {
	recipientSize := recipientPub.Size()

	var sigAlg = wire.NewNoSignIdentifier()
	var pgpKeyID []byte
	var signature []byte

	if signer != nil {
		if signer.priv.Size() != recipientSize {
			return wire.MPHeaderContainer{}, fmt.Errorf(
				"flod: signer key size (%d bytes) must match recipient key size (%d bytes)",
				signer.priv.Size(), recipientSize)
		}

		sig, err := primitives.RSASign(signContent(hmacKey, aesKey), signer.priv)
		if err != nil {
			return wire.MPHeaderContainer{}, fmt.Errorf("flod: sign header: %w", err)
		}

		sigAlg = wire.NewRSASSAPSSIdentifier()
		pgpKeyID = append([]byte{}, signer.id[:]...)
		signature = sig
	} else {
		decoys, err := primitives.RandomBytes(nil, []int{wire.PGPKeyIDSize, recipientSize})
		if err != nil {
			return wire.MPHeaderContainer{}, fmt.Errorf("flod: generate decoy header fields: %w", err)
		}
		pgpKeyID = decoys[0]
		signature = decoys[1]
	}

	header := wire.MPHeader{
		IdentificationString: wire.IdentificationString,
		SignatureAlgorithm:   sigAlg,
		PGPKeyID:             pgpKeyID,
		Signature:            signature,
		HMACKey:              hmacKey,
		AESKey:               aesKey,
	}

	headerDER, err := wire.Marshal(header)
	if err != nil {
		return wire.MPHeaderContainer{}, fmt.Errorf("flod: encode header: %w", err)
	}

	encHeader, err := primitives.RSAEncryptOAEPChunks(headerDER, recipientPub)
	if err != nil {
		return wire.MPHeaderContainer{}, fmt.Errorf("flod: encrypt header: %w", err)
	}

	return wire.MPHeaderContainer{
		EncryptionAlgorithm: wire.NewRSAESOAEPIdentifier(),
		EncryptedHeader:     encHeader,
	}, nil
}

// headerCandidateResult is what trying a single private key against an
// encrypted header produces.
type headerCandidateResult struct {
	// matched is false when this key is simply not the intended
	// recipient — the caller should move on to the next candidate
	// without treating this as an error of any kind.
	matched bool
	header  wire.MPHeader
}

// tryDecryptHeader attempts to decrypt encHeader with candidate and checks
// the identification-string sentinel (spec §4.5 "Disassemble, single
// candidate key"). Every failure up to and including the sentinel check is
// reported as matched=false, err=nil: it is cryptographically
// indistinguishable from "not my key" and must never be treated as a
// packet-level error or logged above Debug, or it becomes an oracle for
// who the intended recipient is.
//
// Once the sentinel matches, any further structural failure (the
// remaining chunks failing to decrypt, the concatenated DER failing to
// parse) is a genuine packet-level error and is returned as such.
func tryDecryptHeader(encHeader []byte, candidate *rsa.PrivateKey) (headerCandidateResult, error) {
	k := candidate.Size()
	if k == 0 || len(encHeader)%k != 0 || len(encHeader) < k {
		return headerCandidateResult{}, nil
	}

	firstBlock, err := primitives.RSADecryptOAEPBlock(encHeader[:k], candidate)
	if err != nil {
		return headerCandidateResult{}, nil
	}

	offset, err := wire.IdentificationOffset(firstBlock)
	if err != nil || offset+wire.IdentificationStringSize > len(firstBlock) {
		return headerCandidateResult{}, nil
	}

	// Constant-time relative to packet contents, per spec §4.2: a
	// non-constant-time compare here would leak, via wall-clock, whether
	// a given key is "close" to matching.
	if subtle.ConstantTimeCompare(firstBlock[offset:offset+wire.IdentificationStringSize], wire.IdentificationString) != 1 {
		return headerCandidateResult{}, nil
	}

	headerDER := append([]byte{}, firstBlock...)
	for offset := k; offset < len(encHeader); offset += k {
		block, err := primitives.RSADecryptOAEPBlock(encHeader[offset:offset+k], candidate)
		if err != nil {
			return headerCandidateResult{}, malformed("header chunk decryption", err)
		}
		headerDER = append(headerDER, block...)
	}

	var header wire.MPHeader
	if err := wire.Unmarshal(headerDER, &header); err != nil {
		return headerCandidateResult{}, malformed("header decode", err)
	}

	return headerCandidateResult{matched: true, header: header}, nil
}
