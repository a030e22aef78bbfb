// Package flod implements the FLOD packet codec: a self-contained,
// DER-encoded envelope that combines RSA-OAEP hybrid encryption,
// HMAC-SHA1 integrity, optional RSASSA-PSS sender authentication, and a
// timestamped text payload (see SPEC_FULL.md §1 for the full rationale).
//
// The package is synchronous and holds no state between calls: Assemble
// and Disassemble are pure functions of their inputs modulo the CSPRNG and
// (for Assemble) the wall clock. Concurrent calls from different
// goroutines are safe as long as the supplied KeyProvider is.
package flod

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/flod-project/flod/pkg/flod/logging"
	"github.com/flod-project/flod/pkg/flod/primitives"
	"github.com/flod-project/flod/pkg/flod/wire"
)

// ProtocolVersion is the fixed small integer every FLOD packet carries in
// MessagePacket.protocolVersion.
const ProtocolVersion = 1

// Outcome classifies how a disassembled packet was authenticated (spec
// §4.6's exit_code state machine).
type Outcome int

const (
	// OutcomeSignedKnownSigner: the header carried a real signature under
	// a PGPKeyID the KeyProvider recognizes, and it verified. Result.PGPKeyID
	// is populated.
	OutcomeSignedKnownSigner Outcome = 0

	// OutcomeSignedNonPGP: the header carried a real signature, the
	// PGPKeyID was all-zero ("non-PGP plain key"), and one of the
	// KeyProvider's candidate public keys verified it. Result.Signer is
	// populated.
	OutcomeSignedNonPGP Outcome = 1

	// OutcomeUnsigned: the header's signatureAlgorithm was the no-sign
	// sentinel OID; no signature verification was attempted (there is
	// nothing to verify — the signature/PGPKeyID fields are decoys).
	OutcomeUnsigned Outcome = 2

	// OutcomeUnknownSigner: the header claimed a signature but its
	// authenticity cannot be established — either the PGPKeyID is
	// unknown to the KeyProvider, or (all-zero id case) no candidate
	// public key verified it.
	OutcomeUnknownSigner Outcome = 3
)

// String renders the outcome the way log lines and CLI output use.
func (o Outcome) String() string {
	switch o {
	case OutcomeSignedKnownSigner:
		return "signed-known-signer"
	case OutcomeSignedNonPGP:
		return "signed-non-pgp"
	case OutcomeUnsigned:
		return "unsigned"
	case OutcomeUnknownSigner:
		return "unknown-signer"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Signer is the optional sender-authentication argument to Assemble (spec
// §6.3): a private key plus the 8-byte PGPKeyID the recipient should look
// it up under. Pass ID as all-zero to mean "non-PGP plain key" — the
// recipient's KeyProvider is then expected to hand back the candidate set
// of its non-PGP public keys for verification.
type Signer struct {
	PrivateKey *rsa.PrivateKey
	ID         [wire.PGPKeyIDSize]byte
}

// Result is what Disassemble returns on success. PGPKeyID is only
// meaningful when Outcome == OutcomeSignedKnownSigner; Signer is only
// meaningful when Outcome == OutcomeSignedNonPGP.
type Result struct {
	Timestamp time.Time
	Message   string
	Outcome   Outcome
	PGPKeyID  [wire.PGPKeyIDSize]byte
	Signer    *rsa.PublicKey
}

// Assemble builds a DER-encoded FLOD packet carrying payload, addressed to
// recipientPub. If signer is non-nil the header carries a real
// RSASSA-PSS signature and signer.ID; otherwise it carries uniformly
// random decoy bytes of the same shape, so an observer cannot distinguish
// a signed message from an unsigned one by header layout alone (spec §3,
// §9's accepted "decoy indistinguishability" limitation still applies if a
// peer reuses both paths under the same key).
func Assemble(payload string, recipientPub *rsa.PublicKey, signer *Signer, opts Options) ([]byte, error) {
	logger := opts.logger()

	if recipientPub == nil {
		return nil, fmt.Errorf("flod: nil recipient public key")
	}
	if recipientPub.N.BitLen() < opts.minRSAKeyBits() {
		return nil, fmt.Errorf("flod: recipient rsa key too small: %d bits (minimum %d)",
			recipientPub.N.BitLen(), opts.minRSAKeyBits())
	}

	logger.Debug(context.TODO(), "assembling flod packet", "signed", signer != nil)

	drawn, err := primitives.RandomBytes(nil, []int{wire.IVSize, wire.AESKeySize, wire.HMACKeySize})
	if err != nil {
		return nil, fmt.Errorf("flod: draw session keys: %w", err)
	}
	iv, aesKey, hmacKey := drawn[0], drawn[1], drawn[2]
	defer zeroizeBytes(iv)
	defer zeroizeBytes(aesKey)
	defer zeroizeBytes(hmacKey)

	logger.Debug(context.TODO(), "drew session keys",
		logging.RedactedAESKey(aesKey), logging.RedactedHMACKey(hmacKey))

	contentContainer, err := assembleContentBlock(payload, aesKey, iv, opts.now())
	if err != nil {
		return nil, err
	}

	contentDER, err := wire.Marshal(contentContainer)
	if err != nil {
		return nil, fmt.Errorf("flod: encode content block: %w", err)
	}
	hmacContainer := assembleHMACBlock(contentDER, hmacKey)

	var si *signerInfo
	if signer != nil {
		if signer.PrivateKey == nil {
			return nil, fmt.Errorf("flod: signer with nil private key")
		}
		si = &signerInfo{priv: signer.PrivateKey, id: signer.ID}
	}

	headerContainer, err := assembleHeader(recipientPub, hmacKey, aesKey, si)
	if err != nil {
		return nil, err
	}

	packet := wire.MessagePacket{
		ProtocolVersion: ProtocolVersion,
		HeaderBlock:     headerContainer,
		HMACBlock:       hmacContainer,
		ContentBlock:    contentContainer,
	}

	der, err := wire.Marshal(packet)
	if err != nil {
		return nil, fmt.Errorf("flod: encode packet: %w", err)
	}

	logger.Info(context.TODO(), "assembled flod packet", "bytes", len(der))
	return der, nil
}

// Disassemble decodes a FLOD packet, trying each private key keys.YieldKeys()
// yields (in order) until one decrypts the header sentinel. See the
// Outcome constants and spec §4.6 for the full outcome state machine.
//
// Returns ErrNoMatchingKey if no key in keys fits. Once a key is found to
// fit, a HMAC or signature failure raises ErrHMACVerificationFailed /
// ErrSignatureVerificationFailed rather than continuing the trial loop —
// at that point the packet is known to be addressed to this recipient, so
// further candidates are irrelevant.
func Disassemble(packetDER []byte, keys KeyProvider, opts Options) (*Result, error) {
	logger := opts.logger()

	var packet wire.MessagePacket
	if err := wire.Unmarshal(packetDER, &packet); err != nil {
		return nil, malformed("packet decode", err)
	}
	if packet.ProtocolVersion != ProtocolVersion {
		return nil, fmt.Errorf("flod: unsupported protocol version %d", packet.ProtocolVersion)
	}

	candidates := keys.YieldKeys()
	logger.Debug(context.TODO(), "attempting header decryption", "candidates", len(candidates))

	for _, candidate := range candidates {
		trial, err := tryDecryptHeader(packet.HeaderBlock.EncryptedHeader, candidate)
		if err != nil {
			// A structural failure after the sentinel already matched:
			// this key is the intended recipient, so we stop trying
			// others and surface the packet-level error.
			return nil, err
		}
		if !trial.matched {
			continue
		}

		logger.Info(context.TODO(), "header decrypted, message is for this recipient")
		return finishDisassemble(packet, trial.header, keys, opts)
	}

	logger.Info(context.TODO(), "no key matched this packet")
	return nil, ErrNoMatchingKey
}

// finishDisassemble runs the post-header-match steps common to every
// outcome: HMAC verification (unconditional — see spec §9's "Open
// questions", which mandates the stricter reading over the source's
// unsigned-only HMAC check), content decryption, then the signature state
// machine.
func finishDisassemble(packet wire.MessagePacket, header wire.MPHeader, keys KeyProvider, opts Options) (*Result, error) {
	logger := opts.logger()
	defer zeroizeBytes(header.HMACKey)
	defer zeroizeBytes(header.AESKey)

	contentDER, err := wire.Marshal(packet.ContentBlock)
	if err != nil {
		return nil, malformed("re-encode content block for hmac", err)
	}

	if !verifyHMACBlock(packet.HMACBlock, header.HMACKey, contentDER) {
		logger.Warn(context.TODO(), "hmac verification failed")
		return nil, ErrHMACVerificationFailed
	}

	ts, message, err := disassembleContentBlock(packet.ContentBlock, header.AESKey)
	if err != nil {
		return nil, err
	}

	if header.SignatureAlgorithm.Algorithm.Equal(wire.OIDNoSign) {
		logger.Debug(context.TODO(), "message is unsigned")
		return &Result{Timestamp: ts, Message: message, Outcome: OutcomeUnsigned}, nil
	}

	return verifySignatureOutcome(header, ts, message, keys, logger)
}

func verifySignatureOutcome(header wire.MPHeader, ts time.Time, message string, keys KeyProvider, logger logging.Logger) (*Result, error) {
	content := signContent(header.HMACKey, header.AESKey)

	var pgpID [wire.PGPKeyIDSize]byte
	copy(pgpID[:], header.PGPKeyID)

	logger.Debug(context.TODO(), "verifying claimed signature", logging.RedactedSignature(header.Signature))

	lookup := keys.Lookup(pgpID)
	switch lookup.Kind {
	case LookupOne:
		if primitives.RSAVerify(content, header.Signature, lookup.Key) {
			return &Result{Timestamp: ts, Message: message, Outcome: OutcomeSignedKnownSigner, PGPKeyID: pgpID}, nil
		}
		return nil, ErrSignatureVerificationFailed

	case LookupMany:
		for _, candidate := range lookup.Keys {
			if primitives.RSAVerify(content, header.Signature, candidate) {
				return &Result{Timestamp: ts, Message: message, Outcome: OutcomeSignedNonPGP, Signer: candidate}, nil
			}
		}
		return &Result{Timestamp: ts, Message: message, Outcome: OutcomeUnknownSigner}, nil

	default: // LookupAbsent
		return &Result{Timestamp: ts, Message: message, Outcome: OutcomeUnknownSigner}, nil
	}
}
