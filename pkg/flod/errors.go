package flod

import "errors"

// Terminal error kinds a Disassemble call can raise (spec §7). Internal
// failures during trial decryption (RSA padding errors, ASN.1 structural
// errors in a rejected candidate's first block) are never surfaced — they
// advance the trial loop silently so a caller cannot use them as an oracle
// for which key, if any, almost matched.
var (
	// ErrNoMatchingKey means no private key yielded by the KeyProvider
	// decrypted the header sentinel. The packet may be well-formed and
	// addressed to someone else, or simply garbage; both look identical
	// from here, by design.
	ErrNoMatchingKey = errors.New("flod: no matching rsa key for message")

	// ErrSignatureVerificationFailed means the header advertised a
	// signature under a known signer key, but verification failed. This
	// is a security event: either the packet was tampered with after
	// signing, or the claimed signer did not produce it.
	ErrSignatureVerificationFailed = errors.New("flod: signature verification failed")

	// ErrHMACVerificationFailed means the content block's integrity tag
	// did not match. Security event: the ciphertext or IV was altered
	// after assembly.
	ErrHMACVerificationFailed = errors.New("flod: hmac verification failed")
)

// MalformedPacketError wraps a structural failure (bad DER, wrong field
// sizes) in the outer packet, or one discovered after a candidate key has
// already passed the identification-string check. Once a candidate is the intended recipient,
// further failures are packet-level errors, not key-mismatch signals, and
// must not be retried against other keys (spec §4.5, §7).
type MalformedPacketError struct {
	Reason string
	Err    error
}

func (e *MalformedPacketError) Error() string {
	if e.Err != nil {
		return "flod: malformed packet: " + e.Reason + ": " + e.Err.Error()
	}
	return "flod: malformed packet: " + e.Reason
}

func (e *MalformedPacketError) Unwrap() error { return e.Err }

func malformed(reason string, err error) error {
	return &MalformedPacketError{Reason: reason, Err: err}
}
