package primitives

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // SHA-1 is fixed by the FLOD wire format.
	"fmt"
)

// ErrRSABlock is returned by RSADecryptOAEPBlock when a ciphertext block is
// not valid for the given private key. In the trial-decryption loop this is
// indistinguishable from "not my key" and must never be surfaced as a
// distinct error to the caller (spec §4.5, §7).
var ErrRSABlock = fmt.Errorf("primitives: rsa block invalid for this key")

// rsaOAEPMaxPlaintext returns the largest plaintext chunk RSA-OAEP with a
// SHA-1 hash can wrap for the given RSA modulus size, in bytes
// (keyBits/8 - 2*hLen - 2 = keyBits/8 - 42 for SHA-1).
func rsaOAEPMaxPlaintext(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha1.Size - 2
}

// RSAOAEPMaxPlaintext exposes rsaOAEPMaxPlaintext; it is also the chunk
// size used to split a large MPHeader across several RSA-OAEP blocks
// (spec §4.5).
func RSAOAEPMaxPlaintext(pub *rsa.PublicKey) int {
	return rsaOAEPMaxPlaintext(pub)
}

// RSAEncryptOAEPChunks splits pt into chunks no larger than
// RSAOAEPMaxPlaintext(pub) and RSA-OAEP(SHA-1, MGF1-SHA-1, empty label)
// encrypts each one under pub, concatenating the ciphertexts. The result's
// length is always a multiple of pub.Size(). A zero-length pt still
// produces exactly one block.
func RSAEncryptOAEPChunks(pt []byte, pub *rsa.PublicKey) ([]byte, error) {
	maxLen := rsaOAEPMaxPlaintext(pub)
	if maxLen <= 0 {
		return nil, fmt.Errorf("primitives: rsa key too small for OAEP-SHA1 (%d bits)", pub.Size()*8)
	}

	chunks := splitChunks(pt, maxLen)

	out := make([]byte, 0, pub.Size()*len(chunks))
	for _, chunk := range chunks {
		ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, chunk, nil)
		if err != nil {
			return nil, fmt.Errorf("primitives: rsa-oaep encrypt: %w", err)
		}
		out = append(out, ct...)
	}
	return out, nil
}

// splitChunks splits pt into consecutive chunks of at most maxLen bytes,
// always returning at least one (possibly empty) chunk.
func splitChunks(pt []byte, maxLen int) [][]byte {
	if len(pt) == 0 {
		return [][]byte{pt}
	}
	var chunks [][]byte
	for offset := 0; offset < len(pt); offset += maxLen {
		end := offset + maxLen
		if end > len(pt) {
			end = len(pt)
		}
		chunks = append(chunks, pt[offset:end])
	}
	return chunks
}

// RSADecryptOAEPBlock decrypts a single RSA-OAEP(SHA-1, empty label) block.
// Any failure (padding, key mismatch) is reported as ErrRSABlock so callers
// in the trial-decryption loop can treat it uniformly as "not my key".
func RSADecryptOAEPBlock(ct []byte, priv *rsa.PrivateKey) ([]byte, error) {
	pt, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, priv, ct, nil)
	if err != nil {
		return nil, ErrRSABlock
	}
	return pt, nil
}

// pssOptions is the fixed RSASSA-PSS parameterization FLOD uses: SHA-1,
// MGF1-SHA-1 (implied by rsa.SignPSS/VerifyPSS using the same Hash for
// both), maximum salt length.
func pssOptions() *rsa.PSSOptions {
	return &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA1,
	}
}

// RSASign produces an RSASSA-PSS(SHA-1, MGF1-SHA-1, maximum salt length)
// signature over msg using priv.
func RSASign(msg []byte, priv *rsa.PrivateKey) ([]byte, error) {
	digest := sha1.Sum(msg) //nolint:gosec
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA1, digest[:], pssOptions())
	if err != nil {
		return nil, fmt.Errorf("primitives: rsa-pss sign: %w", err)
	}
	return sig, nil
}

// RSAVerify reports whether sig is a valid RSASSA-PSS(SHA-1, MGF1-SHA-1)
// signature over msg under pub.
func RSAVerify(msg, sig []byte, pub *rsa.PublicKey) bool {
	digest := sha1.Sum(msg) //nolint:gosec
	err := rsa.VerifyPSS(pub, crypto.SHA1, digest[:], sig, pssOptions())
	return err == nil
}
