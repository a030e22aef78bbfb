package wire

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
)

// Fixed field sizes mandated by the envelope (spec §3 invariants).
const (
	IdentificationStringSize = 4  // "FLOD"
	PGPKeyIDSize             = 8
	HMACKeySize              = 20
	AESKeySize               = 16
	IVSize                   = 16
	DigestSize               = 20
)

// IdentificationString is the literal 4-byte sentinel 0x46 0x4C 0x4F 0x44
// ("FLOD") that marks a successfully decrypted header.
var IdentificationString = []byte("FLOD")

// nullAlgorithmIdentifier builds a pkix.AlgorithmIdentifier with NULL
// parameters, the only form FLOD uses.
func nullAlgorithmIdentifier(oid asn1.ObjectIdentifier) pkix.AlgorithmIdentifier {
	return pkix.AlgorithmIdentifier{
		Algorithm:  oid,
		Parameters: asn1.NullRawValue,
	}
}

// NewRSAESOAEPIdentifier returns the AlgorithmIdentifier carried in
// MPHeaderContainer.
func NewRSAESOAEPIdentifier() pkix.AlgorithmIdentifier {
	return nullAlgorithmIdentifier(OIDRSAESOAEP)
}

// NewRSASSAPSSIdentifier returns the AlgorithmIdentifier used when a header
// carries a real signature.
func NewRSASSAPSSIdentifier() pkix.AlgorithmIdentifier {
	return nullAlgorithmIdentifier(OIDRSASSAPSS)
}

// NewNoSignIdentifier returns the AlgorithmIdentifier used when a header
// carries decoy signature bytes.
func NewNoSignIdentifier() pkix.AlgorithmIdentifier {
	return nullAlgorithmIdentifier(OIDNoSign)
}

// NewAES128CBCIdentifier returns the AlgorithmIdentifier carried in
// MPContentContainer.
func NewAES128CBCIdentifier() pkix.AlgorithmIdentifier {
	return nullAlgorithmIdentifier(OIDAES128CBC)
}

// NewSHA1Identifier returns the AlgorithmIdentifier carried in
// MPHMACContainer.
func NewSHA1Identifier() pkix.AlgorithmIdentifier {
	return nullAlgorithmIdentifier(OIDSHA1)
}

// MessagePacket is the outer container of a FLOD packet (spec §3.1).
type MessagePacket struct {
	ProtocolVersion int
	HeaderBlock     MPHeaderContainer
	HMACBlock       MPHMACContainer
	ContentBlock    MPContentContainer
}

// MPHeaderContainer carries the RSA-OAEP-encrypted header (spec §3.2).
type MPHeaderContainer struct {
	EncryptionAlgorithm pkix.AlgorithmIdentifier
	EncryptedHeader     []byte
}

// MPHeader is the plaintext of the encrypted header (spec §3.3). It is
// never transmitted on its own — only as the plaintext recovered by
// decrypting MPHeaderContainer.EncryptedHeader.
type MPHeader struct {
	IdentificationString []byte
	SignatureAlgorithm   pkix.AlgorithmIdentifier
	PGPKeyID             []byte
	Signature            []byte
	HMACKey              []byte
	AESKey               []byte
}

// MPContentContainer is the AES-encrypted payload block (spec §3.4).
type MPContentContainer struct {
	InitializationVector []byte
	EncryptionAlgorithm   pkix.AlgorithmIdentifier
	EncryptedContent      []byte
}

// MPContent is the plaintext of MPContentContainer.EncryptedContent.
type MPContent struct {
	Timestamp string
	Content   string `asn1:"utf8"`
}

// MPHMACContainer is the integrity tag over the DER encoding of
// MPContentContainer (spec §3.5).
type MPHMACContainer struct {
	DigestAlgorithm pkix.AlgorithmIdentifier
	Digest          []byte
}

// Marshal DER-encodes v using the definite-length rules encoding/asn1
// always applies.
func Marshal(v any) ([]byte, error) {
	der, err := asn1.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal: %w", err)
	}
	return der, nil
}

// Unmarshal DER-decodes der into v, requiring that the entire input is
// consumed (no trailing garbage).
func Unmarshal(der []byte, v any) error {
	rest, err := asn1.Unmarshal(der, v)
	if err != nil {
		return fmt.Errorf("wire: unmarshal: %w", err)
	}
	if len(rest) != 0 {
		return fmt.Errorf("wire: unmarshal: %d trailing bytes", len(rest))
	}
	return nil
}

// IdentificationOffset computes the offset, inside a freshly decrypted
// first RSA block of MPHeader, at which the 4-byte identificationString
// literal should appear (spec §4.2).
//
// MPHeader is a DER SEQUENCE, so block[0] is the SEQUENCE tag and block[1]
// is its length octet. identificationString is the first field, encoded as
// an OCTET STRING with its own short tag+length header:
//
//   - short-form SEQUENCE length (block[1]&0x80 == 0): the SEQUENCE header
//     is 2 bytes, the OCTET STRING tag+length is another 2 bytes, so the
//     content starts at offset 4.
//   - long-form SEQUENCE length: the SEQUENCE length occupies
//     block[1]&0x7F additional octets, pushing everything out by that
//     many bytes.
func IdentificationOffset(block []byte) (int, error) {
	const msbMask = 0x80
	const lenSpecMask = 0x7F

	if len(block) < 2 {
		return 0, fmt.Errorf("wire: block too short to hold a length octet")
	}

	lenSpec := block[1]
	if lenSpec&msbMask == msbMask {
		lenOfLen := int(lenSpec & lenSpecMask)
		return 4 + lenOfLen, nil
	}
	return 4, nil
}
