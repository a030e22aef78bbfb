// Package wire defines the DER-encoded ASN.1 structures that make up a FLOD
// message packet and the constants (OIDs, sizes) that parameterize them.
//
// The five structures here (MessagePacket, MPHeaderContainer, MPHeader,
// MPContentContainer/MPContent, MPHMACContainer) are encoded and decoded
// with the stdlib encoding/asn1 package, which only speaks definite-length
// DER/BER and so rejects indefinite-length encodings by construction.
package wire
