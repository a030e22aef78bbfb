package wire

import "encoding/asn1"

// Fixed algorithm-identifier OIDs carried in a FLOD packet. All of them use
// NULL parameters; FLOD does not use the AlgorithmIdentifier parameters
// field for anything.
var (
	// OIDRSAESOAEP identifies RSAES-OAEP (RFC 8017) as used to wrap the
	// MPHeader.
	OIDRSAESOAEP = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 7}

	// OIDRSASSAPSS identifies RSASSA-PSS (RFC 8017) as used for the
	// optional sender signature.
	OIDRSASSAPSS = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}

	// OIDSHA1 identifies SHA-1, used both as the HMAC digest algorithm and
	// as the OAEP/PSS hash.
	OIDSHA1 = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}

	// OIDAES128CBC identifies AES-128 in CBC mode, used for the content
	// block.
	OIDAES128CBC = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}

	// OIDNoSign is a project-specific sentinel OID signalling that the
	// header's signature and PGPKeyID fields are decoy bytes rather than a
	// real signature. It lives in a private enterprise-number arc so it
	// never collides with a registered algorithm OID.
	OIDNoSign = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 55539, 1, 0}
)
