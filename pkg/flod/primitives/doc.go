// Package primitives is the thin, assumed-correct cryptographic layer FLOD
// is built on: AES-128-CBC/PKCS7, HMAC-SHA1, chunked RSA-OAEP, RSASSA-PSS,
// and a CSPRNG. Nothing here understands the FLOD wire format; the codec
// packages above call into this layer and nowhere else, mirroring the
// "thin contracts over cryptographic primitives" shape the teacher's
// kem/rsa package uses.
package primitives
