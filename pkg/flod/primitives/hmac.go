package primitives

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // SHA-1 is fixed by the FLOD wire format, not a free choice.
)

// HMACSum computes HMAC-SHA1(data, key), always returning 20 bytes.
func HMACSum(data, key []byte) []byte {
	mac := hmac.New(sha1.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HMACEqual reports whether tag is the correct HMAC-SHA1 of data under key,
// comparing in constant time.
func HMACEqual(data, key, tag []byte) bool {
	return hmac.Equal(HMACSum(data, key), tag)
}
