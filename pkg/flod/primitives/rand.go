package primitives

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes returns cryptographically random byte strings with the
// requested lengths, in order. Assembly calls this once with
// []int{16, 16, 20} to draw IV, AESKey, HMACKey (spec §4.1).
func RandomBytes(reader io.Reader, sizes []int) ([][]byte, error) {
	if reader == nil {
		reader = rand.Reader
	}

	out := make([][]byte, len(sizes))
	for i, size := range sizes {
		if size < 0 {
			return nil, fmt.Errorf("primitives: negative size at index %d", i)
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("primitives: random bytes: %w", err)
		}
		out[i] = buf
	}
	return out, nil
}
