package flod

import "runtime"

// zeroizeBytes overwrites buf with zeros. It is a best-effort hygiene
// measure: session keys (AESKey, HMACKey, IV) are scrubbed before
// Assemble/Disassemble return, per spec §5 ("session keys should be
// overwritten or released before the function returns"). The Go garbage
// collector, not this function, is what ultimately reclaims the memory.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead-store elimination of the loop above, golang/go#33325.
	runtime.KeepAlive(buf)
}
