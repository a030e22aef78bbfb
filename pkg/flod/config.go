package flod

import (
	"time"

	"github.com/flod-project/flod/pkg/flod/logging"
)

// MinRSAKeyBits is the smallest recipient RSA modulus Assemble will accept.
// Disassemble does not check key sizes. 1024 bits is already weak for RSA-OAEP/PSS; this is a floor,
// not a recommendation — see spec §8's "minimum RSA key size" boundary.
const MinRSAKeyBits = 1024

// Options carries the knobs Assemble and Disassemble accept beyond their
// required arguments. The zero value is a safe default: system clock,
// discarded logging, MinRSAKeyBits enforced.
//
// This mirrors the teacher's Config placeholder-struct idiom: a small,
// all-optional struct threaded through the call rather than package-level
// state.
type Options struct {
	// Logger receives structured progress/diagnostic events. Defaults to
	// logging.Noop() when nil.
	Logger logging.Logger

	// Now overrides the clock used to stamp MPContent.Timestamp and to
	// compare against it in tests. Defaults to time.Now when nil.
	Now func() time.Time

	// MinRSAKeyBits overrides MinRSAKeyBits for callers that need a
	// stricter (never weaker — values below MinRSAKeyBits are ignored)
	// floor.
	MinRSAKeyBits int
}

func (o Options) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Noop()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) minRSAKeyBits() int {
	if o.MinRSAKeyBits > MinRSAKeyBits {
		return o.MinRSAKeyBits
	}
	return MinRSAKeyBits
}
