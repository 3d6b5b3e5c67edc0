// Package digest provides the single 256-bit hash primitive used
// everywhere in the kernel: world-state hashing, event-log chaining, agent
// content fingerprints, and snapshot checksums all route through here so
// that "the same primitive" (spec §4.1) is never a per-caller choice.
package digest

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Size is the digest length in bytes (256 bits).
const Size = 32

// Hash is a 256-bit cryptographic digest.
type Hash [Size]byte

// Zero is the all-zero digest, used as the prev-hash of the genesis event.
var Zero Hash

// IsZero reports whether h is the all-zero digest.
func (h Hash) IsZero() bool { return h == Zero }

// String renders h as lowercase hex, for logging.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns a copy of the digest's bytes.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// Sum computes the digest of a single byte slice.
func Sum(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// Chain computes the digest over the concatenation of parts, in order.
// Used for composite hashes ("the hash of a composite is the digest over
// the concatenation of canonically serialized components, always in
// declared field order" — spec §4.1).
func Chain(parts ...[]byte) Hash {
	h := blake3.New(Size, nil)
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// FromBytes builds a Hash from a byte slice of exactly Size bytes.
func FromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != Size {
		return h, false
	}
	copy(h[:], b)
	return h, true
}
