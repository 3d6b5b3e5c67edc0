package rngstream

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"markenz/core/digest"
)

// Stream is one isolated keystream, addressed by (Subsystem, stream-id).
// It wraps a RFC 8439 ChaCha20 cipher (20-round permutation, 96-bit nonce)
// keyed from the genesis root key — spec §4.2's "subsystem-isolated
// cryptographic RNG". Two streams with different (subsystem, stream-id)
// pairs are statistically and structurally independent because each gets
// its own nonce derived from both fields; neither stream observes the
// other's draws or position, matching spec §4.2's isolation invariant.
type Stream struct {
	subsystem   Subsystem
	streamID    uint64
	rootKey     [32]byte
	cipher      *chacha20.Cipher
	wordsDrawn  uint64 // count of 4-byte keystream words consumed; the stream's full resumable position
}

// newStream derives this stream's nonce and constructs its cipher.
// Nonce = first 12 bytes of hash(rootKey || subsystem_u64_le || stream_id_u64_le).
func newStream(rootKey [32]byte, subsystem Subsystem, streamID uint64) *Stream {
	s := &Stream{subsystem: subsystem, streamID: streamID, rootKey: rootKey}
	s.cipher = newCipher(rootKey, subsystem, streamID)
	return s
}

func newCipher(rootKey [32]byte, subsystem Subsystem, streamID uint64) *chacha20.Cipher {
	var subBuf, idBuf [8]byte
	binary.LittleEndian.PutUint64(subBuf[:], uint64(subsystem))
	binary.LittleEndian.PutUint64(idBuf[:], streamID)

	nonceSeed := digest.Chain(rootKey[:], subBuf[:], idBuf[:])
	var nonce [chacha20.NonceSize]byte
	copy(nonce[:], nonceSeed[:chacha20.NonceSize])

	c, err := chacha20.NewUnauthenticatedCipher(rootKey[:], nonce[:])
	if err != nil {
		// rootKey is always 32 bytes and nonce always 12: this can only
		// fail if those invariants are violated, which is a programming
		// error, not a runtime condition callers can recover from.
		panic(fmt.Sprintf("rngstream: cipher init failed: %v", err))
	}
	return c
}

func (s *Stream) nextWord() uint32 {
	var buf [4]byte
	s.cipher.XORKeyStream(buf[:], buf[:])
	s.wordsDrawn++
	return binary.LittleEndian.Uint32(buf[:])
}

// NextU32 returns the next 32-bit keystream word.
func (s *Stream) NextU32() uint32 { return s.nextWord() }

// NextU64 returns the next 64-bit keystream word (low word drawn first).
func (s *Stream) NextU64() uint64 {
	lo := uint64(s.nextWord())
	hi := uint64(s.nextWord())
	return (hi << 32) | lo
}

// NextF64 returns a float64 in [0, 1), using the top 53 bits of a keystream
// draw for full double precision.
func (s *Stream) NextF64() float64 {
	return float64(s.NextU64()>>11) * (1.0 / 9007199254740992.0)
}

// NextInRange returns a deterministic value in [lo, hi], inclusive, derived
// from NextU64. Used for terrain generation and similar bounded draws.
func (s *Stream) NextInRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo + 1)
	return lo + int64(s.NextU64()%span)
}

// Subsystem returns the subsystem this stream belongs to.
func (s *Stream) Subsystem() Subsystem { return s.subsystem }

// StreamID returns the stream-id within the subsystem.
func (s *Stream) StreamID() uint64 { return s.streamID }

// Ordinal returns the number of 32-bit words drawn so far from this stream.
// This is also the stream's resumable position: restoring a stream replays
// this many words from a fresh cipher before resuming live draws.
func (s *Stream) Ordinal() uint64 { return s.wordsDrawn }

// fastForward rebuilds the stream's cipher from scratch and discards
// wordCount keystream words, bringing it to the exact position a prior run
// had reached at snapshot time. Used only by DecodeRegistryState.
func (s *Stream) fastForward(wordCount uint64) {
	s.cipher = newCipher(s.rootKey, s.subsystem, s.streamID)
	s.wordsDrawn = 0
	if wordCount == 0 {
		return
	}
	discard := make([]byte, wordCount*4)
	s.cipher.XORKeyStream(discard, discard)
	s.wordsDrawn = wordCount
}
