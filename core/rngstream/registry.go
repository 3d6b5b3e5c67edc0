package rngstream

import (
	"encoding/binary"
	"sort"

	"markenz/core/canon"
	"markenz/core/digest"
)

type streamKey struct {
	sub Subsystem
	id  uint64
}

// Registry is the central, lazily-populated set of RNG streams owned by
// world state (spec §4.2 "Stream access"). First access for a
// (subsystem, stream-id) pair constructs and stores the stream; later
// accesses return the same stream so its draw ordinal keeps advancing.
// No code outside the authority pipeline is expected to reach a Registry.
type Registry struct {
	genesisSeed uint64
	rootKey     [32]byte
	streams     map[streamKey]*Stream
	audit       *AuditLog
	tick        uint64
}

// NewRegistry derives the 256-bit root key from the genesis seed (spec
// §4.2 "Stream derivation": "digesting the 8-byte seed into a 32-byte key")
// and returns an empty registry.
func NewRegistry(genesisSeed uint64) *Registry {
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], genesisSeed)
	return &Registry{
		genesisSeed: genesisSeed,
		rootKey:     digest.Sum(seedBuf[:]),
		streams:     make(map[streamKey]*Stream),
		audit:       NewAuditLog(),
	}
}

// SetTick records the tick that subsequent draws should be attributed to in
// the audit log. The tick loop calls this once per tick before running the
// authority pipeline.
func (r *Registry) SetTick(tick uint64) { r.tick = tick }

// stream returns the stream for (sub, id), constructing it on first access.
func (r *Registry) stream(sub Subsystem, id uint64) *Stream {
	key := streamKey{sub, id}
	if s, ok := r.streams[key]; ok {
		return s
	}
	s := newStream(r.rootKey, sub, id)
	r.streams[key] = s
	return s
}

// DrawU64 draws the next 64-bit value from (sub, id) and records it in the
// audit log under callsite. callsite is a short "file:line"-style tag
// identifying the call, per spec §4.2.
func (r *Registry) DrawU64(sub Subsystem, id uint64, callsite string) uint64 {
	s := r.stream(sub, id)
	v := s.NextU64()
	r.audit.record(r.tick, sub, id, callsite, v, s.Ordinal())
	return v
}

// DrawU32 draws the next 32-bit value from (sub, id) and audits it.
func (r *Registry) DrawU32(sub Subsystem, id uint64, callsite string) uint32 {
	s := r.stream(sub, id)
	v := s.NextU32()
	r.audit.record(r.tick, sub, id, callsite, uint64(v), s.Ordinal())
	return v
}

// DrawF64 draws the next float64 in [0, 1) from (sub, id) and audits the
// underlying 64-bit draw that produced it.
func (r *Registry) DrawF64(sub Subsystem, id uint64, callsite string) float64 {
	s := r.stream(sub, id)
	lo := uint64(s.NextU32())
	hiWord := s.NextU32()
	raw := (uint64(hiWord) << 32) | lo
	v := float64(raw>>11) * (1.0 / 9007199254740992.0)
	r.audit.record(r.tick, sub, id, callsite, raw, s.Ordinal())
	return v
}

// DrawInRange draws a deterministic value in [lo, hi] from (sub, id) and
// audits it.
func (r *Registry) DrawInRange(sub Subsystem, id uint64, lo, hi int64, callsite string) int64 {
	s := r.stream(sub, id)
	v := s.NextInRange(lo, hi)
	r.audit.record(r.tick, sub, id, callsite, uint64(v), s.Ordinal())
	return v
}

// AuditLog returns the registry's append-only draw log.
func (r *Registry) AuditLog() *AuditLog { return r.audit }

// StreamCount returns the number of streams constructed so far.
func (r *Registry) StreamCount() int { return len(r.streams) }

// HasStream reports whether (sub, id) has been accessed yet.
func (r *Registry) HasStream(sub Subsystem, id uint64) bool {
	_, ok := r.streams[streamKey{sub, id}]
	return ok
}

// GenesisSeed returns the genesis seed this registry was derived from.
func (r *Registry) GenesisSeed() uint64 { return r.genesisSeed }

func (r *Registry) sortedKeys() []streamKey {
	keys := make([]streamKey, 0, len(r.streams))
	for k := range r.streams {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sub != keys[j].sub {
			return keys[i].sub < keys[j].sub
		}
		return keys[i].id < keys[j].id
	})
	return keys
}

// EncodeState canonically encodes the registry's resumable state: the
// genesis seed and, for every constructed stream (in a fixed total order,
// never Go's unordered map iteration), its subsystem, stream-id, and word
// position. The audit log is intentionally excluded — it is diagnostic,
// not authoritative, per spec §4.2.
func (r *Registry) EncodeState() []byte {
	e := canon.NewEncoder()
	e.U64(r.genesisSeed)
	keys := r.sortedKeys()
	e.U64(uint64(len(keys)))
	for _, k := range keys {
		s := r.streams[k]
		e.U64(uint64(k.sub))
		e.U64(k.id)
		e.U64(s.Ordinal())
	}
	return e.Bytes()
}

// DecodeRegistryState reconstructs a Registry from bytes written by
// EncodeState, fast-forwarding each stream to its snapshotted word
// position so subsequent draws continue exactly where the original run
// left off — the determinism property spec §8 invariant 4 depends on.
func DecodeRegistryState(data []byte) (*Registry, error) {
	d := canon.NewDecoder(data)
	seed := d.U64()
	r := NewRegistry(seed)
	count := d.U64()
	for i := uint64(0); i < count; i++ {
		sub := Subsystem(d.U64())
		id := d.U64()
		words := d.U64()
		if d.Err() != nil {
			return nil, d.Err()
		}
		s := r.stream(sub, id)
		s.fastForward(words)
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return r, nil
}
