package rngstream

// DrawRecord captures everything needed to forensically reconstruct one RNG
// draw (spec §4.2's audit log). It exists for forensics and replay
// cross-checking, never for re-seeding — the stream's own position is the
// only thing that determines its next value.
type DrawRecord struct {
	Tick     uint64
	Subsystem Subsystem
	StreamID  uint64
	Callsite  string
	Value     uint64
	Ordinal   uint64
}

// AuditLog is an append-only, per-run record of every draw made through a
// Registry. It is replayable (iterated in append order) but is not
// consulted by the kernel to influence any future draw.
type AuditLog struct {
	records []DrawRecord
}

// NewAuditLog returns an empty audit log.
func NewAuditLog() *AuditLog { return &AuditLog{} }

func (a *AuditLog) record(tick uint64, sub Subsystem, streamID uint64, callsite string, value uint64, ordinal uint64) {
	a.records = append(a.records, DrawRecord{
		Tick: tick, Subsystem: sub, StreamID: streamID,
		Callsite: callsite, Value: value, Ordinal: ordinal,
	})
}

// Records returns all recorded draws, in append order.
func (a *AuditLog) Records() []DrawRecord { return a.records }

// ForTick returns the draws recorded during a specific tick, in the order
// they were made.
func (a *AuditLog) ForTick(tick uint64) []DrawRecord {
	var out []DrawRecord
	for _, r := range a.records {
		if r.Tick == tick {
			out = append(out, r)
		}
	}
	return out
}

// ForStream returns the draws recorded for one (subsystem, stream-id) pair,
// in draw order.
func (a *AuditLog) ForStream(sub Subsystem, streamID uint64) []DrawRecord {
	var out []DrawRecord
	for _, r := range a.records {
		if r.Subsystem == sub && r.StreamID == streamID {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of recorded draws.
func (a *AuditLog) Len() int { return len(a.records) }

// Clear discards all recorded draws. Nothing in the kernel calls it: a
// registry restored from a snapshot already starts with an empty log.
func (a *AuditLog) Clear() { a.records = nil }
