package core

import (
	"fmt"

	"markenz/core/canon"
	"markenz/core/digest"
)

// InputEvent is the sole unit of state mutation (spec §3 "Input event"):
// every write to world state enters through one of these, in hash-chain
// order. Fields are hashed in declared order, per Encode.
type InputEvent struct {
	Tick         uint64
	SourceAgentID uint64
	Sequence     uint64
	Payload      Payload
	Hash         digest.Hash
	PrevHash     digest.Hash
}

// NewInputEvent builds an InputEvent linked to prevHash and stamps its own
// hash. Direct struct literals should be avoided outside tests: the hash
// field must always be derived from the other fields, never hand-set.
func NewInputEvent(tick, sourceAgentID, sequence uint64, payload Payload, prevHash digest.Hash) InputEvent {
	ev := InputEvent{
		Tick:          tick,
		SourceAgentID: sourceAgentID,
		Sequence:      sequence,
		Payload:       payload,
		PrevHash:      prevHash,
	}
	ev.Hash = ev.ComputeHash()
	return ev
}

// Encode writes the event's canonical byte representation (spec §4.1):
// tick, source, sequence, payload, prev-hash — in that declared order.
// The event's own Hash field is deliberately excluded: it is derived FROM
// this encoding, not part of it.
func (ev InputEvent) Encode() []byte {
	e := canon.NewEncoder()
	e.U64(ev.Tick).U64(ev.SourceAgentID).U64(ev.Sequence)
	ev.Payload.encode(e)
	e.Hash([32]byte(ev.PrevHash))
	return e.Bytes()
}

// ComputeHash derives this event's hash from its fields via the single
// canonical hash primitive (spec §4.1).
func (ev InputEvent) ComputeHash() digest.Hash {
	return digest.Sum(ev.Encode())
}

// Validate enforces the schema rules an event must satisfy before it may
// enter the chain (spec §4.5 pass 1 "schema validation"), grounded on
// original_source's InputEvent::validate.
func (ev InputEvent) Validate() error {
	if ev.Tick == 0 && ev.Payload.Kind != PayloadBootEvent {
		return fmt.Errorf("input event: tick cannot be zero for non-boot payload %s", ev.Payload.Kind)
	}
	if ev.SourceAgentID == 0 && !ev.Payload.Kind.IsSystemOnly() {
		return fmt.Errorf("input event: source agent id cannot be zero for payload %s", ev.Payload.Kind)
	}
	if ev.SourceAgentID != 0 && ev.Payload.Kind.IsSystemOnly() {
		return fmt.Errorf("input event: payload %s is system-only, got source agent id %d", ev.Payload.Kind, ev.SourceAgentID)
	}
	if ev.Hash.IsZero() {
		return fmt.Errorf("input event: hash cannot be zero")
	}
	if ev.Payload.Kind == PayloadBootEvent && !ev.PrevHash.IsZero() {
		return fmt.Errorf("input event: boot event must have zero prev hash")
	}
	return nil
}

// VerifyHashLink reports whether ev's recorded prev-hash matches expected,
// the chain-linkage check of spec §4.5 pass 2.
func (ev InputEvent) VerifyHashLink(expected digest.Hash) bool {
	return ev.PrevHash == expected
}

// VerifyIntegrity recomputes ev's hash and reports whether it matches the
// stored Hash field, detecting any post-creation tampering.
func (ev InputEvent) VerifyIntegrity() bool {
	return ev.Hash == ev.ComputeHash()
}
