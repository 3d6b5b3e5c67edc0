package core

import (
	"markenz/core/canon"
	"markenz/core/digest"
)

// ObservationEvent is the read-side artifact of a committed transition
// (spec §4.9 / §3 "Observation event"): tick, the kind of input event that
// caused it, a canonically serialized payload whose shape depends on that
// kind, and a hash of that payload so identical transitions are provably
// byte-identical observations.
type ObservationEvent struct {
	Tick        uint64
	Kind        PayloadKind
	CauseHash   digest.Hash // hash of the InputEvent this observation derives from
	Payload     []byte
	PayloadHash digest.Hash
}

// transition captures a single event's before/after state slice, the input
// to observation derivation (spec §4.5 pass 5 "stage a state-transition
// record").
type transition struct {
	event    InputEvent
	agentID  uint64
	oldPos   [3]float64
	newPos   [3]float64
	hadAgent bool
}

// observeTransition derives an ObservationEvent from a transition record,
// grounded on original_source's ObservationEvent::from_transition. Only
// Move carries positional before/after data today; every other kind emits
// a payload of just the event hash, sufficient to prove "this happened".
func observeTransition(t transition) ObservationEvent {
	e := canon.NewEncoder()
	switch t.event.Payload.Kind {
	case PayloadMove:
		e.U64(t.agentID)
		e.F64(t.oldPos[0]).F64(t.oldPos[1]).F64(t.oldPos[2])
		e.F64(t.newPos[0]).F64(t.newPos[1]).F64(t.newPos[2])
	default:
		e.Hash([32]byte(t.event.Hash))
	}
	payload := e.Bytes()

	return ObservationEvent{
		Tick:        t.event.Tick,
		Kind:        t.event.Payload.Kind,
		CauseHash:   t.event.Hash,
		Payload:     payload,
		PayloadHash: digest.Sum(payload),
	}
}
