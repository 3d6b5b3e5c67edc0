package core

import (
	"fmt"

	"markenz/core/canon"
)

// PayloadKind is the closed enumeration of input-event payload tags (spec
// §3 "Input event"). Go has no native tagged union, so Payload below
// carries every kind's fields and Kind selects which are meaningful.
type PayloadKind uint8

const (
	PayloadBootEvent PayloadKind = iota
	PayloadMove
	PayloadChat
	PayloadGather
	PayloadCraft
	PayloadMine
	PayloadBuild
	PayloadTickAdvance
	PayloadInputEventSubmitted
	PayloadObservationEvent
	PayloadSnapshotTaken
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadBootEvent:
		return "BootEvent"
	case PayloadMove:
		return "Move"
	case PayloadChat:
		return "Chat"
	case PayloadGather:
		return "Gather"
	case PayloadCraft:
		return "Craft"
	case PayloadMine:
		return "Mine"
	case PayloadBuild:
		return "Build"
	case PayloadTickAdvance:
		return "TickAdvance"
	case PayloadInputEventSubmitted:
		return "InputEventSubmitted"
	case PayloadObservationEvent:
		return "ObservationEvent"
	case PayloadSnapshotTaken:
		return "SnapshotTaken"
	default:
		return fmt.Sprintf("PayloadKind(%d)", uint8(k))
	}
}

// IsSystemOnly reports whether this payload kind may only originate from
// source-agent-id 0 (spec §6: "system-only, source = 0").
func (k PayloadKind) IsSystemOnly() bool {
	switch k {
	case PayloadBootEvent, PayloadTickAdvance, PayloadInputEventSubmitted,
		PayloadObservationEvent, PayloadSnapshotTaken:
		return true
	default:
		return false
	}
}

// Payload is the tagged-union body of an InputEvent. Only the fields
// relevant to Kind are meaningful; the rest are zero and ignored.
type Payload struct {
	Kind PayloadKind

	// Move
	X, Y, Z float64

	// Chat
	Text string

	// Gather
	ResourceType string

	// Craft
	RecipeID uint64

	// Build
	BuildingType string
}

// MovePayload constructs a Move payload.
func MovePayload(x, y, z float64) Payload { return Payload{Kind: PayloadMove, X: x, Y: y, Z: z} }

// ChatPayload constructs a Chat payload.
func ChatPayload(text string) Payload { return Payload{Kind: PayloadChat, Text: text} }

// GatherPayload constructs a Gather payload.
func GatherPayload(resourceType string) Payload {
	return Payload{Kind: PayloadGather, ResourceType: resourceType}
}

// CraftPayload constructs a Craft payload.
func CraftPayload(recipeID uint64) Payload { return Payload{Kind: PayloadCraft, RecipeID: recipeID} }

// MinePayload constructs a Mine payload.
func MinePayload() Payload { return Payload{Kind: PayloadMine} }

// BuildPayload constructs a Build payload.
func BuildPayload(buildingType string) Payload {
	return Payload{Kind: PayloadBuild, BuildingType: buildingType}
}

// BootEventPayload constructs the genesis system payload.
func BootEventPayload() Payload { return Payload{Kind: PayloadBootEvent} }

// TickAdvancePayload constructs a system tick-advance payload.
func TickAdvancePayload() Payload { return Payload{Kind: PayloadTickAdvance} }

// moveBoundLow and moveBoundHigh are the inclusive coordinate bounds for
// Move payloads (spec §6).
const (
	moveBoundLow  = 0.0
	moveBoundHigh = 100.0
)

// CheckBounds validates payload-specific coordinate bounds (spec §6
// "Bounds"). Only Move declares bounds today.
func (p Payload) CheckBounds() error {
	if p.Kind != PayloadMove {
		return nil
	}
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if v < moveBoundLow || v > moveBoundHigh {
			return fmt.Errorf("move coordinate %v out of bounds [%v, %v]", v, moveBoundLow, moveBoundHigh)
		}
	}
	return nil
}

// encode writes the payload's canonical encoding: a one-byte discriminant
// followed by only the fields that kind declares, in fixed field order.
func (p Payload) encode(e *canon.Encoder) {
	e.U8(uint8(p.Kind))
	switch p.Kind {
	case PayloadMove:
		e.F64(p.X).F64(p.Y).F64(p.Z)
	case PayloadChat:
		e.String(p.Text)
	case PayloadGather:
		e.String(p.ResourceType)
	case PayloadCraft:
		e.U64(p.RecipeID)
	case PayloadBuild:
		e.String(p.BuildingType)
	case PayloadMine, PayloadBootEvent, PayloadTickAdvance,
		PayloadInputEventSubmitted, PayloadObservationEvent, PayloadSnapshotTaken:
		// no payload fields
	}
}

func decodePayload(d *canon.Decoder) Payload {
	kind := PayloadKind(d.U8())
	p := Payload{Kind: kind}
	switch kind {
	case PayloadMove:
		p.X, p.Y, p.Z = d.F64(), d.F64(), d.F64()
	case PayloadChat:
		p.Text = d.String()
	case PayloadGather:
		p.ResourceType = d.String()
	case PayloadCraft:
		p.RecipeID = d.U64()
	case PayloadBuild:
		p.BuildingType = d.String()
	}
	return p
}
