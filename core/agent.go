package core

import (
	"sort"

	"markenz/core/canon"
	"markenz/core/digest"
)

// Vitals is an agent's biological state bundle (spec §3 "Agent": "energy,
// hunger, exhaustion, health, metabolic and recovery rates"), grounded on
// original_source/crates/world/src/bio/state.rs::BioState — the canonical
// six-field bundle, not the looser {health, energy, mood} duplicate
// original_source/apps/engine/src/genesis.rs carries for its own display
// purposes. All six fields are floats in [0, 100] except the two rates,
// treated as opaque IEEE-754 bit patterns across ticks per spec §4.1.
type Vitals struct {
	Energy        float64
	Hunger        float64
	Exhaustion    float64
	Health        float64
	MetabolicRate float64
	RecoveryRate  float64
}

// Alive reports whether an agent with these vitals may act at all.
func (v Vitals) Alive() bool { return v.Health > 0 }

// HasEnergy reports whether v can afford an action costing cost energy.
func (v Vitals) HasEnergy(cost float64) bool { return v.Energy >= cost }

// ItemKind enumerates inventory item categories (original_source's
// inventory.rs::ItemType).
type ItemKind uint8

const (
	ItemTool ItemKind = iota
	ItemResource
	ItemFood
	ItemVehicle
	ItemBuildingBlock
)

func (k ItemKind) String() string {
	switch k {
	case ItemTool:
		return "Tool"
	case ItemResource:
		return "Resource"
	case ItemFood:
		return "Food"
	case ItemVehicle:
		return "Vehicle"
	case ItemBuildingBlock:
		return "BuildingBlock"
	default:
		return "Unknown"
	}
}

// InventoryItem is one entry in an agent's inventory (spec §3 "ordered
// inventory mapping id → asset"), grounded on
// original_source/crates/world/src/inventory.rs::Item (id, item_type,
// quantity, durability).
type InventoryItem struct {
	ID         uint64
	Kind       ItemKind
	Quantity   uint32
	Durability uint32
}

// NewInventoryItem constructs an inventory entry.
func NewInventoryItem(id uint64, kind ItemKind, quantity, durability uint32) InventoryItem {
	return InventoryItem{ID: id, Kind: kind, Quantity: quantity, Durability: durability}
}

// Agent is a world-simulated actor. ContentHash is the agent's identity
// fingerprint (spec §9 resolved: blake3 over name || canonical-encoding of
// the agent with ContentHash zeroed), recomputed by Rehash whenever mutable
// fields change — mirroring original_source's apply_identity_fingerprint /
// move_to state-hash refresh.
type Agent struct {
	ID          uint64
	Name        string
	Position    [3]float64
	Inventory   map[uint64]InventoryItem
	Vitals      Vitals
	ContentHash digest.Hash
}

// NewAgent constructs an agent at genesis vitals — energy 100, hunger 0,
// exhaustion 0, health 100, metabolic rate 0.5/tick, recovery rate
// 0.1/tick, per original_source's BioState::new() — and stamps its
// identity fingerprint.
func NewAgent(id uint64, name string, position [3]float64) Agent {
	a := Agent{
		ID:        id,
		Name:      name,
		Position:  position,
		Inventory: make(map[uint64]InventoryItem),
		Vitals: Vitals{
			Energy:        100,
			Hunger:        0,
			Exhaustion:    0,
			Health:        100,
			MetabolicRate: 0.5,
			RecoveryRate:  0.1,
		},
	}
	a.Rehash()
	return a
}

// encodeFields writes the fields shared by the agent's own fingerprint
// computation and the world's encoding of this agent, taking contentHash
// as a parameter so callers control what gets hashed: Rehash always passes
// digest.Zero (a fingerprint never depends on itself, spec §9 resolved Open
// Question), while World.Encode passes the agent's actual ContentHash.
func (a Agent) encodeFields(e *canon.Encoder, contentHash digest.Hash) {
	e.U64(a.ID).String(a.Name)
	e.F64(a.Position[0]).F64(a.Position[1]).F64(a.Position[2])

	keys := sortedInventoryIDs(a.Inventory)
	e.U64(uint64(len(keys)))
	for _, k := range keys {
		item := a.Inventory[k]
		e.U64(item.ID).U8(uint8(item.Kind)).U32(item.Quantity).U32(item.Durability)
	}

	e.F64(a.Vitals.Energy).F64(a.Vitals.Hunger).F64(a.Vitals.Exhaustion)
	e.F64(a.Vitals.Health).F64(a.Vitals.MetabolicRate).F64(a.Vitals.RecoveryRate)
	e.Hash([32]byte(contentHash))
}

func (a Agent) encode() []byte {
	e := canon.NewEncoder()
	a.encodeFields(e, digest.Zero)
	return e.Bytes()
}

// Rehash recomputes ContentHash from the agent's current fields. Move calls
// it itself; after any direct field mutation (inventory change, vitals
// change) callers must invoke it.
func (a *Agent) Rehash() {
	a.ContentHash = digest.Chain([]byte(a.Name), a.encode())
}

// Move updates the agent's position and refreshes its content hash.
func (a *Agent) Move(x, y, z float64) {
	a.Position = [3]float64{x, y, z}
	a.Rehash()
}

func sortedInventoryIDs(m map[uint64]InventoryItem) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
