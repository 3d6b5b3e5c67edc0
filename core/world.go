package core

import (
	"sort"

	"markenz/core/canon"
	"markenz/core/digest"
	"markenz/core/rngstream"
)

// World is the full authoritative simulation state (spec §3 "World"): all
// agents, assets and terrain chunks as of the current tick, plus the RNG
// registry whose draw positions are themselves part of that state. World is
// mutated only by the authority pipeline (pipeline.go) — nothing else may
// write to its maps.
type World struct {
	Seed    uint64
	Tick    uint64
	Agents  map[uint64]*Agent
	Assets  map[uint64]*Asset
	Chunks  map[ChunkCoord]*Chunk
	RNG     *rngstream.Registry

	CurrentHash  digest.Hash
	PreviousHash digest.Hash
}

// NewWorld returns an empty world seeded for seed, with no genesis content.
// Use Genesis to obtain a fully populated tick-0 world.
func NewWorld(seed uint64) *World {
	return &World{
		Seed:   seed,
		Agents: make(map[uint64]*Agent),
		Assets: make(map[uint64]*Asset),
		Chunks: make(map[ChunkCoord]*Chunk),
		RNG:    rngstream.NewRegistry(seed),
	}
}

func (w *World) sortedAgentIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Agents))
	for id := range w.Agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) sortedAssetIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Assets))
	for id := range w.Assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) sortedChunkCoords() []ChunkCoord {
	coords := make([]ChunkCoord, 0, len(w.Chunks))
	for c := range w.Chunks {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})
	return coords
}

// Encode writes the world's canonical byte representation: seed, tick,
// then agents/assets/chunks each in ascending-key order (Go maps iterate in
// random order, so every caller here goes through a sorted index first),
// then the RNG registry's resumable state. CurrentHash/PreviousHash are
// excluded — they are derived FROM this encoding, not part of it.
func (w *World) Encode() []byte {
	e := canon.NewEncoder()
	e.U64(w.Seed).U64(w.Tick)

	agentIDs := w.sortedAgentIDs()
	e.U64(uint64(len(agentIDs)))
	for _, id := range agentIDs {
		w.Agents[id].encodeFields(e, w.Agents[id].ContentHash)
	}

	assetIDs := w.sortedAssetIDs()
	e.U64(uint64(len(assetIDs)))
	for _, id := range assetIDs {
		w.Assets[id].encode(e)
	}

	coords := w.sortedChunkCoords()
	e.U64(uint64(len(coords)))
	for _, c := range coords {
		w.Chunks[c].encode(e)
	}

	e.BytesField(w.RNG.EncodeState())
	return e.Bytes()
}

// Rehash recomputes CurrentHash as the digest over (PreviousHash || canonical
// world encoding) per spec §4.1, and returns it. Called by the authority
// pipeline's rehash pass after every event, by the tick loop and replay on
// a tick with no events, and once by Genesis.
func (w *World) Rehash() digest.Hash {
	w.CurrentHash = digest.Chain(w.PreviousHash.Bytes(), w.Encode())
	return w.CurrentHash
}

// AdvanceHash rolls PreviousHash forward to the current hash, in
// preparation for the next tick's commit.
func (w *World) AdvanceHash() {
	w.PreviousHash = w.CurrentHash
}

// DecodeWorld reconstructs a World from bytes written by Encode. The RNG
// state embedded at the tail is decoded and discarded: snapshot readers
// reconstruct the registry separately from the snapshot's own rng_bytes
// field (spec §6), which is the authoritative copy.
func DecodeWorld(data []byte) (*World, error) {
	d := canon.NewDecoder(data)
	w := &World{
		Seed:   d.U64(),
		Tick:   d.U64(),
		Agents: make(map[uint64]*Agent),
		Assets: make(map[uint64]*Asset),
		Chunks: make(map[ChunkCoord]*Chunk),
	}

	agentCount := d.U64()
	for i := uint64(0); i < agentCount; i++ {
		a := &Agent{Inventory: make(map[uint64]InventoryItem)}
		a.ID = d.U64()
		a.Name = d.String()
		a.Position[0], a.Position[1], a.Position[2] = d.F64(), d.F64(), d.F64()
		invCount := d.U64()
		for j := uint64(0); j < invCount; j++ {
			itemID := d.U64()
			kind := ItemKind(d.U8())
			quantity := d.U32()
			durability := d.U32()
			a.Inventory[itemID] = InventoryItem{ID: itemID, Kind: kind, Quantity: quantity, Durability: durability}
		}
		a.Vitals.Energy = d.F64()
		a.Vitals.Hunger = d.F64()
		a.Vitals.Exhaustion = d.F64()
		a.Vitals.Health = d.F64()
		a.Vitals.MetabolicRate = d.F64()
		a.Vitals.RecoveryRate = d.F64()
		a.ContentHash = digest.Hash(d.Hash())
		w.Agents[a.ID] = a
	}

	assetCount := d.U64()
	for i := uint64(0); i < assetCount; i++ {
		a := &Asset{Properties: make(map[string]string)}
		a.ID = d.U64()
		a.Kind = AssetKind(d.U8())
		a.OwnerID = d.U64()
		a.Location.Kind = AssetLocationKind(d.U8())
		switch a.Location.Kind {
		case LocationAtPosition:
			a.Location.Position[0], a.Location.Position[1], a.Location.Position[2] = d.F64(), d.F64(), d.F64()
		case LocationOnAgent:
			a.Location.AgentID = d.U64()
		}
		propCount := d.U64()
		for j := uint64(0); j < propCount; j++ {
			k := d.String()
			a.Properties[k] = d.String()
		}
		w.Assets[a.ID] = a
	}

	chunkCount := d.U64()
	for i := uint64(0); i < chunkCount; i++ {
		c := &Chunk{Properties: make(map[string]string)}
		c.Coord.X = int32(d.I64())
		c.Coord.Y = int32(d.I64())
		c.Terrain = d.BytesField()
		entityCount := d.U64()
		c.EntityIDs = make([]uint64, entityCount)
		for j := range c.EntityIDs {
			c.EntityIDs[j] = d.U64()
		}
		propCount := d.U64()
		for j := uint64(0); j < propCount; j++ {
			k := d.String()
			c.Properties[k] = d.String()
		}
		w.Chunks[c.Coord] = c
	}

	_ = d.BytesField() // embedded RNG state; snapshot reconstruction uses the sibling rng_bytes field instead

	if d.Err() != nil {
		return nil, d.Err()
	}
	return w, nil
}
