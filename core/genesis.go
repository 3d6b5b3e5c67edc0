package core

import "markenz/core/rngstream"

// Genesis ids and names (spec §9 resolved Open Question / original_source's
// genesis.rs): two minimal agents and their starter assets.
const (
	GenesisAgentGemDID uint64 = 1
	GenesisAgentGemKID uint64 = 2

	GenesisAssetHouseID uint64 = 100
	GenesisAssetShedID  uint64 = 101
)

// Genesis builds the tick-0 world: two agents, their starter assets, and a
// single deterministically generated terrain chunk at (0,0), grounded on
// original_source's genesis_snapshot.
func Genesis(seed uint64) *World {
	w := NewWorld(seed)

	gemD := NewAgent(GenesisAgentGemDID, "Gem-D", [3]float64{0, 0, 0})
	gemK := NewAgent(GenesisAgentGemKID, "Gem-K", [3]float64{1, 0, 0})
	w.Agents[gemD.ID] = &gemD
	w.Agents[gemK.ID] = &gemK

	house := NewAsset(GenesisAssetHouseID, AssetHouse, GenesisAgentGemDID, AtPosition(0, 0, 0))
	shed := NewAsset(GenesisAssetShedID, AssetShed, GenesisAgentGemKID, AtPosition(1, 0, 0))
	w.Assets[house.ID] = &house
	w.Assets[shed.ID] = &shed

	draw := func(lo, hi int64) int64 {
		return w.RNG.DrawInRange(rngstream.Environment, 0, lo, hi, "genesis:terrain_chunk")
	}
	chunk := GenerateTerrainChunk(draw, ChunkCoord{0, 0}, []uint64{
		GenesisAgentGemDID, GenesisAgentGemKID, GenesisAssetHouseID, GenesisAssetShedID,
	})
	w.Chunks[chunk.Coord] = &chunk

	w.Tick = 0
	w.Rehash()
	return w
}

// RequiredGenesisAgentIDs lists the agents the boot validator insists are
// present at tick 0 (spec §4.6 "genesis invariants").
func RequiredGenesisAgentIDs() []uint64 {
	return []uint64{GenesisAgentGemDID, GenesisAgentGemKID}
}
