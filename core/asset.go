package core

import (
	"sort"

	"markenz/core/canon"
)

// AssetLocationKind discriminates where an Asset sits: fixed in world
// space, or carried in an agent's inventory (original_source's
// AssetLocation enum: AtPosition / OnAgent).
type AssetLocationKind uint8

const (
	LocationAtPosition AssetLocationKind = iota
	LocationOnAgent
)

// AssetLocation is the tagged location of an Asset.
type AssetLocation struct {
	Kind     AssetLocationKind
	Position [3]float64 // meaningful when Kind == LocationAtPosition
	AgentID  uint64      // meaningful when Kind == LocationOnAgent
}

// AtPosition builds a fixed-position AssetLocation.
func AtPosition(x, y, z float64) AssetLocation {
	return AssetLocation{Kind: LocationAtPosition, Position: [3]float64{x, y, z}}
}

// OnAgent builds an inventory AssetLocation.
func OnAgent(agentID uint64) AssetLocation {
	return AssetLocation{Kind: LocationOnAgent, AgentID: agentID}
}

func (l AssetLocation) encode(e *canon.Encoder) {
	e.U8(uint8(l.Kind))
	switch l.Kind {
	case LocationAtPosition:
		e.F64(l.Position[0]).F64(l.Position[1]).F64(l.Position[2])
	case LocationOnAgent:
		e.U64(l.AgentID)
	}
}

// AssetKind enumerates asset types (original_source's AssetType).
type AssetKind uint8

const (
	AssetHouse AssetKind = iota
	AssetShed
	AssetTool
	AssetVehicle
)

func (k AssetKind) String() string {
	switch k {
	case AssetHouse:
		return "House"
	case AssetShed:
		return "Shed"
	case AssetTool:
		return "Tool"
	case AssetVehicle:
		return "Vehicle"
	default:
		return "Unknown"
	}
}

// Movable reports whether this asset kind can be relocated by an action.
// Houses and sheds are fixed; vehicles and tools are not (original_source's
// Asset::is_movable).
func (k AssetKind) Movable() bool {
	return k == AssetVehicle || k == AssetTool
}

// Asset is a non-agent world object: buildings, tools, vehicles.
type Asset struct {
	ID         uint64
	Kind       AssetKind
	OwnerID    uint64
	Location   AssetLocation
	Properties map[string]string
}

// NewAsset constructs an asset at the given location.
func NewAsset(id uint64, kind AssetKind, ownerID uint64, location AssetLocation) Asset {
	return Asset{ID: id, Kind: kind, OwnerID: ownerID, Location: location, Properties: make(map[string]string)}
}

func (a Asset) encode(e *canon.Encoder) {
	e.U64(a.ID).U8(uint8(a.Kind)).U64(a.OwnerID)
	a.Location.encode(e)
	keys := make([]string, 0, len(a.Properties))
	for k := range a.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.U64(uint64(len(keys)))
	for _, k := range keys {
		e.String(k).String(a.Properties[k])
	}
}

// ChunkCoord addresses a terrain chunk by its integer grid position.
type ChunkCoord struct {
	X, Y int32
}

// Chunk is one deterministically generated terrain tile (spec §4.8 /
// original_source's genesis.rs generate_terrain_chunk: one byte of height
// per cell, drawn from the Environment RNG stream).
type Chunk struct {
	Coord      ChunkCoord
	Terrain    []byte
	EntityIDs  []uint64
	Properties map[string]string
}

func (c Chunk) encode(e *canon.Encoder) {
	e.I64(int64(c.Coord.X)).I64(int64(c.Coord.Y))
	e.BytesField(c.Terrain)
	e.U64(uint64(len(c.EntityIDs)))
	for _, id := range c.EntityIDs {
		e.U64(id)
	}
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.U64(uint64(len(keys)))
	for _, k := range keys {
		e.String(k).String(c.Properties[k])
	}
}

// terrainChunkSize is the number of cells, one terrain byte each, in a
// generated chunk (original_source genesis.rs: a 4x4 = 16 cell chunk).
const terrainChunkSize = 16

// GenerateTerrainChunk deterministically fills a chunk's terrain bytes by
// drawing terrainChunkSize values in [0, 255] through draw (Genesis passes
// a draw from Environment stream 0, whatever the chunk's coordinates) —
// grounded on original_source's generate_terrain_chunk.
func GenerateTerrainChunk(draw func(lo, hi int64) int64, coord ChunkCoord, entityIDs []uint64) Chunk {
	terrain := make([]byte, terrainChunkSize)
	for i := range terrain {
		terrain[i] = byte(draw(0, 255))
	}
	return Chunk{
		Coord:      coord,
		Terrain:    terrain,
		EntityIDs:  append([]uint64(nil), entityIDs...),
		Properties: make(map[string]string),
	}
}
