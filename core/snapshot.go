package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"markenz/core/canon"
	"markenz/core/digest"
	"markenz/core/rngstream"
)

// SnapshotVersion is the on-disk snapshot format version (spec §6).
const SnapshotVersion uint8 = 1

// SnapshotStore reads and writes versioned, checksummed world dumps under a
// directory, one file per tick (spec §4.7/§6), grounded on original_source's
// write_snapshot/read_snapshot.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore returns a store rooted at dir, creating it if absent.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot store: create dir %s: %w", dir, err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// pathFor returns the filename for a snapshot at tick, per spec §6:
// "snapshot_{tick:010}.bin".
func (s *SnapshotStore) pathFor(tick uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("snapshot_%010d.bin", tick))
}

// Write canonicalizes world's state and RNG state, computes a checksum
// over the state payload, and writes the wrapped record to
// snapshot_{tick:010}.bin (spec §6 file format: version || tick ||
// state_len || state_bytes || rng_len || rng_bytes || world_hash ||
// checksum).
func (s *SnapshotStore) Write(world *World) error {
	stateBytes := world.Encode()
	rngBytes := world.RNG.EncodeState()
	checksum := digest.Sum(stateBytes)

	e := canon.NewEncoder()
	e.U8(SnapshotVersion)
	e.U64(world.Tick)
	e.BytesField(stateBytes)
	e.BytesField(rngBytes)
	e.Hash([32]byte(world.CurrentHash))
	e.Hash([32]byte(checksum))

	path := s.pathFor(world.Tick)
	if err := os.WriteFile(path, e.Bytes(), 0o644); err != nil {
		return fmt.Errorf("snapshot store: write %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{"tick": world.Tick, "path": path}).Info("snapshot written")
	return nil
}

// snapshotRecord is the decoded form of a snapshot file, before
// reconstruction into a live World.
type snapshotRecord struct {
	version   uint8
	tick      uint64
	state     []byte
	rng       []byte
	worldHash digest.Hash
	checksum  digest.Hash
}

func decodeSnapshot(data []byte) (snapshotRecord, error) {
	d := canon.NewDecoder(data)
	rec := snapshotRecord{
		version: d.U8(),
		tick:    d.U64(),
	}
	rec.state = d.BytesField()
	rec.rng = d.BytesField()
	rec.worldHash = digest.Hash(d.Hash())
	rec.checksum = digest.Hash(d.Hash())
	if d.Err() != nil {
		return snapshotRecord{}, d.Err()
	}
	if rec.version != SnapshotVersion {
		return snapshotRecord{}, fmt.Errorf("unsupported snapshot version %d", rec.version)
	}
	return rec, nil
}

// ReadAtTick loads, checksum-verifies, and reconstructs the world that was
// snapshotted at tick. A checksum mismatch is a fatal SnapshotIntegrityError
// (spec §7) — there is no partial or best-effort recovery.
func (s *SnapshotStore) ReadAtTick(tick uint64) (*World, error) {
	path := s.pathFor(tick)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: read %s: %w", path, err)
	}

	rec, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: decode %s: %w", path, err)
	}

	if digest.Sum(rec.state) != rec.checksum {
		return nil, fmt.Errorf("%w: checksum mismatch in %s", ErrSnapshotIntegrity, path)
	}

	world, err := DecodeWorld(rec.state)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: reconstruct world: %w", err)
	}
	rng, err := rngstream.DecodeRegistryState(rec.rng)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: reconstruct rng: %w", err)
	}
	world.RNG = rng
	world.CurrentHash = rec.worldHash

	return world, nil
}

// ListTicks returns every tick with a snapshot present, ascending.
func (s *SnapshotStore) ListTicks() ([]uint64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: list %s: %w", s.dir, err)
	}
	var ticks []uint64
	for _, e := range entries {
		var tick uint64
		if _, err := fmt.Sscanf(e.Name(), "snapshot_%010d.bin", &tick); err == nil {
			ticks = append(ticks, tick)
		}
	}
	for i := 1; i < len(ticks); i++ {
		for j := i; j > 0 && ticks[j-1] > ticks[j]; j-- {
			ticks[j-1], ticks[j] = ticks[j], ticks[j-1]
		}
	}
	return ticks, nil
}
