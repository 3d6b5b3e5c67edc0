package core

import (
	"path/filepath"
	"testing"

	"markenz/core/digest"
)

// TestSnapshotResumeMatchesFullReplay mirrors spec §8 scenario S2 /
// invariant 4: loading a mid-run snapshot and replaying the event tail
// must reproduce the same hash timeline as the original full run.
func TestSnapshotResumeMatchesFullReplay(t *testing.T) {
	const totalTicks = 20
	const snapshotTick = 10

	world := Genesis(7)
	log, err := OpenEventLog(filepath.Join(t.TempDir(), "events.wal"), nil)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer log.Close()

	pipeline := NewPipeline(world, log, BioVetoFatal, world.CurrentHash)

	var allEvents []InputEvent
	hashByTick := make(map[uint64]digest.Hash)
	lastHash := world.CurrentHash

	snapshots, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("new snapshot store: %v", err)
	}

	for tick := uint64(1); tick <= totalTicks; tick++ {
		world.RNG.SetTick(tick)
		world.Tick = tick

		ev := NewInputEvent(tick, GenesisAgentGemDID, 1, MovePayload(float64(tick%50), 0, 0), lastHash)
		if _, err := pipeline.ProcessEvent(ev); err != nil {
			t.Fatalf("tick %d: process event: %v", tick, err)
		}
		lastHash = ev.Hash
		allEvents = append(allEvents, ev)
		hashByTick[tick] = world.CurrentHash

		if tick == snapshotTick {
			if err := snapshots.Write(world); err != nil {
				t.Fatalf("snapshot at tick %d: %v", tick, err)
			}
		}
	}

	_, replayedHashes, _, err := ReplayFromSnapshot(snapshots, allEvents, snapshotTick, totalTicks, BioVetoFatal)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	for i, tick := 0, uint64(snapshotTick+1); tick <= totalTicks; i, tick = i+1, tick+1 {
		if i >= len(replayedHashes) {
			t.Fatalf("replay produced too few hashes: missing tick %d", tick)
		}
		if replayedHashes[i] != hashByTick[tick] {
			t.Fatalf("hash diverged at tick %d: got %s want %s", tick, replayedHashes[i], hashByTick[tick])
		}
	}
}
