package core

import (
	"fmt"

	"markenz/core/digest"
)

// ReplayFromSnapshot reconstructs world state by loading the snapshot at
// tick fromTick from store and re-running every tick from fromTick+1
// through toTick, feeding each tick the events tail holds for it (spec
// §4.7 "Replay equivalence law"). Every tick is rehashed even when it has
// no events, exactly mirroring TickLoop.step, since that density is what
// makes the hash timeline comparable tick-for-tick against the original
// run.
func ReplayFromSnapshot(store *SnapshotStore, tail []InputEvent, fromTick, toTick uint64, mode BioVetoMode) (*World, []digest.Hash, []ObservationEvent, error) {
	world, err := store.ReadAtTick(fromTick)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("replay: load snapshot at tick %d: %w", fromTick, err)
	}

	byTick := make(map[uint64][]InputEvent)
	var lastHash digest.Hash
	for _, ev := range tail {
		if ev.Tick <= fromTick {
			lastHash = ev.Hash
			continue
		}
		byTick[ev.Tick] = append(byTick[ev.Tick], ev)
	}
	if lastHash.IsZero() {
		lastHash = world.CurrentHash
	}

	pipeline := NewReplayPipeline(world, mode, lastHash)

	var observations []ObservationEvent
	hashes := make([]digest.Hash, 0, toTick-fromTick)
	for tick := fromTick + 1; tick <= toTick; tick++ {
		world.RNG.SetTick(tick)
		world.Tick = tick
		events := byTick[tick]
		for _, ev := range events {
			obs, err := pipeline.ProcessEvent(ev)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("replay: process event tick %d seq %d: %w", ev.Tick, ev.Sequence, err)
			}
			observations = append(observations, obs)
		}
		if len(events) == 0 {
			world.AdvanceHash()
			world.Rehash()
		}
		hashes = append(hashes, world.CurrentHash)
	}
	return world, hashes, observations, nil
}

// VerifyHashTimeline compares a reconstructed hash sequence against the
// sequence the original full run produced over the same tick range (spec
// §8 invariant 1/4). A mismatch at index i means the run diverged at that
// tick.
func VerifyHashTimeline(got, want []digest.Hash) (int, bool) {
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			return i, false
		}
	}
	return -1, true
}
