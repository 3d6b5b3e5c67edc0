package core

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"markenz/core/digest"
)

// AppendOnlyMarkerFile is the marker file whose presence in the engine's
// working directory asserts that the deployment has append-only
// enforcement configured for its event log storage (spec §4.8: "absence is
// fatal"). The specific storage-layer mechanism is deployment-dependent;
// this file is the runtime assertion point.
const AppendOnlyMarkerFile = ".markenz-append-only-enforced"

// ValidateBoot runs every boot-time check (spec §4.8) before the loop may
// enter Running: append-only enforcement is asserted, events walks cleanly
// from genesis with every hash/prev-hash link verified, and genesis
// invariants hold on world. Any failure is a BootValidationError and leaves
// world untouched.
func ValidateBoot(world *World, events []InputEvent) error {
	if err := checkAppendOnlyMarker(); err != nil {
		return fmt.Errorf("%w: %v", ErrBootValidation, err)
	}
	if err := ValidateGenesisInvariants(world); err != nil {
		return fmt.Errorf("%w: %v", ErrBootValidation, err)
	}
	if err := ValidateHashChainWalk(events, digest.Zero); err != nil {
		return fmt.Errorf("%w: %v", ErrBootValidation, err)
	}
	logrus.Info("boot validation passed")
	return nil
}

func checkAppendOnlyMarker() error {
	if _, err := os.Stat(AppendOnlyMarkerFile); err != nil {
		return fmt.Errorf("append-only enforcement marker %s not found: %w", AppendOnlyMarkerFile, err)
	}
	return nil
}

// ValidateGenesisInvariants verifies tick-0 invariants (spec §3/§4.8):
// tick = 0, state hash nonzero, required genesis agents present.
func ValidateGenesisInvariants(world *World) error {
	if world.Tick != 0 {
		return fmt.Errorf("world tick must be 0 at boot, got %d", world.Tick)
	}
	if world.CurrentHash.IsZero() {
		return fmt.Errorf("world hash cannot be zero at boot")
	}
	if len(world.Agents) == 0 {
		return fmt.Errorf("no agents found at boot")
	}
	for _, id := range RequiredGenesisAgentIDs() {
		if _, ok := world.Agents[id]; !ok {
			return fmt.Errorf("required genesis agent %d missing", id)
		}
	}
	return nil
}

// ValidateHashChainWalk walks events in the order given (the log's append
// order; the (tick, sequence) order itself is not checked) and verifies
// every prev-hash link and every stored hash, grounded on
// original_source's BootValidator::validate_hash_chain. genesisPrevHash is
// the expected prev-hash of the very first event (digest.Zero for a fresh
// chain).
func ValidateHashChainWalk(events []InputEvent, genesisPrevHash digest.Hash) error {
	expected := genesisPrevHash
	for i, ev := range events {
		if !ev.VerifyIntegrity() {
			return fmt.Errorf("event %d: stored hash does not match recomputed hash", i)
		}
		if !ev.VerifyHashLink(expected) {
			return fmt.Errorf("event %d: prev_hash %s does not match expected %s", i, ev.PrevHash, expected)
		}
		expected = ev.Hash
	}
	return nil
}
