package core

import (
	"errors"
	"testing"
)

// TestBootValidationRejectsMissingGenesisAgent mirrors spec §8 scenario S6:
// seed 1337, genesis state with Gem-D removed, boot validation must fail
// with ErrBootValidation and the loop must never reach Running.
func TestBootValidationRejectsMissingGenesisAgent(t *testing.T) {
	world := Genesis(1337)
	delete(world.Agents, GenesisAgentGemDID)

	withAppendOnlyMarker(t)

	err := ValidateBoot(world, nil)
	if err == nil {
		t.Fatalf("expected boot validation to fail with Gem-D missing")
	}
	if !errors.Is(err, ErrBootValidation) {
		t.Fatalf("expected ErrBootValidation, got %v", err)
	}
}

func TestBootValidationPassesOnIntactGenesis(t *testing.T) {
	world := Genesis(1337)
	withAppendOnlyMarker(t)

	if err := ValidateBoot(world, nil); err != nil {
		t.Fatalf("expected boot validation to pass on an intact genesis, got %v", err)
	}
}

func TestGenesisInvariantsHoldOnFreshGenesis(t *testing.T) {
	world := Genesis(1337)
	// checks the genesis-invariant pass on its own, without the marker file;
	// the missing-marker failure is covered by TestTickLoopRequiresBootMarker.
	if err := ValidateGenesisInvariants(world); err != nil {
		t.Fatalf("genesis invariants should hold on a fresh genesis: %v", err)
	}
}

func TestValidateGenesisInvariantsRejectsNonZeroTick(t *testing.T) {
	world := Genesis(1)
	world.Tick = 1
	if err := ValidateGenesisInvariants(world); err == nil {
		t.Fatalf("expected rejection of nonzero tick at boot")
	}
}
