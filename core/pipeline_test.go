package core

import (
	"path/filepath"
	"testing"

	"markenz/core/digest"
)

// TestPipelineMoveScenario mirrors spec §8 scenario S4: seed 1337, a Move
// event at tick 1 for agent 1 with prev_hash = genesis hash should move the
// agent, charge 1.0 energy, change the world hash, and emit an observation.
func TestPipelineMoveScenario(t *testing.T) {
	world := Genesis(1337)
	genesisHash := world.CurrentHash

	log, err := OpenEventLog(filepath.Join(t.TempDir(), "events.wal"), nil)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer log.Close()

	pipeline := NewPipeline(world, log, BioVetoFatal, genesisHash)
	world.Tick = 1

	ev := NewInputEvent(1, GenesisAgentGemDID, 1, MovePayload(10.0, 20.0, 0.0), genesisHash)
	obs, err := pipeline.ProcessEvent(ev)
	if err != nil {
		t.Fatalf("process event: %v", err)
	}

	agent := world.Agents[GenesisAgentGemDID]
	if agent.Position != [3]float64{10.0, 20.0, 0.0} {
		t.Fatalf("agent position = %v, want (10,20,0)", agent.Position)
	}
	if agent.Vitals.Energy != 99.0 {
		t.Fatalf("agent energy = %v, want 99.0", agent.Vitals.Energy)
	}
	if world.CurrentHash == genesisHash {
		t.Fatalf("world hash did not change after a state-mutating event")
	}
	if obs.Kind != PayloadMove {
		t.Fatalf("expected Move observation, got %s", obs.Kind)
	}
}

func TestPipelineRejectsChainBreak(t *testing.T) {
	world := Genesis(1337)
	log, err := OpenEventLog(filepath.Join(t.TempDir(), "events.wal"), nil)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer log.Close()

	pipeline := NewPipeline(world, log, BioVetoFatal, world.CurrentHash)
	world.Tick = 1

	wrongPrev := digest.Sum([]byte("not the genesis hash"))
	ev := NewInputEvent(1, GenesisAgentGemDID, 1, MovePayload(1, 1, 1), wrongPrev)
	if _, err := pipeline.ProcessEvent(ev); err == nil {
		t.Fatalf("expected chain break error")
	}
}

func TestPipelineBioVetoFatalOnInsufficientEnergy(t *testing.T) {
	world := Genesis(1337)
	world.Agents[GenesisAgentGemDID].Vitals.Energy = 0.5
	world.Agents[GenesisAgentGemDID].Rehash()
	world.Rehash()

	log, err := OpenEventLog(filepath.Join(t.TempDir(), "events.wal"), nil)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer log.Close()

	pipeline := NewPipeline(world, log, BioVetoFatal, world.CurrentHash)
	world.Tick = 1

	ev := NewInputEvent(1, GenesisAgentGemDID, 1, MovePayload(1, 1, 1), world.CurrentHash)
	if _, err := pipeline.ProcessEvent(ev); err == nil {
		t.Fatalf("expected biology veto error for insufficient energy")
	}
}
