package core

import "testing"

func TestNewAgentFingerprintDeterministic(t *testing.T) {
	a := NewAgent(1, "Gem-D", [3]float64{0, 0, 0})
	b := NewAgent(1, "Gem-D", [3]float64{0, 0, 0})
	if a.ContentHash != b.ContentHash {
		t.Fatalf("identical agents produced different content hashes")
	}
}

func TestAgentMoveChangesFingerprint(t *testing.T) {
	a := NewAgent(1, "Gem-D", [3]float64{0, 0, 0})
	before := a.ContentHash
	a.Move(5, 5, 5)
	if a.ContentHash == before {
		t.Fatalf("content hash did not change after move")
	}
	if a.Position != [3]float64{5, 5, 5} {
		t.Fatalf("position not updated: got %v", a.Position)
	}
}

func TestDifferentNamesDiffer(t *testing.T) {
	a := NewAgent(1, "Gem-D", [3]float64{0, 0, 0})
	b := NewAgent(1, "Gem-K", [3]float64{0, 0, 0})
	if a.ContentHash == b.ContentHash {
		t.Fatalf("different agent names produced identical fingerprints")
	}
}
