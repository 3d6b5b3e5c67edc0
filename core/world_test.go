package core

import "testing"

func TestGenesisHashNonzeroAndDeterministic(t *testing.T) {
	a := Genesis(1337)
	b := Genesis(1337)
	if a.CurrentHash.IsZero() {
		t.Fatalf("genesis world hash is zero")
	}
	if a.CurrentHash != b.CurrentHash {
		t.Fatalf("two genesis worlds with the same seed diverged: %s != %s", a.CurrentHash, b.CurrentHash)
	}
}

func TestGenesisRequiredAgentsPresent(t *testing.T) {
	w := Genesis(1)
	for _, id := range RequiredGenesisAgentIDs() {
		if _, ok := w.Agents[id]; !ok {
			t.Fatalf("required genesis agent %d missing", id)
		}
	}
}

func TestDifferentSeedsDivergeWorldHash(t *testing.T) {
	a := Genesis(1)
	b := Genesis(2)
	if a.CurrentHash == b.CurrentHash {
		t.Fatalf("different seeds produced identical genesis hash")
	}
}

func TestWorldEncodeDecodeRoundTrip(t *testing.T) {
	w := Genesis(42)
	encoded := w.Encode()

	decoded, err := DecodeWorld(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Seed != w.Seed || decoded.Tick != w.Tick {
		t.Fatalf("seed/tick mismatch after round trip")
	}
	if len(decoded.Agents) != len(w.Agents) {
		t.Fatalf("agent count mismatch: got %d want %d", len(decoded.Agents), len(w.Agents))
	}
	for id, a := range w.Agents {
		da, ok := decoded.Agents[id]
		if !ok {
			t.Fatalf("agent %d missing after decode", id)
		}
		if da.Name != a.Name || da.Position != a.Position || da.ContentHash != a.ContentHash {
			t.Fatalf("agent %d mismatch after decode", id)
		}
	}
	if len(decoded.Chunks) != len(w.Chunks) {
		t.Fatalf("chunk count mismatch")
	}
}
