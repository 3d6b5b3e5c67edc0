package core

import (
	"testing"

	"markenz/core/canon"
)

func TestEnergyCostTable(t *testing.T) {
	cases := []struct {
		kind PayloadKind
		want float64
	}{
		{PayloadMove, 1.0},
		{PayloadChat, 0.0},
		{PayloadGather, 5.0},
		{PayloadCraft, 5.0},
		{PayloadMine, 5.0},
		{PayloadBuild, 10.0},
		{PayloadBootEvent, 0.0},
	}
	for _, c := range cases {
		if got := c.kind.EnergyCost(); got != c.want {
			t.Errorf("%s.EnergyCost() = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestMoveBoundsCheck(t *testing.T) {
	if err := MovePayload(10, 20, 0).CheckBounds(); err != nil {
		t.Fatalf("in-bounds move rejected: %v", err)
	}
	if err := MovePayload(-1, 20, 0).CheckBounds(); err == nil {
		t.Fatalf("out-of-bounds move accepted")
	}
	if err := MovePayload(10, 101, 0).CheckBounds(); err == nil {
		t.Fatalf("out-of-bounds move accepted")
	}
}

func TestPayloadEncodeDecodeRoundTrip(t *testing.T) {
	payloads := []Payload{
		MovePayload(1, 2, 3),
		ChatPayload("hello"),
		GatherPayload("wood"),
		CraftPayload(7),
		MinePayload(),
		BuildPayload("house"),
		BootEventPayload(),
	}
	for _, p := range payloads {
		e := canon.NewEncoder()
		p.encode(e)
		d := canon.NewDecoder(e.Bytes())
		got := decodePayload(d)
		if got.Kind != p.Kind {
			t.Fatalf("kind mismatch: got %s want %s", got.Kind, p.Kind)
		}
	}
}
