package core

import (
	"testing"

	"markenz/core/digest"
)

func TestInputEventHashDeterministic(t *testing.T) {
	prev := digest.Sum([]byte("prev"))
	a := NewInputEvent(1, 1, 1, MovePayload(10, 20, 0), prev)
	b := NewInputEvent(1, 1, 1, MovePayload(10, 20, 0), prev)
	if a.Hash != b.Hash {
		t.Fatalf("identical events produced different hashes: %s != %s", a.Hash, b.Hash)
	}
	if !a.VerifyIntegrity() {
		t.Fatalf("event fails its own integrity check")
	}
}

func TestInputEventHashSensitiveToFields(t *testing.T) {
	prev := digest.Sum([]byte("prev"))
	a := NewInputEvent(1, 1, 1, MovePayload(10, 20, 0), prev)
	b := NewInputEvent(1, 1, 1, MovePayload(10, 20, 1), prev)
	if a.Hash == b.Hash {
		t.Fatalf("differing payloads produced the same hash")
	}
}

// TestBootEventZeroPrevHashSchema mirrors spec §8 scenario S5: a BootEvent
// whose prev_hash is not zero must fail schema validation.
func TestBootEventZeroPrevHashSchema(t *testing.T) {
	bad := digest.Sum([]byte{1})
	ev := NewInputEvent(0, 0, 0, BootEventPayload(), bad)
	if err := ev.Validate(); err == nil {
		t.Fatalf("expected schema validation to reject non-zero prev_hash BootEvent")
	}
}

func TestValidateRejectsZeroTickForNonBoot(t *testing.T) {
	ev := NewInputEvent(0, 1, 1, MovePayload(1, 1, 1), digest.Zero)
	if err := ev.Validate(); err == nil {
		t.Fatalf("expected validation failure for zero tick non-boot event")
	}
}

func TestValidateRejectsZeroSourceForNonSystemEvent(t *testing.T) {
	ev := NewInputEvent(1, 0, 1, MovePayload(1, 1, 1), digest.Zero)
	if err := ev.Validate(); err == nil {
		t.Fatalf("expected validation failure for zero source agent id on Move")
	}
}

func TestValidateRejectsNonZeroSourceForSystemEvent(t *testing.T) {
	ev := NewInputEvent(1, 7, 1, TickAdvancePayload(), digest.Zero)
	if err := ev.Validate(); err == nil {
		t.Fatalf("expected validation failure for system event with nonzero source")
	}
}

func TestVerifyHashLink(t *testing.T) {
	prev := digest.Sum([]byte("a"))
	ev := NewInputEvent(1, 1, 1, ChatPayload("hi"), prev)
	if !ev.VerifyHashLink(prev) {
		t.Fatalf("expected hash link to verify against its own prev_hash")
	}
	if ev.VerifyHashLink(digest.Zero) {
		t.Fatalf("expected hash link mismatch against unrelated hash")
	}
}
