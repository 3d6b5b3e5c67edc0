package core

import (
	"path/filepath"
	"testing"

	"markenz/core/digest"
)

func TestEventLogAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.wal")

	log, err := OpenEventLog(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ev1 := NewInputEvent(0, 0, 0, BootEventPayload(), digest.Zero)
	ev2 := NewInputEvent(1, 1, 1, MovePayload(1, 2, 3), ev1.Hash)
	if err := log.Append(ev1); err != nil {
		t.Fatalf("append ev1: %v", err)
	}
	if err := log.Append(ev2); err != nil {
		t.Fatalf("append ev2: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var replayed []InputEvent
	log2, err := OpenEventLog(path, func(ev InputEvent) error {
		replayed = append(replayed, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer log2.Close()

	if len(replayed) != 2 {
		t.Fatalf("expected 2 replayed events, got %d", len(replayed))
	}
	if replayed[0].Hash != ev1.Hash || replayed[1].Hash != ev2.Hash {
		t.Fatalf("replayed events do not match originals")
	}
	if !replayed[1].VerifyHashLink(replayed[0].Hash) {
		t.Fatalf("replayed chain linkage broken")
	}
}

// TestEventLogRejectsCorruptedHash mirrors spec §8 invariant 6: a stored
// event whose hash no longer matches its fields must never be accepted.
func TestEventLogRejectsCorruptedHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.wal")
	log, err := OpenEventLog(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ev := NewInputEvent(1, 1, 1, MovePayload(1, 2, 3), digest.Zero)
	ev.Payload = MovePayload(9, 9, 9) // mutate after hashing, corrupting the record
	if err := log.Append(ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	log.Close()

	_, err = OpenEventLog(path, func(InputEvent) error { return nil })
	if err == nil {
		t.Fatalf("expected replay to reject an event whose hash no longer matches its fields")
	}
}
