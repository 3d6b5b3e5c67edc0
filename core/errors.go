package core

import (
	"errors"

	"markenz/core/digest"
)

// DigestZero returns the all-zero digest used as the prev-hash of the
// genesis event and as the initial chain-link value before any event has
// been persisted.
func DigestZero() digest.Hash { return digest.Zero }

// Error kinds for the authority path (spec §7). These are sentinel values
// wrapped with context via fmt.Errorf("...: %w", Kind) at the raise site,
// so callers can classify a failure with errors.Is while still getting a
// descriptive message.
var (
	// ErrSchema marks a malformed event; fatal for the tick.
	ErrSchema = errors.New("schema error")
	// ErrChainBreak marks a prev-hash mismatch; fatal, loop goes FailedClosed.
	ErrChainBreak = errors.New("chain break error")
	// ErrAuthorization marks an unauthorized source agent; fatal.
	ErrAuthorization = errors.New("authorization error")
	// ErrBioVeto marks insufficient agent energy for the payload's cost.
	ErrBioVeto = errors.New("biology veto error")
	// ErrBounds marks an out-of-range payload value; fatal.
	ErrBounds = errors.New("bounds error")
	// ErrPersistence marks a failed append to the event log; fatal.
	ErrPersistence = errors.New("persistence error")
	// ErrSnapshotIntegrity marks a checksum mismatch on snapshot read.
	ErrSnapshotIntegrity = errors.New("snapshot integrity error")
	// ErrBootValidation marks a failed boot-time check; Running is never entered.
	ErrBootValidation = errors.New("boot validation error")
)
