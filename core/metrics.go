package core

import "github.com/sirupsen/logrus"

// LogAuditSummary emits a non-authoritative structured summary of RNG draw
// activity for a tick (spec C12 "metrics/trace sink"). It never affects
// determinism or control flow — it is a read of the audit log, not a
// dependency of it.
func LogAuditSummary(world *World, tick uint64) {
	records := world.RNG.AuditLog().ForTick(tick)
	if len(records) == 0 {
		return
	}
	logrus.WithFields(logrus.Fields{
		"tick":   tick,
		"draws":  len(records),
		"streams": world.RNG.StreamCount(),
	}).Debug("rng draw summary")
}
