// Energy cost schedule for every input-event payload kind: a single
// canonical table keyed by the operation's discriminant, a typed getter,
// and a logged default for anything that slips through without a priced
// entry. Every kind in the closed PayloadKind enumeration must appear in
// the table.
package core

import "github.com/sirupsen/logrus"

// energyTable maps every PayloadKind to its base energy cost (spec §6).
var energyTable = map[PayloadKind]float64{
	PayloadMove:                1.0,
	PayloadChat:                0.0,
	PayloadGather:              5.0,
	PayloadCraft:               5.0,
	PayloadMine:                5.0,
	PayloadBuild:               10.0,
	PayloadBootEvent:           0.0,
	PayloadTickAdvance:         0.0,
	PayloadInputEventSubmitted: 0.0,
	PayloadObservationEvent:    0.0,
	PayloadSnapshotTaken:       0.0,
}

// EnergyCost returns the base energy cost for a payload kind. An unpriced
// kind is a programming error (every kind in the closed PayloadKind
// enumeration must appear above); it is logged on every lookup and charged as free
// rather than halting the tick, since unlike VM gas this table only gates
// the biology-veto pass and has no safety implication if under-charged.
func (k PayloadKind) EnergyCost() float64 {
	if cost, ok := energyTable[k]; ok {
		return cost
	}
	logrus.WithField("payload_kind", k).Warn("energy_table: missing cost for payload kind, charging zero")
	return 0.0
}
