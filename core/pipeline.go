package core

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"markenz/core/digest"
	"markenz/core/rngstream"
)

// BioVetoMode chooses how pass 4 (biology veto) reacts to insufficient
// energy. Spec §7 requires exactly one mode be chosen at genesis and
// stamped into the configuration hash — there is no per-call override.
type BioVetoMode uint8

const (
	// BioVetoFatal halts the entire tick on insufficient energy, preserving
	// timeline determinism. This is the default per spec §7.
	BioVetoFatal BioVetoMode = iota
	// BioVetoRejectEvent rejects only the offending event, non-fatally, if
	// the deployment has explicitly opted in.
	BioVetoRejectEvent
)

// Pipeline runs the fixed nine-pass authority path (spec §4.5) against a
// single World. It is the sole writer of world state; nothing else may
// mutate a World's Agents/Assets/Chunks maps.
type Pipeline struct {
	world       *World
	log         *EventLog
	bioVetoMode BioVetoMode
	lastHash    digest.Hash // hash of the most recently persisted event, for chain linkage
}

// NewPipeline binds a pipeline to world and an (already open) event log.
// lastHash is the hash of the last event present in the log at open time
// (digest.Zero if the log is empty).
func NewPipeline(world *World, log *EventLog, mode BioVetoMode, lastHash digest.Hash) *Pipeline {
	return &Pipeline{world: world, log: log, bioVetoMode: mode, lastHash: lastHash}
}

// NewReplayPipeline binds a pipeline to world with no event log: events fed
// to it are assumed already persisted (spec §4.7 replay), so pass 9 becomes
// a no-op rather than a re-append.
func NewReplayPipeline(world *World, mode BioVetoMode, lastHash digest.Hash) *Pipeline {
	return &Pipeline{world: world, log: nil, bioVetoMode: mode, lastHash: lastHash}
}

// LastHash returns the hash of the most recently persisted event.
func (p *Pipeline) LastHash() digest.Hash { return p.lastHash }

// ProcessEvent runs all nine passes against ev. A failure in passes 1-5
// leaves the world exactly as it was before the call: passes 1-4 only read
// state, and pass 5 checks bounds before it mutates the agent. A pass 9
// persistence failure is returned after passes 6-7 have already committed
// and rehashed, so the in-memory world then reflects ev although the log
// does not hold it.
func (p *Pipeline) ProcessEvent(ev InputEvent) (ObservationEvent, error) {
	// Pass 1: schema validation.
	if err := ev.Validate(); err != nil {
		return ObservationEvent{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if ev.Hash != ev.ComputeHash() {
		return ObservationEvent{}, fmt.Errorf("%w: stored hash does not match recomputed hash", ErrSchema)
	}

	// Pass 2: chain linkage.
	if !ev.VerifyHashLink(p.lastHash) {
		return ObservationEvent{}, fmt.Errorf("%w: event prev_hash %s does not match last persisted hash %s", ErrChainBreak, ev.PrevHash, p.lastHash)
	}

	// Pass 3: authorization. Baseline: every event is admin-authorized
	// (spec §4.5 pass 3); the contract is that this check runs before any
	// state is read, not that it currently rejects anything.
	if err := p.authorize(ev); err != nil {
		return ObservationEvent{}, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}

	// Pass 4: biology veto.
	var agent *Agent
	if ev.Payload.Kind.IsSystemOnly() {
		// system events have no acting agent to charge
	} else {
		a, ok := p.world.Agents[ev.SourceAgentID]
		if !ok {
			return ObservationEvent{}, fmt.Errorf("%w: agent %d not found", ErrAuthorization, ev.SourceAgentID)
		}
		agent = a
		cost := ev.Payload.Kind.EnergyCost()
		if !agent.Vitals.HasEnergy(cost) {
			err := fmt.Errorf("%w: agent %d has insufficient energy (%.2f < %.2f) for %s", ErrBioVeto, agent.ID, agent.Vitals.Energy, cost, ev.Payload.Kind)
			if p.bioVetoMode == BioVetoRejectEvent {
				return ObservationEvent{}, err
			}
			return ObservationEvent{}, err
		}
	}

	// Pass 5: action resolution.
	t := transition{event: ev}
	if agent != nil {
		t.hadAgent = true
		t.agentID = agent.ID
		t.oldPos = agent.Position
	}
	if err := p.resolveAction(ev, agent); err != nil {
		return ObservationEvent{}, err
	}
	if agent != nil {
		t.newPos = agent.Position
	}

	// Pass 6: state commit.
	p.world.AdvanceHash()

	// Pass 7: rehash.
	p.world.Rehash()

	// Pass 8: observation emission.
	obs := observeTransition(t)

	// Pass 9: event persistence. A nil log marks a replay pipeline, whose
	// events are already durably persisted — it re-derives state without
	// re-appending.
	if p.log != nil {
		if err := p.log.Append(ev); err != nil {
			return ObservationEvent{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	p.lastHash = ev.Hash

	return obs, nil
}

func (p *Pipeline) authorize(_ InputEvent) error {
	// Phase-0 baseline: all input is admin-authorized. The pass exists so
	// a future capability model has a single, already-ordered place to
	// plug into, per spec §4.5 pass 3.
	return nil
}

// resolveAction interprets ev's payload against world state: bounds-checks
// coordinates, charges energy, and mutates the acting agent (spec §4.5
// pass 5), grounded on original_source's execute_action.
func (p *Pipeline) resolveAction(ev InputEvent, agent *Agent) error {
	cost := ev.Payload.Kind.EnergyCost()
	switch ev.Payload.Kind {
	case PayloadMove:
		if err := ev.Payload.CheckBounds(); err != nil {
			return fmt.Errorf("%w: %v", ErrBounds, err)
		}
		agent.Move(ev.Payload.X, ev.Payload.Y, ev.Payload.Z)
		agent.Vitals.Energy -= cost
		agent.Rehash()
	case PayloadChat:
		// no state change in the baseline (spec §4.5 example / original_source)
	case PayloadGather:
		p.world.RNG.DrawF64(rngstream.Physics, 0, "pipeline:gather_availability")
		agent.Vitals.Energy -= cost
		agent.Rehash()
	case PayloadCraft:
		p.world.RNG.DrawF64(rngstream.Physics, 0, "pipeline:craft_success")
		agent.Vitals.Energy -= cost
		agent.Rehash()
	case PayloadMine, PayloadBuild:
		agent.Vitals.Energy -= cost
		agent.Rehash()
	case PayloadBootEvent, PayloadTickAdvance, PayloadInputEventSubmitted,
		PayloadObservationEvent, PayloadSnapshotTaken:
		// system-only, no agent, no state mutation beyond the rehash all
		// ticks receive
	default:
		return fmt.Errorf("%w: unhandled payload kind %s", ErrSchema, ev.Payload.Kind)
	}
	return nil
}

// logCheckpoint emits the non-authoritative structured checkpoint line for
// tick (spec C12 metrics/trace sink).
func logCheckpoint(tick uint64, hash digest.Hash) {
	logrus.WithFields(logrus.Fields{"tick": tick, "world_hash": hash.String()}).Info("tick checkpoint")
}
