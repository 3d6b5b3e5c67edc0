package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LoopState is the tick loop's state machine (spec §4.6): Booting ->
// Running -> (FailedClosed | ShutdownRequested) -> Halted. Entry to
// FailedClosed is final.
type LoopState uint8

const (
	StateBooting LoopState = iota
	StateRunning
	StateFailedClosed
	StateShutdownRequested
	StateHalted
)

func (s LoopState) String() string {
	switch s {
	case StateBooting:
		return "Booting"
	case StateRunning:
		return "Running"
	case StateFailedClosed:
		return "FailedClosed"
	case StateShutdownRequested:
		return "ShutdownRequested"
	case StateHalted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// EventSource hands the loop the ordered batch of events for a tick. It is
// the "ingress buffer" of spec §5 — the loop drains it at its own
// discretion and never blocks on it mid-tick.
type EventSource interface {
	EventsForTick(tick uint64) ([]InputEvent, error)
}

// TickLoop owns a World, its Pipeline, and the event log for the lifetime
// of a run. It is the sole writer of world state (spec §4.3/§5).
type TickLoop struct {
	World      *World
	Pipeline   *Pipeline
	Source     EventSource
	Snapshots  *SnapshotStore
	BootEvents []InputEvent // the event log's full replayed tail, for boot-time hash-chain verification

	SnapshotIntervalTicks uint64
	MaxTicks              uint64
	TickRate              time.Duration

	state LoopState
	obs   []ObservationEvent
}

// NewTickLoop constructs a loop in StateBooting. Run() performs boot
// validation before ever entering StateRunning. bootEvents is the event
// log's full replayed tail (in ascending order), used to verify the hash
// chain walks cleanly from genesis before the loop may run.
func NewTickLoop(world *World, pipeline *Pipeline, source EventSource, snapshots *SnapshotStore, bootEvents []InputEvent, snapshotInterval, maxTicks uint64, tickRate time.Duration) *TickLoop {
	return &TickLoop{
		World:                 world,
		Pipeline:              pipeline,
		Source:                source,
		Snapshots:             snapshots,
		BootEvents:            bootEvents,
		SnapshotIntervalTicks: snapshotInterval,
		MaxTicks:              maxTicks,
		TickRate:              tickRate,
		state:                 StateBooting,
	}
}

// State returns the loop's current state.
func (l *TickLoop) State() LoopState { return l.state }

// Observations returns every observation emitted so far, in emission order.
func (l *TickLoop) Observations() []ObservationEvent { return l.obs }

// Run boot-validates, then drives the loop until MaxTicks, a fatal error,
// or ctx cancellation (honored only between ticks, per spec §5
// "Cancellation": never mid-tick). It returns the terminal state.
func (l *TickLoop) Run(ctx context.Context) (LoopState, error) {
	if err := ValidateBoot(l.World, l.BootEvents); err != nil {
		l.state = StateFailedClosed
		return l.state, err
	}
	l.state = StateRunning

	ticker := time.NewTicker(l.TickRate)
	defer ticker.Stop()

	for l.World.Tick < l.MaxTicks {
		select {
		case <-ctx.Done():
			l.state = StateShutdownRequested
			l.state = StateHalted
			return l.state, nil
		case <-ticker.C:
		}

		if err := l.step(); err != nil {
			l.state = StateFailedClosed
			return l.state, err
		}
	}

	l.state = StateHalted
	return l.state, nil
}

// step advances exactly one tick: fetch events, run each through the
// pipeline in sequence order, rehash even on an empty batch, checkpoint,
// and snapshot on the configured interval.
func (l *TickLoop) step() error {
	nextTick := l.World.Tick + 1
	l.World.RNG.SetTick(nextTick)
	l.World.Tick = nextTick

	events, err := l.Source.EventsForTick(nextTick)
	if err != nil {
		return fmt.Errorf("tick loop: fetch events for tick %d: %w", nextTick, err)
	}

	var lastSeq uint64
	sawFirst := false
	for _, ev := range events {
		if ev.Tick != nextTick {
			return fmt.Errorf("%w: event tick %d does not match loop tick %d", ErrSchema, ev.Tick, nextTick)
		}
		if sawFirst && ev.Sequence <= lastSeq {
			return fmt.Errorf("%w: tick %d sequence %d is not strictly increasing after %d", ErrSchema, nextTick, ev.Sequence, lastSeq)
		}
		lastSeq, sawFirst = ev.Sequence, true

		obs, err := l.Pipeline.ProcessEvent(ev)
		if err != nil {
			if l.Pipeline.bioVetoMode == BioVetoRejectEvent && errors.Is(err, ErrBioVeto) {
				logrus.WithFields(logrus.Fields{"tick": nextTick, "sequence": ev.Sequence}).Warn("tick loop: event rejected by biology veto, continuing tick")
				continue
			}
			return err
		}
		l.obs = append(l.obs, obs)
	}

	// Even an empty batch rehashes, per spec §4.6, so the checkpoint
	// timeline stays dense and verifiable.
	if len(events) == 0 {
		l.World.AdvanceHash()
		l.World.Rehash()
	}

	logCheckpoint(l.World.Tick, l.World.CurrentHash)
	LogAuditSummary(l.World, l.World.Tick)

	if l.Snapshots != nil && l.SnapshotIntervalTicks > 0 && l.World.Tick%l.SnapshotIntervalTicks == 0 {
		if err := l.Snapshots.Write(l.World); err != nil {
			return fmt.Errorf("tick loop: snapshot at tick %d: %w", l.World.Tick, err)
		}
	}
	return nil
}
