package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"markenz/core"
	"markenz/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{Use: "engine"}
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(verifyCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(env string) *config.Config {
	cfg, err := config.Load(env)
	if err != nil {
		logrus.WithError(err).Warn("no config file found, falling back to defaults")
		d := config.Default()
		cfg = &d
	}
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(lvl)
	}
	return cfg
}

func runCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "boot validate and run the tick loop from genesis or an existing log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(env)
			return runLoop(cfg)
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "environment overlay name")
	return cmd
}

func runLoop(cfg *config.Config) error {
	world := core.Genesis(cfg.Engine.Seed)

	var events []core.InputEvent
	log, err := core.OpenEventLog(cfg.Engine.EventLogEndpoint, func(ev core.InputEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer log.Close()

	snapshots, err := core.NewSnapshotStore(cfg.Engine.SnapshotDir)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	mode := core.BioVetoFatal
	if !cfg.BioVetoFatal {
		mode = core.BioVetoRejectEvent
	}

	lastHash := core.DigestZero()
	if len(events) > 0 {
		lastHash = events[len(events)-1].Hash
	}
	pipeline := core.NewPipeline(world, log, mode, lastHash)

	if len(events) == 0 {
		bootEvent := core.NewInputEvent(0, 0, 0, core.BootEventPayload(), core.DigestZero())
		if _, err := pipeline.ProcessEvent(bootEvent); err != nil {
			return fmt.Errorf("process genesis boot event: %w", err)
		}
		events = append(events, bootEvent)
	}

	buffer := core.NewIngestBuffer(1024)

	loop := core.NewTickLoop(world, pipeline, buffer, snapshots, events, cfg.Engine.SnapshotIntervalTicks, cfg.Engine.MaxTicks, time.Duration(cfg.Engine.TickRateMS)*time.Millisecond)

	state, err := loop.Run(context.Background())
	logrus.WithField("final_state", state.String()).Info("tick loop finished")
	return err
}

func replayCmd() *cobra.Command {
	var fromTick, toTick uint64
	var snapshotDir, logPath string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "reconstruct world state from a snapshot plus the event tail and print the hash timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := core.NewSnapshotStore(snapshotDir)
			if err != nil {
				return err
			}
			var tail []core.InputEvent
			log, err := core.OpenEventLog(logPath, func(ev core.InputEvent) error {
				tail = append(tail, ev)
				return nil
			})
			if err != nil {
				return err
			}
			defer log.Close()
			_, hashes, _, err := core.ReplayFromSnapshot(store, tail, fromTick, toTick, core.BioVetoFatal)
			if err != nil {
				return err
			}
			for i, h := range hashes {
				fmt.Printf("tick %d: %s\n", fromTick+1+uint64(i), h)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&fromTick, "from", 0, "snapshot tick to resume from")
	cmd.Flags().Uint64Var(&toTick, "to", 0, "tick to replay through")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "snapshots", "snapshot directory")
	cmd.Flags().StringVar(&logPath, "log", "events.wal", "event log path")
	return cmd
}

func verifyCmd() *cobra.Command {
	var logPath string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "walk the event log's hash chain and report any break",
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []core.InputEvent
			log, err := core.OpenEventLog(logPath, func(ev core.InputEvent) error {
				events = append(events, ev)
				return nil
			})
			if err != nil {
				return err
			}
			defer log.Close()
			if err := core.ValidateHashChainWalk(events, core.DigestZero()); err != nil {
				return err
			}
			fmt.Printf("chain intact: %d events verified\n", len(events))
			return nil
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "events.wal", "event log path")
	return cmd
}
