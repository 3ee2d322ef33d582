// Command ecsbench drives the movement and TTL systems over a large world to
// measure per-frame cost.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/waterdrop/config"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ecsbench",
		Short:        "Benchmark the waterdrop ECS core",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		opts        benchOptions
		configPath  string
		profileMode string
		profileDir  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Spawn entities and step the systems for a number of frames",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			stats, err := config.NewStatsd(cfg.Statsd)
			if err != nil {
				return err
			}
			defer stats.Close()

			var stop interface{ Stop() }
			switch strings.ToLower(profileMode) {
			case "":
			case "cpu":
				stop = profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook)
			case "mem":
				stop = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(profileDir), profile.NoShutdownHook)
			default:
				return fmt.Errorf("unknown profile mode %q (want cpu or mem)", profileMode)
			}

			opts.World = cfg.World
			opts.Stats = stats
			res, err := runBench(opts, logger)
			if stop != nil {
				stop.Stop()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "frames=%d entities=%d total=%s per_frame=%s spawned=%d expired=%d\n",
				res.Frames, res.Alive, res.Elapsed, res.PerFrame(), res.Spawned, res.Expired)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Entities, "entities", "n", 10_000, "entities kept alive each frame")
	cmd.Flags().IntVarP(&opts.Frames, "frames", "f", 600, "frames to simulate")
	cmd.Flags().IntVar(&opts.TTLEvery, "ttl-every", 4, "give every nth entity a lifetime so slots are recycled (0 disables)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a waterdrop YAML config")
	cmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile")
	cmd.Flags().StringVar(&profileDir, "profile-path", ".", "directory for profile output")
	return cmd
}
