package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterdrop/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		scene      string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "waterdrop",
		Short:        "Run a prefab scene in the waterdrop viewer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if scene != "" {
				cfg.Scene = scene
			}
			if debug {
				cfg.Log.Level = "debug"
			}

			logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			game, err := NewGame(cfg, logger, debug)
			if err != nil {
				return err
			}
			defer game.Close()

			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
			ebiten.SetWindowTitle(cfg.Window.Title)
			return ebiten.RunGame(game)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a waterdrop YAML config")
	cmd.Flags().StringVar(&scene, "scene", "", "scene file in the prefab directory (overrides config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "validate the world every frame and draw entity stats")
	return cmd
}
