// Package config loads the viewer and benchmark settings.
//
// Values are layered: built-in defaults, then the YAML file, then .env files,
// then WATERDROP_* environment variables. The result is validated once.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/joho/godotenv"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/prefabs"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	World   ecs.Config    `yaml:"world"`
	Log     LogConfig     `yaml:"log"`
	Statsd  StatsdConfig  `yaml:"statsd"`
	Prefabs PrefabsConfig `yaml:"prefabs"`
	Window  WindowConfig  `yaml:"window"`
	// Scene is the scene file spawned at startup, relative to the prefab dir.
	Scene string `yaml:"scene"`
}

// sceneEnv carries the top-level scene override, since the sections of Config
// are decoded one struct at a time.
type sceneEnv struct {
	Scene string `config:"WATERDROP_SCENE"`
}

type LogConfig struct {
	Level  string `yaml:"level" config:"WATERDROP_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" config:"WATERDROP_LOG_PRETTY"`
}

type StatsdConfig struct {
	// Address of the agent; empty disables metrics.
	Address string `yaml:"address" config:"WATERDROP_STATSD_ADDRESS"`
	// Tags are space separated in the environment.
	Tags []string `yaml:"tags" config:"WATERDROP_STATSD_TAGS"`
}

type PrefabsConfig struct {
	Dir   string `yaml:"dir" config:"WATERDROP_PREFABS_DIR"`
	Watch bool   `yaml:"watch" config:"WATERDROP_PREFABS_WATCH"`
}

type WindowConfig struct {
	Width  int    `yaml:"width" config:"WATERDROP_WINDOW_WIDTH"`
	Height int    `yaml:"height" config:"WATERDROP_WINDOW_HEIGHT"`
	Title  string `yaml:"title" config:"WATERDROP_WINDOW_TITLE"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		World:   ecs.DefaultConfig(),
		Log:     LogConfig{Level: "info", Pretty: true},
		Prefabs: PrefabsConfig{Dir: prefabs.DefaultDir},
		Window:  WindowConfig{Width: 1280, Height: 720, Title: "waterdrop"},
		Scene:   "scene.yaml",
	}
}

// Load builds a Config from path (optional) and the environment. envFiles
// are passed to godotenv; with none, ".env" is tried. Missing env files are
// ignored, a missing config file named explicitly is not.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, eris.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, eris.Wrapf(err, "parse config %s", path)
		}
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return eris.Wrapf(err, "load env file %s", f)
		}
	}
	return nil
}

// applyEnv overrides each section from WATERDROP_* variables. Variables that
// are not set leave the current value in place.
func (c *Config) applyEnv() error {
	scene := sceneEnv{Scene: c.Scene}
	for _, target := range []any{&c.World, &c.Log, &c.Statsd, &c.Prefabs, &c.Window, &scene} {
		if err := jlconfig.FromEnv().To(target); err != nil {
			return eris.Wrap(err, "environment overrides")
		}
	}
	c.Scene = scene.Scene
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return eris.Wrapf(ecs.ErrInvalidConfig, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if strings.TrimSpace(c.Scene) == "" {
		return eris.Wrap(ecs.ErrInvalidConfig, "scene is required")
	}
	return nil
}
