package main

import (
	"image/color"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/waterdrop/assets"
	"github.com/milk9111/waterdrop/config"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/milk9111/waterdrop/ecs/entity"
	"github.com/milk9111/waterdrop/ecs/render"
	"github.com/milk9111/waterdrop/ecs/system"
	"github.com/milk9111/waterdrop/prefabs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Game struct {
	cfg    config.Config
	logger zerolog.Logger
	debug  bool

	world     *ecs.World
	set       *component.Set
	scheduler *ecs.Scheduler
	stats     ddstatsd.ClientInterface
	loader    *prefabs.Loader
	watcher   *prefabs.Watcher

	scripts  *system.ScriptSystem
	camera   *system.CameraSystem
	drawList *system.DrawListSystem
	renderer *render.Renderer
}

func NewGame(cfg config.Config, logger zerolog.Logger, debug bool) (*Game, error) {
	w, err := ecs.NewWorld(cfg.World, ecs.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	set, err := component.Register(w)
	if err != nil {
		return nil, err
	}
	stats, err := config.NewStatsd(cfg.Statsd)
	if err != nil {
		return nil, err
	}

	viewW, viewH := float64(cfg.Window.Width), float64(cfg.Window.Height)
	g := &Game{
		cfg:       cfg,
		logger:    logger,
		debug:     debug,
		world:     w,
		set:       set,
		scheduler: ecs.NewScheduler(ecs.WithStatsd(stats)),
		stats:     stats,
		loader:    prefabs.NewLoader(cfg.Prefabs.Dir),
		scripts:   system.NewScriptSystem(set),
		camera:    system.NewCameraSystem(set, viewW, viewH),
		drawList:  system.NewDrawListSystem(set, viewW, viewH),
		renderer:  render.NewRenderer(newModelLibrary(logger)),
	}
	g.renderer.Outlines = debug

	for _, s := range []struct {
		name string
		sys  ecs.System
	}{
		{"script", g.scripts},
		{"movement", system.NewMovementSystem(set)},
		{"physics", system.NewPhysicsSystem(set, system.DefaultGravity, 1)},
		{"ttl", system.NewTTLSystem(set)},
		{"camera", g.camera},
		{"draw_list", g.drawList},
		{"events", ecs.SystemFunc(g.logEvents)},
	} {
		if err := g.scheduler.Add(s.name, s.sys); err != nil {
			return nil, err
		}
	}
	g.scheduler.LogSystemsInfo(logger.Info()).Msg("systems registered")

	if _, err := entity.LoadScene(w, set, g.loader, cfg.Scene); err != nil {
		return nil, err
	}

	if cfg.Prefabs.Watch {
		g.watcher, err = prefabs.WatchLoader(g.loader)
		if err != nil {
			// hot reload is optional; the embedded prefabs still work
			logger.Warn().Err(err).Str("dir", cfg.Prefabs.Dir).Msg("prefab watcher disabled")
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	g.pollWatcher()

	if err := g.scheduler.Update(g.world); err != nil {
		return err
	}
	if g.debug {
		if err := g.world.Validate(); err != nil {
			return eris.Wrap(err, "world validation failed")
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x1b, G: 0x1d, B: 0x24, A: 0xff})
	g.renderer.Draw(screen, g.drawList.Items())
	if g.debug {
		g.renderer.DrawStats(screen, g.world, ebiten.ActualFPS())
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.SetViewport(float64(outsideWidth), float64(outsideHeight))
	g.drawList.SetViewport(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Close stops the prefab watcher and flushes metrics.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	_ = g.stats.Close()
}

// logEvents is the last system of the frame; it reports what earlier systems
// queued before the scheduler flushes the queue.
func (g *Game) logEvents(w *ecs.World) error {
	logger := w.Logger()
	for _, evt := range w.Events().Peek() {
		switch evt.Type {
		case ecs.EventScriptError:
			err, _ := evt.Data.(error)
			logger.Error().Err(err).Stringer("entity", evt.Entity).Msg("script error")
		default:
			logger.Debug().Str("event", evt.Type).Stringer("entity", evt.Entity).Interface("data", evt.Data).Msg("event")
		}
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Kind == prefabs.ScriptChanged {
				g.scripts.Invalidate(prefabs.ScriptName(change.Path))
			}
			g.reloadScene(change.Path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn().Err(err).Msg("prefab watcher error")
		default:
			return
		}
	}
}

// reloadScene rebuilds the world from the scene file. A scene that fails to
// load leaves the world empty until the next change fixes it.
func (g *Game) reloadScene(changed string) {
	g.world.Clear()
	spawned, err := entity.LoadScene(g.world, g.set, g.loader, g.cfg.Scene)
	if err != nil {
		g.logger.Error().Err(err).Str("changed", changed).Msg("scene reload failed")
		return
	}
	g.logger.Info().Str("changed", changed).Int("entities", len(spawned)).Msg("scene reloaded")
}

// newModelLibrary loads every embedded model image. A model that fails to
// decode is drawn as a plain rectangle.
func newModelLibrary(logger zerolog.Logger) *render.Library {
	lib := render.NewLibrary()
	for name, file := range assets.Models() {
		if err := lib.LoadFile(assets.FS, name, file); err != nil {
			logger.Warn().Err(err).Str("model", name).Msg("model not loaded")
		}
	}
	return lib
}
