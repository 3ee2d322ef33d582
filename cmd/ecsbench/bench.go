package main

import (
	"math/rand"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
	"github.com/milk9111/waterdrop/ecs/system"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type benchOptions struct {
	// World is the base world config; MaxEntities is replaced by Entities.
	World    ecs.Config
	Entities int
	Frames   int
	TTLEvery int
	Seed     int64
	Stats    ddstatsd.ClientInterface
}

type benchResult struct {
	Frames  int
	Alive   int
	Spawned int
	Expired int
	Elapsed time.Duration
}

func (r benchResult) PerFrame() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
}

// runBench keeps opts.Entities entities alive for opts.Frames frames. Expired
// entities are replaced by a refill system so the free list is exercised.
func runBench(opts benchOptions, logger zerolog.Logger) (benchResult, error) {
	if opts.Entities <= 0 || opts.Frames < 0 {
		return benchResult{}, eris.Wrapf(ecs.ErrInvalidConfig, "entities=%d frames=%d", opts.Entities, opts.Frames)
	}

	cfg := opts.World
	if cfg == (ecs.Config{}) {
		cfg = ecs.DefaultConfig()
	}
	cfg.MaxEntities = opts.Entities
	w, err := ecs.NewWorld(cfg, ecs.WithLogger(logger))
	if err != nil {
		return benchResult{}, err
	}
	set, err := component.Register(w)
	if err != nil {
		return benchResult{}, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var res benchResult

	spawn := func(w *ecs.World) error {
		e, err := w.CreateEntity()
		if err != nil {
			return err
		}
		res.Spawned++
		if err := set.Transform.Attach(e, component.NewTransform(rng.Float64()*1000, rng.Float64()*1000)); err != nil {
			return err
		}
		if err := set.Velocity.Attach(e, component.Velocity{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}); err != nil {
			return err
		}
		if opts.TTLEvery > 0 && res.Spawned%opts.TTLEvery == 0 {
			return set.TTL.Attach(e, component.TTL{Frames: 1 + rng.Intn(60)})
		}
		return nil
	}

	scheduler := ecs.NewScheduler(ecs.WithStatsd(opts.Stats))
	if err := scheduler.Add("movement", system.NewMovementSystem(set)); err != nil {
		return benchResult{}, err
	}
	if err := scheduler.Add("ttl", system.NewTTLSystem(set)); err != nil {
		return benchResult{}, err
	}
	if err := scheduler.AddFunc("refill", func(w *ecs.World) error {
		for _, evt := range w.Events().Peek() {
			if evt.Type == ecs.EventEntityExpired {
				res.Expired++
			}
		}
		for w.Len() < w.Cap() {
			if err := spawn(w); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return benchResult{}, err
	}

	for w.Len() < w.Cap() {
		if err := spawn(w); err != nil {
			return benchResult{}, err
		}
	}

	start := time.Now()
	for range opts.Frames {
		if err := scheduler.Update(w); err != nil {
			return res, err
		}
		res.Frames++
	}
	res.Elapsed = time.Since(start)
	res.Alive = w.Len()

	logger.Info().
		Int("frames", res.Frames).
		Int("entities", res.Alive).
		Dur("elapsed", res.Elapsed).
		Dur("per_frame", res.PerFrame()).
		Msg("benchmark finished")
	return res, nil
}
