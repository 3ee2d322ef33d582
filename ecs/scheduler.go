package ecs

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// TickMetric is the timing metric emitted for every system run and once for
// the whole frame under the "all_systems" tag.
const TickMetric = "system.tick"

// System is one per-frame step.
type System interface {
	Update(w *World) error
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World) error

func (f SystemFunc) Update(w *World) error {
	return f(w)
}

// Scheduler runs named systems in registration order.
type Scheduler struct {
	// names keeps registration order; maps in Go are unordered.
	names   []string
	systems map[string]System

	current string
	stats   ddstatsd.ClientInterface
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithStatsd sends per-system timings to client.
func WithStatsd(client ddstatsd.ClientInterface) SchedulerOption {
	return func(s *Scheduler) {
		if client != nil {
			s.stats = client
		}
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		systems: make(map[string]System),
		stats:   &ddstatsd.NoOpClient{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a system under name. Duplicate names are rejected.
func (s *Scheduler) Add(name string, system System) error {
	if system == nil {
		return eris.Errorf("system %s is nil", name)
	}
	if _, ok := s.systems[name]; ok {
		return eris.Errorf("system with name %s already exists", name)
	}
	s.names = append(s.names, name)
	s.systems[name] = system
	return nil
}

// AddFunc registers fn under name.
func (s *Scheduler) AddFunc(name string, fn func(w *World) error) error {
	return s.Add(name, SystemFunc(fn))
}

// Update runs every system once and then clears the world's event queue.
// The first failing system stops the frame; its error is returned wrapped
// with the system name and events are left in place for inspection.
func (s *Scheduler) Update(w *World) error {
	if w == nil {
		return ErrNilWorld
	}
	frameStart := time.Now()
	base := w.logger
	defer func() {
		w.logger = base
		s.current = ""
	}()

	for _, name := range s.names {
		s.current = name
		// Inject the system name into the logger
		w.logger = base.With().Str("system", name).Logger()

		start := time.Now()
		if err := s.systems[name].Update(w); err != nil {
			return eris.Wrapf(err, "system %s generated an error", name)
		}
		s.emitTick(start, name)
	}
	s.emitTick(frameStart, "all_systems")

	w.events.flush()
	return nil
}

// Names returns the registered system names in run order.
func (s *Scheduler) Names() []string {
	return append([]string(nil), s.names...)
}

// Current returns the name of the running system, or "no_system".
func (s *Scheduler) Current() string {
	if s.current == "" {
		return "no_system"
	}
	return s.current
}

// LogSystemsInfo adds the system list to a log event.
func (s *Scheduler) LogSystemsInfo(logEvent *zerolog.Event) *zerolog.Event {
	logEvent.Int("total_systems", len(s.names))
	arr := zerolog.Arr()
	for _, name := range s.names {
		arr.Str(name)
	}
	return logEvent.Array("systems", arr)
}

func (s *Scheduler) emitTick(start time.Time, system string) {
	// A failed send only loses one sample.
	_ = s.stats.Timing(TickMetric, time.Since(start), []string{"system:" + system}, 1)
}
