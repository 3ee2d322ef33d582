package ecs

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns the entity manager, every component storage and the per-frame
// event queue. It does no locking: structural changes (create, destroy,
// attach, detach) must not run concurrently with anything else on the same
// world.
type World struct {
	cfg        Config
	logger     zerolog.Logger
	entities   *EntityManager
	components componentRegistry
	events     EventQueue
}

// NewWorld creates an empty world sized by cfg.
func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:        cfg,
		logger:     zerolog.Nop(),
		entities:   NewEntityManager(cfg.MaxEntities),
		components: newComponentRegistry(cfg.MaxComponents),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger.Info().
		Int("max_entities", cfg.MaxEntities).
		Int("max_components", cfg.MaxComponents).
		Msg("created world")
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Logger returns the world logger.
func (w *World) Logger() zerolog.Logger {
	return w.logger
}

// CreateEntity allocates an entity with no components.
func (w *World) CreateEntity() (Entity, error) {
	e, err := w.entities.Create()
	if err != nil {
		w.logger.Warn().Int("max_entities", w.cfg.MaxEntities).Msg("entity capacity exceeded")
		return 0, eris.Wrapf(err, "create entity: %d of %d slots in use", w.entities.Len(), w.entities.Cap())
	}
	return e, nil
}

// DestroyEntity detaches every component of e and frees its slot.
func (w *World) DestroyEntity(e Entity) error {
	idx, err := w.entities.resolve(e)
	if err != nil {
		return eris.Wrapf(err, "destroy entity %s", e)
	}
	for id := range w.entities.signatureAt(idx).IDs() {
		if store, ok := w.components.store(id); ok {
			store.remove(idx)
		}
	}
	if err := w.entities.Destroy(e); err != nil {
		return err
	}
	w.logger.Debug().Stringer("entity", e).Msg("destroyed entity")
	return nil
}

// IsAlive reports whether e refers to a living entity.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.IsAlive(e)
}

// Signature returns the set of components attached to e.
func (w *World) Signature(e Entity) (Signature, error) {
	return w.entities.Signature(e)
}

// Entities returns every living entity.
func (w *World) Entities() []Entity {
	return w.entities.Entities()
}

// Len returns the number of living entities.
func (w *World) Len() int {
	return w.entities.Len()
}

// Cap returns the entity capacity.
func (w *World) Cap() int {
	return w.entities.Cap()
}

// Clear destroys every living entity. Registered components stay registered.
func (w *World) Clear() {
	n := w.entities.Len()
	for e := range w.entities.All() {
		// All yields living handles only, so Destroy cannot fail here.
		_ = w.DestroyEntity(e)
	}
	w.logger.Debug().Int("destroyed", n).Msg("cleared world")
}

// Events returns the world's event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

// Components describes every registered component type in id order.
func (w *World) Components() []ComponentInfo {
	out := make([]ComponentInfo, 0, len(w.components.stores))
	for _, s := range w.components.stores {
		out = append(out, ComponentInfo{ID: s.ID(), Name: s.Name(), Type: s.Type(), Count: s.Len()})
	}
	return out
}

// ComponentByName looks up a registered component by name.
func (w *World) ComponentByName(name string) (ComponentInfo, bool) {
	id, ok := w.components.byName[name]
	if !ok {
		return ComponentInfo{}, false
	}
	s := w.components.stores[id]
	return ComponentInfo{ID: s.ID(), Name: s.Name(), Type: s.Type(), Count: s.Len()}, true
}

// SignatureOf builds a signature from component names.
func (w *World) SignatureOf(names ...string) (Signature, error) {
	var sig Signature
	for _, name := range names {
		id, ok := w.components.byName[name]
		if !ok {
			return Signature{}, eris.Wrapf(ErrUnknownComponent, "component %q", name)
		}
		sig.Set(id)
	}
	return sig, nil
}

// ValidateSignature reports ErrUnknownComponent if sig names a component id
// that was never registered.
func (w *World) ValidateSignature(sig Signature) error {
	if unknown := sig.Without(w.components.registered()); !unknown.IsEmpty() {
		return eris.Wrapf(ErrUnknownComponent, "component ids %s", unknown)
	}
	return nil
}

// AttachAny sets the component registered as name on e from an untyped value.
// v must be the component type or a pointer to it.
func (w *World) AttachAny(e Entity, name string, v any) error {
	id, ok := w.components.byName[name]
	if !ok {
		return eris.Wrapf(ErrUnknownComponent, "component %q", name)
	}
	idx, err := w.entities.resolve(e)
	if err != nil {
		return err
	}
	if err := w.components.stores[id].insertAny(idx, v); err != nil {
		return err
	}
	sig := w.entities.signatureAt(idx)
	sig.Set(id)
	w.entities.setSignatureAt(idx, sig)
	return nil
}

// Inspect returns a copy of every component on e keyed by component name.
func (w *World) Inspect(e Entity) (map[string]any, error) {
	idx, err := w.entities.resolve(e)
	if err != nil {
		return nil, err
	}
	sig := w.entities.signatureAt(idx)
	out := make(map[string]any, sig.Count())
	for id := range sig.IDs() {
		store, ok := w.components.store(id)
		if !ok {
			continue
		}
		if v, ok := store.getAny(idx); ok {
			out[store.Name()] = v
		}
	}
	return out, nil
}

// Validate checks that every storage is densely packed, that each living
// entity's signature matches the storages holding it, and that no storage
// holds a dead entity. A living index may appear only once.
func (w *World) Validate() error {
	for _, store := range w.components.stores {
		if err := store.validate(); err != nil {
			return err
		}
		for _, idx := range store.Entities() {
			if !w.entities.alive(idx) {
				return eris.Errorf("storage %s holds dead entity index %d", store.Name(), idx)
			}
		}
	}
	living := append([]EntityIndex(nil), w.entities.Living()...)
	sort.Slice(living, func(i, j int) bool { return living[i] < living[j] })
	for i, idx := range living {
		if i > 0 && living[i-1] == idx {
			return eris.Errorf("entity index %d is living twice", idx)
		}
		sig := w.entities.signatureAt(idx)
		if unknown := sig.Without(w.components.registered()); !unknown.IsEmpty() {
			return eris.Errorf("entity index %d has unregistered component bits %s", idx, unknown)
		}
		for _, store := range w.components.stores {
			if sig.Has(store.ID()) != store.Contains(idx) {
				return eris.Errorf("entity index %d: signature bit %d is %t but storage %s contains=%t",
					idx, store.ID(), sig.Has(store.ID()), store.Name(), store.Contains(idx))
			}
		}
	}
	return nil
}
