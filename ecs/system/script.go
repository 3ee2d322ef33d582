package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/waterdrop/ecs"
	"github.com/milk9111/waterdrop/ecs/component"
)

// scriptDispatch is appended to every program; update must be defined by the
// program itself.
const scriptDispatch = `
update(__engine)
`

// ScriptSystem runs each Script component's tengo program once per frame.
//
// A program is compiled once per Script.Name and cloned per entity. Globals
// are reset on every run; values that must survive between frames go in the
// per-entity e.state map. A program that fails to compile or run is disabled
// and reported with an EventScriptError event; it does not fail the frame.
type ScriptSystem struct {
	set *component.Set

	programs map[string]*tengo.Compiled
	runtimes map[ecs.Entity]*scriptRuntime
	frame    int64
}

type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

func NewScriptSystem(set *component.Set) *ScriptSystem {
	return &ScriptSystem{
		set:      set,
		programs: make(map[string]*tengo.Compiled),
		runtimes: make(map[ecs.Entity]*scriptRuntime),
	}
}

// Invalidate drops the compiled program for name so the next frame compiles
// the entity's current Source. Used by prefab hot reload.
func (s *ScriptSystem) Invalidate(name string) {
	delete(s.programs, name)
	for e, rt := range s.runtimes {
		if rt.name == name {
			delete(s.runtimes, e)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World) error {
	if w == nil {
		return ecs.ErrNilWorld
	}
	s.frame++

	for e := range s.runtimes {
		if !s.set.Script.Has(e) {
			delete(s.runtimes, e)
		}
	}

	var destroy []ecs.Entity
	s.set.Script.Each(func(e ecs.Entity, sc *component.Script) bool {
		if sc.Disabled {
			return true
		}
		rt, err := s.runtime(e, sc)
		if err == nil {
			engine := s.buildEngine(w, e, rt.state, &destroy)
			if err = rt.compiled.Set("__engine", engine); err == nil {
				err = rt.compiled.Run()
			}
		}
		if err != nil {
			sc.Disabled = true
			logger := w.Logger()
			logger.Warn().Err(err).Str("script", sc.Name).Stringer("entity", e).Msg("script disabled")
			w.Events().Push(ecs.Event{Type: ecs.EventScriptError, Entity: e, Data: err})
		}
		return true
	})

	for _, e := range destroy {
		if !w.IsAlive(e) {
			continue
		}
		if err := w.DestroyEntity(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.name == sc.Name {
		return rt, nil
	}
	program, ok := s.programs[sc.Name]
	if !ok {
		var err error
		program, err = compileScript(sc.Source)
		if err != nil {
			return nil, fmt.Errorf("compile script %q: %w", sc.Name, err)
		}
		s.programs[sc.Name] = program
	}
	rt := &scriptRuntime{
		name:     sc.Name,
		compiled: program.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.runtimes[e] = rt
	return rt, nil
}

func compileScript(source string) (*tengo.Compiled, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("empty script")
	}
	script := tengo.NewScript([]byte(source + "\n" + scriptDispatch))
	if err := script.Add("__engine", map[string]any{}); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// buildEngine exposes the entity to its program. Destruction is deferred until
// every script has run.
func (s *ScriptSystem) buildEngine(w *ecs.World, e ecs.Entity, state *tengo.Map, destroy *[]ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"entity": &tengo.Int{Value: int64(e)},
		"frame":  &tengo.Int{Value: s.frame},
		"state":  state,
	}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		tr, ok := s.set.Transform.Value(e)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return floatPair(tr.X, tr.Y), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		tr, getErr := s.set.Transform.Get(e)
		if getErr != nil {
			return tengo.FalseValue, nil
		}
		tr.X, tr.Y = x, y
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		vel, ok := s.set.Velocity.Value(e)
		if !ok {
			return floatPair(0, 0), nil
		}
		return floatPair(vel.X, vel.Y), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		vel, _ := s.set.Velocity.Value(e)
		vel.X, vel.Y = x, y
		if err := s.set.Velocity.Attach(e, vel); err != nil {
			return tengo.FalseValue, nil
		}
		if rb, err := s.set.RigidBody.Get(e); err == nil && rb.Body != nil && !rb.Static {
			rb.Body.SetVelocity(x, y)
		}
		return tengo.TrueValue, nil
	}}

	values["label"] = &tengo.UserFunction{Name: "label", Value: func(args ...tengo.Object) (tengo.Object, error) {
		l, _ := s.set.Label.Value(e)
		return &tengo.String{Value: l.Name}, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name, ok := tengo.ToString(args[0])
		if !ok || strings.TrimSpace(name) == "" {
			return tengo.FalseValue, nil
		}
		evt := ecs.Event{Type: name, Entity: e}
		if len(args) > 1 {
			evt.Data = tengo.ToInterface(args[1])
		}
		w.Events().Push(evt)
		return tengo.TrueValue, nil
	}}

	values["destroy"] = &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		*destroy = append(*destroy, e)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func floatPair(x, y float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}

func floatArgs(args []tengo.Object) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "x", Expected: "float", Found: args[0].TypeName()}
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "y", Expected: "float", Found: args[1].TypeName()}
	}
	return x, y, nil
}
