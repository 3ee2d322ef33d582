package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is one prefab file: a display name and a map of component
// name to that component's spec.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(l *Loader, filename string) (EntityBuildSpec, error) {
	return LoadSpecWith[EntityBuildSpec](l, filename)
}

// DecodeComponentSpec converts one entry of EntityBuildSpec.Components into
// its typed spec. A nil entry, as written by a bare "ttl:" key, decodes to
// the zero value.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type VelocityComponentSpec struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Angular float64 `yaml:"angular"`
}

type CameraComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
	FovY       float64 `yaml:"fovy"`
	ZNear      float64 `yaml:"znear"`
	ZFar       float64 `yaml:"zfar"`
	Inactive   bool    `yaml:"inactive"`
}

type LabelComponentSpec struct {
	Name string `yaml:"name"`
}

type RenderComponentSpec struct {
	Model  string    `yaml:"model"`
	Color  YAMLColor `yaml:"color"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Layer  int       `yaml:"layer"`
	Static bool      `yaml:"static"`
	Hidden bool      `yaml:"hidden"`
}

type RigidBodyComponentSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Static     bool    `yaml:"static"`
}

// ScriptComponentSpec names a script file under scripts/, or carries the
// program inline in Source.
type ScriptComponentSpec struct {
	File   string `yaml:"file"`
	Source string `yaml:"source"`
}

type TTLComponentSpec struct {
	Frames int `yaml:"frames"`
}
