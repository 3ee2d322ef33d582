package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads filename with the default loader and decodes it into T.
func LoadSpec[T any](filename string) (T, error) {
	return LoadSpecWith[T](defaultLoader, filename)
}

// LoadSpecWith is LoadSpec with an explicit loader.
func LoadSpecWith[T any](l *Loader, filename string) (T, error) {
	var zero T
	data, err := l.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec lists the prefabs that make up a scene.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []SceneEntry `yaml:"entities"`
}

// SceneEntry spawns Count copies of a prefab. The first copy is placed at At
// and each following copy is offset by Step.
type SceneEntry struct {
	Prefab string     `yaml:"prefab"`
	Name   string     `yaml:"name"`
	Count  int        `yaml:"count"`
	At     *PointSpec `yaml:"at"`
	Step   PointSpec  `yaml:"step"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func LoadSceneSpec(l *Loader, filename string) (SceneSpec, error) {
	spec, err := LoadSpecWith[SceneSpec](l, filename)
	if err != nil {
		return SceneSpec{}, err
	}
	for i, entry := range spec.Entities {
		if strings.TrimSpace(entry.Prefab) == "" {
			return SceneSpec{}, fmt.Errorf("prefabs: scene %s: entity %d has no prefab", filename, i)
		}
		if entry.Count < 0 {
			return SceneSpec{}, fmt.Errorf("prefabs: scene %s: entity %d has negative count", filename, i)
		}
	}
	return spec, nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa". A nil Color means unset.
type YAMLColor struct {
	color.Color
}

// NRGBA returns the color, or fallback when unset.
func (c YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(strings.TrimSpace(value.Value), "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
