package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// DefaultDir is where prefab files are looked up on disk before falling back
// to the embedded copies.
const DefaultDir = "prefabs"

// Loader reads prefab and script files. Files under Dir override the embedded
// ones, so edits on disk take effect without a rebuild.
type Loader struct {
	Dir string
}

// NewLoader returns a loader reading from dir, or DefaultDir when dir is empty.
func NewLoader(dir string) *Loader {
	if dir == "" {
		dir = DefaultDir
	}
	return &Loader{Dir: dir}
}

var defaultLoader = NewLoader(DefaultDir)

// Load reads a prefab file with the default loader.
func Load(name string) ([]byte, error) {
	return defaultLoader.Load(name)
}

// LoadScript reads a script file with the default loader.
func LoadScript(name string) ([]byte, error) {
	return defaultLoader.LoadScript(name)
}

func (l *Loader) Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(l.diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func (l *Loader) LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(l.diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the modification time of the on-disk copy of name.
func (l *Loader) ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(l.diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// ScriptName returns the name a script file is referenced by, for example
// "bob.tengo" for "prefabs/scripts/bob.tengo".
func ScriptName(path string) string {
	return strings.TrimPrefix(cleanScriptPath(path), "scripts/")
}

func (l *Loader) diskPath(clean string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(clean))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
