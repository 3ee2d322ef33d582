// Package assets embeds the model images referenced by the bundled prefabs.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.png
var FS embed.FS

// Models maps a Render.Model name to its file in FS. The name is the file's
// base name without extension.
func Models() map[string]string {
	out := make(map[string]string)
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".png") {
			continue
		}
		out[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = e.Name()
	}
	return out
}

// ModelNames returns the sorted keys of Models.
func ModelNames() []string {
	m := Models()
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
