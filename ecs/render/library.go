package render

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Library maps Render.Model names to images.
type Library struct {
	mu     sync.RWMutex
	images map[string]*ebiten.Image
}

func NewLibrary() *Library {
	return &Library{images: make(map[string]*ebiten.Image)}
}

// Register stores an image by key. Empty keys and nil images are ignored.
func (l *Library) Register(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	l.mu.Lock()
	l.images[key] = img
	l.mu.Unlock()
}

// Get returns the image registered under key, or nil.
func (l *Library) Get(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.images[key]
}

// Len returns the number of registered images.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// LoadFile decodes path from fsys and registers it under key.
func (l *Library) LoadFile(fsys fs.FS, key, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("render: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("render: decode %s: %w", path, err)
	}
	l.Register(key, ebiten.NewImageFromImage(img))
	return nil
}
