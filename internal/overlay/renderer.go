package overlay

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

type spriteKind int

const (
	kindTarget spriteKind = iota
	kindBang
)

type spriteKey struct {
	kind spriteKind
	size int
}

// maxCached bounds the resized sprite cache. The game uses one radius, so
// this only matters when the radius is changed at runtime.
const maxCached = 8

// Renderer draws target and bang sprites sized to their hit radius.
type Renderer struct {
	mu     sync.Mutex
	target gocv.Mat
	bang   gocv.Mat
	cache  map[spriteKey]gocv.Mat
}

// NewRenderer loads the target and bang sprites. An empty path selects the
// built-in sprite for that slot.
func NewRenderer(targetPath, bangPath string) (*Renderer, error) {
	target, err := spriteOrDefault(targetPath, NewRingSprite)
	if err != nil {
		return nil, err
	}
	bang, err := spriteOrDefault(bangPath, NewBangSprite)
	if err != nil {
		target.Close()
		return nil, err
	}

	return &Renderer{
		target: target,
		bang:   bang,
		cache:  make(map[spriteKey]gocv.Mat),
	}, nil
}

func spriteOrDefault(path string, fallback func() gocv.Mat) (gocv.Mat, error) {
	if path == "" {
		return fallback(), nil
	}
	return LoadSprite(path)
}

// PutTarget draws the target sprite centered at center for hit radius radius.
func (r *Renderer) PutTarget(dst *gocv.Mat, center image.Point, radius float64) error {
	return r.put(dst, kindTarget, center, radius)
}

// PutBang draws the hit marker sprite centered at center for hit radius radius.
func (r *Renderer) PutBang(dst *gocv.Mat, center image.Point, radius float64) error {
	return r.put(dst, kindBang, center, radius)
}

func (r *Renderer) put(dst *gocv.Mat, kind spriteKind, center image.Point, radius float64) error {
	size := SpriteSize(radius)
	if size <= 0 {
		return nil
	}
	return PutImage(dst, r.sized(kind, size), center)
}

// sized returns the sprite of the given kind resized to size x size. The
// Renderer owns the returned Mat.
func (r *Renderer) sized(kind spriteKind, size int) gocv.Mat {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := spriteKey{kind: kind, size: size}
	if m, ok := r.cache[key]; ok {
		return m
	}

	src := r.target
	if kind == kindBang {
		src = r.bang
	}

	if len(r.cache) >= maxCached {
		r.clearCache()
	}

	resized := gocv.NewMat()
	gocv.Resize(src, &resized, image.Pt(size, size), 0, 0, gocv.InterpolationArea)
	r.cache[key] = resized
	return resized
}

func (r *Renderer) clearCache() {
	for k, m := range r.cache {
		m.Close()
		delete(r.cache, k)
	}
}

// Close releases all sprite memory.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearCache()
	r.target.Close()
	r.bang.Close()
	return nil
}
