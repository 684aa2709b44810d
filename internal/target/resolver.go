// Package target resolves pointer coordinates to edit-eligible elements.
//
// The browser client reports the geometry of the editable surface: the
// surface bounds and one box per element, each keyed by its node path into
// the document tree. Resolution is pure geometry over that report; outline
// and selection state live with the edit session.
package target

import "sync"

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) area() float64 {
	return r.W * r.H
}

// Box is one element's reported geometry. Path identifies the node within
// the document (child indices joined by '/'), Depth its nesting depth.
type Box struct {
	Path  string `json:"path"`
	Tag   string `json:"tag"`
	Depth int    `json:"depth"`
	Rect  Rect   `json:"rect"`
}

// Layout is a full geometry report for one page.
type Layout struct {
	Surface Rect  `json:"surface"`
	Boxes   []Box `json:"boxes"`
}

// Resolver holds the most recent layout report and answers point queries.
type Resolver struct {
	mu     sync.RWMutex
	layout Layout
	loaded bool
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SetLayout replaces the geometry report. The client sends a fresh report
// whenever the rendered document changes.
func (r *Resolver) SetLayout(l Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = l
	r.loaded = true
}

// Resolve returns the most specific eligible element under (x, y): deepest
// first, smallest area on equal depth. The second return is false when the
// point is outside the surface, no layout has been reported, or nothing
// eligible contains the point.
func (r *Resolver) Resolve(x, y float64, eligible func(tag string) bool) (Box, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.loaded || !r.layout.Surface.Contains(x, y) {
		return Box{}, false
	}

	var best Box
	found := false
	for _, b := range r.layout.Boxes {
		if !b.Rect.Contains(x, y) || !eligible(b.Tag) {
			continue
		}
		if !found || deeper(b, best) {
			best = b
			found = true
		}
	}
	return best, found
}

// deeper reports whether a is a more specific match than b.
func deeper(a, b Box) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.Rect.area() < b.Rect.area()
}
