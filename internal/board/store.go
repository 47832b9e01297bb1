package board

import (
	"log"
	"sync"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Store is the ordered element collection of one peer. Order is
// z-order: later elements render on top and win hit-tests. Element
// ids are unique within the store at all times.
type Store struct {
	mu       sync.RWMutex
	elements []Element
}

func NewStore() *Store {
	return &Store{elements: make([]Element, 0)}
}

// Elements returns a snapshot of the store in z-order.
func (s *Store) Elements() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// Get returns the element with the given id.
func (s *Store) Get(id string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.elements {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Add appends e unless an element with the same id is already
// present, which makes duplicate delivery of an AddElement harmless.
func (s *Store) Add(e Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.elements {
		if existing.ID() == e.ID() {
			log.Printf("[board] element %s already present, ignoring", e.ID())
			return false
		}
	}
	s.elements = append(s.elements, e)
	return true
}

// InsertAt restores an element at a given z-index, used by undo to
// put a removed element back where it was. Out-of-range indices
// append.
func (s *Store) InsertAt(index int, e Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.elements {
		if existing.ID() == e.ID() {
			return false
		}
	}
	if index < 0 || index > len(s.elements) {
		index = len(s.elements)
	}
	s.elements = append(s.elements, nil)
	copy(s.elements[index+1:], s.elements[index:])
	s.elements[index] = e
	return true
}

// Remove deletes the element with the given id and returns it with
// its former z-index. Removing an absent id is a no-op, not an error.
func (s *Store) Remove(id string) (Element, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.elements {
		if e.ID() == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return e, i, true
		}
	}
	return nil, 0, false
}

// Replace swaps the whole store for the given sequence. Used exactly
// once per session, when the host bootstraps a fresh guest.
func (s *Store) Replace(elements []Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = make([]Element, len(elements))
	copy(s.elements, elements)
}

// Clear empties the store and returns the removed elements so the
// caller can record an undo snapshot.
func (s *Store) Clear() []Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.elements
	s.elements = make([]Element, 0)
	return removed
}

// Update merges partial image fields into the element with the given
// id. Absent ids and non-image elements are no-ops. Nil fields are
// left untouched.
type Update struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Locked *bool    `json:"locked,omitempty"`
}

func (s *Store) Update(id string, u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.elements {
		img, ok := e.(*ImageElement)
		if !ok || img.EID != id {
			continue
		}
		if u.X != nil {
			img.Rect.X = *u.X
		}
		if u.Y != nil {
			img.Rect.Y = *u.Y
		}
		if u.Width != nil {
			img.Rect.Width = *u.Width
		}
		if u.Height != nil {
			img.Rect.Height = *u.Height
		}
		if u.Locked != nil {
			img.Locked = *u.Locked
		}
		return true
	}
	return false
}

// TranslateImage moves an unlocked image by a delta. The lock is
// checked here, on every step, not only when the drag starts.
func (s *Store) TranslateImage(id string, dx, dy float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.elements {
		if img, ok := e.(*ImageElement); ok && img.EID == id && !img.Locked {
			img.Rect.X += dx
			img.Rect.Y += dy
			return true
		}
	}
	return false
}

// SetImageRect replaces an unlocked image's rectangle.
func (s *Store) SetImageRect(id string, r geom.Rect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.elements {
		if img, ok := e.(*ImageElement); ok && img.EID == id && !img.Locked {
			img.Rect = r
			return true
		}
	}
	return false
}

// ToggleLock flips an image's locked flag and returns the new value.
func (s *Store) ToggleLock(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.elements {
		if img, ok := e.(*ImageElement); ok && img.EID == id {
			img.Locked = !img.Locked
			return img.Locked, true
		}
	}
	return false, false
}

// PathAt returns the topmost path element hit by the document-space
// point p, walking the store in reverse z-order.
func (s *Store) PathAt(p geom.Point, scale float64) *PathElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.elements) - 1; i >= 0; i-- {
		if pe, ok := s.elements[i].(*PathElement); ok {
			if geom.HitPath(p, pe.Path.Points, pe.Path.Width, scale) {
				return pe
			}
		}
	}
	return nil
}

// ImageAt returns the topmost image element whose rectangle contains
// p.
func (s *Store) ImageAt(p geom.Point) *ImageElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.elements) - 1; i >= 0; i-- {
		if img, ok := s.elements[i].(*ImageElement); ok {
			if img.Rect.Contains(p) {
				return img
			}
		}
	}
	return nil
}

// UnlockedImageAt returns the topmost unlocked image whose rectangle
// contains p. Locked images are skipped entirely, so one sitting on
// top does not shield an unlocked image beneath it from the stroke
// eraser.
func (s *Store) UnlockedImageAt(p geom.Point) *ImageElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.elements) - 1; i >= 0; i-- {
		if img, ok := s.elements[i].(*ImageElement); ok && !img.Locked {
			if img.Rect.Contains(p) {
				return img
			}
		}
	}
	return nil
}

// Image returns the image element with the given id.
func (s *Store) Image(id string) (*ImageElement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.elements {
		if img, ok := e.(*ImageElement); ok && img.EID == id {
			return img, true
		}
	}
	return nil, false
}
