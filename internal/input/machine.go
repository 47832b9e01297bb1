// Package input implements the pointer-driven interaction state
// machine. It consumes pointer events plus the active tool, mutates
// the element store and the local view transform, and reports every
// structural mutation to an Emitter so the sync layer can put it on
// the wire.
package input

import (
	"image"
	"log"

	xdraw "golang.org/x/image/draw"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Action is the machine's current gesture. Exactly one is active at a
// time; a pointer-down while one is running is ignored.
type Action int

const (
	Idle Action = iota
	Drawing
	Panning
	Moving
	Resizing
)

// Button distinguishes the pressed pointer button. Secondary and
// middle always pan, whatever the tool.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Emitter receives the sync consequence of each local mutation. The
// peer link implements it; a nil emitter means the board is offline
// and mutations stay local.
type Emitter interface {
	ElementAdded(e board.Element)
	ElementRemoved(id string)
	ElementUpdated(id string, u board.Update)
	BoardCleared()
}

const (
	minZoom      = 0.3
	maxZoom      = 3.0
	minImageSize = 40.0
)

// Machine drives one peer's canvas interaction.
type Machine struct {
	store   *board.Store
	history *board.History
	emitter Emitter

	view  geom.ViewTransform
	tool  board.Tool
	color string
	width float64

	action     Action
	current    *board.Path
	selected   string
	corner     geom.Corner
	resizeOrig geom.Rect
	last       geom.Point // document-space move anchor
	panAnchor  geom.Point // screen-space pan anchor
}

func NewMachine(store *board.Store) *Machine {
	return &Machine{
		store:   store,
		history: board.NewHistory(),
		view:    geom.NewViewTransform(),
		tool:    board.ToolPen,
		color:   "#1d1d1f",
		width:   3,
	}
}

func (m *Machine) SetEmitter(e Emitter) { m.emitter = e }

func (m *Machine) Action() Action           { return m.action }
func (m *Machine) Tool() board.Tool         { return m.tool }
func (m *Machine) Selected() string         { return m.selected }
func (m *Machine) CurrentPath() *board.Path { return m.current }
func (m *Machine) View() geom.ViewTransform { return m.view }
func (m *Machine) Store() *board.Store      { return m.store }
func (m *Machine) History() *board.History  { return m.history }

func (m *Machine) SetColor(c string)  { m.color = c }
func (m *Machine) SetWidth(w float64) { m.width = w }

// SetTool switches the active tool. Moving away from the select tool
// drops the selection.
func (m *Machine) SetTool(t board.Tool) {
	if t != board.ToolSelect {
		m.selected = ""
	}
	m.tool = t
}

// Zoom scales the view by factor, keeping the document point under
// the given screen position fixed.
func (m *Machine) Zoom(factor float64, at geom.Point) {
	newScale := m.view.Scale * factor
	if newScale < minZoom {
		newScale = minZoom
	}
	if newScale > maxZoom {
		newScale = maxZoom
	}
	doc := geom.ToDocument(at, m.view)
	m.view.Scale = newScale
	m.view.Offset = geom.Point{
		X: at.X - doc.X*newScale,
		Y: at.Y - doc.Y*newScale,
	}
}

// PointerDown starts a gesture. The dispatch order for the select
// tool matters: lock toggle first, then resize handles, then body
// hits, and only images ever participate.
func (m *Machine) PointerDown(screen geom.Point, button Button) {
	if m.action != Idle {
		return
	}
	if button == ButtonSecondary || button == ButtonMiddle {
		m.action = Panning
		m.panAnchor = screen
		return
	}

	doc := geom.ToDocument(screen, m.view)

	switch {
	case m.tool == board.ToolStrokeEraser:
		m.eraseAt(doc)
	case m.tool == board.ToolSelect:
		m.selectAt(doc)
	case m.tool.Draws():
		m.selected = ""
		m.action = Drawing
		m.current = &board.Path{
			Points: []geom.Point{doc},
			Color:  m.color,
			Width:  m.width,
			Tool:   m.tool,
		}
	}
}

// eraseAt removes the topmost element under the click, paths first,
// then unlocked images. Fire-and-forget, no gesture state.
func (m *Machine) eraseAt(doc geom.Point) {
	if pe := m.store.PathAt(doc, m.view.Scale); pe != nil {
		m.removeElement(pe.EID)
		return
	}
	if img := m.store.UnlockedImageAt(doc); img != nil {
		m.removeElement(img.EID)
	}
}

func (m *Machine) removeElement(id string) {
	e, index, ok := m.store.Remove(id)
	if !ok {
		return
	}
	m.history.Record(board.Action{Type: board.ActionRemove, Element: e, Index: index})
	if m.emitter != nil {
		m.emitter.ElementRemoved(id)
	}
}

func (m *Machine) selectAt(doc geom.Point) {
	if m.selected != "" {
		if img, ok := m.store.Image(m.selected); ok {
			if geom.LockToggleRect(img.Rect, m.view.Scale).Contains(doc) {
				locked, _ := m.store.ToggleLock(img.EID)
				if m.emitter != nil {
					m.emitter.ElementUpdated(img.EID, board.Update{Locked: &locked})
				}
				return
			}
			if !img.Locked {
				if corner := geom.ResizeHandleAt(doc, img.Rect, m.view.Scale); corner != geom.CornerNone {
					m.action = Resizing
					m.corner = corner
					m.resizeOrig = img.Rect
					return
				}
			}
		}
	}

	if img := m.store.ImageAt(doc); img != nil {
		m.selected = img.EID
		if !img.Locked {
			m.action = Moving
			m.last = doc
		}
		return
	}
	m.selected = ""
}

// PointerMove advances the active gesture. Nothing reaches the store
// while drawing; the open path is committed only on release.
func (m *Machine) PointerMove(screen geom.Point) {
	switch m.action {
	case Drawing:
		doc := geom.ToDocument(screen, m.view)
		m.current.Points = append(m.current.Points, doc)
	case Panning:
		m.view.Offset.X += screen.X - m.panAnchor.X
		m.view.Offset.Y += screen.Y - m.panAnchor.Y
		m.panAnchor = screen
	case Moving:
		doc := geom.ToDocument(screen, m.view)
		m.store.TranslateImage(m.selected, doc.X-m.last.X, doc.Y-m.last.Y)
		m.last = doc
	case Resizing:
		doc := geom.ToDocument(screen, m.view)
		r := geom.Resize(m.corner, m.resizeOrig, doc, minImageSize)
		m.store.SetImageRect(m.selected, r)
	}
}

// PointerUp ends the active gesture. A drawn path needs at least two
// points to be committed; its stroke width is normalized by the zoom
// at commit time so it keeps the apparent thickness it was drawn at.
func (m *Machine) PointerUp() {
	switch m.action {
	case Drawing:
		if m.current != nil && len(m.current.Points) >= 2 {
			path := *m.current
			path.Width = path.Width / m.view.Scale
			e := &board.PathElement{EID: board.NewID(), Path: path}
			m.store.Add(e)
			m.history.Record(board.Action{Type: board.ActionAdd, Element: e})
			if m.emitter != nil {
				m.emitter.ElementAdded(e)
			}
		}
		m.current = nil
	case Moving, Resizing:
		m.history.InvalidateRedo()
		m.emitFinalRect()
	}
	m.action = Idle
}

// PointerLeave is an implicit release.
func (m *Machine) PointerLeave() {
	m.PointerUp()
}

// emitFinalRect sends one UpdateElement with the gesture's end
// geometry. Intermediate frames are never synced; the peers only
// reconverge on the final rectangle.
func (m *Machine) emitFinalRect() {
	if m.emitter == nil || m.selected == "" {
		return
	}
	img, ok := m.store.Image(m.selected)
	if !ok {
		return
	}
	r := img.Rect
	m.emitter.ElementUpdated(img.EID, board.Update{
		X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height,
	})
}

// PasteImage places an externally pasted bitmap on the board, capped
// to half the canvas width and centered on the visible viewport. It
// bypasses the pointer machine entirely.
func (m *Machine) PasteImage(src image.Image, canvasW, canvasH float64) (board.Element, error) {
	bounds := src.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w > canvasW/2 {
		scale := canvasW / 2 / w
		dst := image.NewRGBA(image.Rect(0, 0, int(w*scale), int(h*scale)))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
		w = float64(dst.Bounds().Dx())
		h = float64(dst.Bounds().Dy())
	}

	source, err := board.EncodeImage(src)
	if err != nil {
		return nil, err
	}

	center := geom.ToDocument(geom.Point{X: canvasW / 2, Y: canvasH / 2}, m.view)
	e := &board.ImageElement{
		EID:    board.NewID(),
		Bitmap: src,
		Source: source,
		Rect:   geom.Rect{X: center.X - w/2, Y: center.Y - h/2, Width: w, Height: h},
	}
	m.InsertElement(e)
	return e, nil
}

// InsertElement adds an already-built element as a local mutation:
// store, history and wire in one step. Paste and document import go
// through here.
func (m *Machine) InsertElement(e board.Element) {
	if !m.store.Add(e) {
		return
	}
	m.history.Record(board.Action{Type: board.ActionAdd, Element: e})
	if m.emitter != nil {
		m.emitter.ElementAdded(e)
	}
}

// ClearBoard wipes the local store and tells the peer to do the same.
func (m *Machine) ClearBoard() {
	snapshot := m.store.Clear()
	m.selected = ""
	m.history.Record(board.Action{Type: board.ActionClear, Snapshot: snapshot})
	if m.emitter != nil {
		m.emitter.BoardCleared()
	}
	log.Printf("[input] board cleared, %d elements dropped", len(snapshot))
}

// Undo rewinds the most recent local structural mutation and emits
// the inverse wire message so both boards stay aligned.
func (m *Machine) Undo() {
	a, ok := m.history.Undo()
	if !ok {
		return
	}
	switch a.Type {
	case board.ActionAdd:
		if _, _, ok := m.store.Remove(a.Element.ID()); ok {
			if m.selected == a.Element.ID() {
				m.selected = ""
			}
			if m.emitter != nil {
				m.emitter.ElementRemoved(a.Element.ID())
			}
		}
	case board.ActionRemove:
		if m.store.InsertAt(a.Index, a.Element) {
			if m.emitter != nil {
				m.emitter.ElementAdded(a.Element)
			}
		}
	case board.ActionClear:
		for _, e := range a.Snapshot {
			if m.store.Add(e) {
				if m.emitter != nil {
					m.emitter.ElementAdded(e)
				}
			}
		}
	}
}

// Redo replays the most recently undone mutation.
func (m *Machine) Redo() {
	a, ok := m.history.Redo()
	if !ok {
		return
	}
	switch a.Type {
	case board.ActionAdd:
		if m.store.Add(a.Element) {
			if m.emitter != nil {
				m.emitter.ElementAdded(a.Element)
			}
		}
	case board.ActionRemove:
		if _, _, ok := m.store.Remove(a.Element.ID()); ok {
			if m.emitter != nil {
				m.emitter.ElementRemoved(a.Element.ID())
			}
		}
	case board.ActionClear:
		for _, e := range a.Snapshot {
			if _, _, ok := m.store.Remove(e.ID()); ok {
				if m.emitter != nil {
					m.emitter.ElementRemoved(e.ID())
				}
			}
		}
	}
}
