// Package ui is the Fyne chrome around the board: the canvas widget,
// the toolbar and the application shell. All interaction logic lives
// in internal/input; this layer only translates events and repaints.
package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/input"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/render"
)

const zoomStep = 1.1

// BoardWidget paints the shared canvas and feeds pointer events into
// the interaction machine.
type BoardWidget struct {
	widget.BaseWidget
	machine *input.Machine
	raster  *canvas.Raster
	size    fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)

func NewBoardWidget(machine *input.Machine) *BoardWidget {
	b := &BoardWidget{machine: machine}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	return b
}

// draw is the raster callback; every refresh runs the render pipeline
// over a fresh snapshot.
func (b *BoardWidget) draw(w, h int) image.Image {
	return render.Render(w, h, render.Frame{
		Elements: b.machine.Store().Elements(),
		Selected: b.machine.Selected(),
		View:     b.machine.View(),
		Tool:     b.machine.Tool(),
		Current:  b.machine.CurrentPath(),
	})
}

// CanvasSize returns the widget size in pixels, which paste and
// import use to place content in the visible viewport.
func (b *BoardWidget) CanvasSize() (float64, float64) {
	return float64(b.size.Width), float64(b.size.Height)
}

// VisibleCenter is the document-space point at the middle of the
// viewport.
func (b *BoardWidget) VisibleCenter() geom.Point {
	w, h := b.CanvasSize()
	return geom.ToDocument(geom.Point{X: w / 2, Y: h / 2}, b.machine.View())
}

func toPoint(pos fyne.Position) geom.Point {
	return geom.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

func toButton(btn desktop.MouseButton) input.Button {
	switch btn {
	case desktop.MouseButtonSecondary:
		return input.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return input.ButtonMiddle
	}
	return input.ButtonPrimary
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	b.machine.PointerDown(toPoint(e.Position), toButton(e.Button))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.machine.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.machine.Action() == input.Idle {
		return
	}
	b.machine.PointerMove(toPoint(e.Position))
	b.Refresh()
}

// MouseOut is an implicit pointer release: a gesture never survives
// leaving the canvas.
func (b *BoardWidget) MouseOut() {
	b.machine.PointerLeave()
	b.Refresh()
}

// Scrolled zooms around the cursor.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	factor := zoomStep
	if e.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	b.machine.Zoom(factor, toPoint(e.Position))
	b.Refresh()
}

func (b *BoardWidget) Resize(size fyne.Size) {
	b.size = size
	b.BaseWidget.Resize(size)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

type boardRenderer struct {
	board *BoardWidget
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *boardRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardRenderer) Destroy() {}
