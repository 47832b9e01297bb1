// Package geom holds the pure coordinate math for the board: the
// document/screen transform, hit-testing and the resize-handle
// geometry. Nothing in here keeps state.
package geom

import "math"

// Point is a position in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in document space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewTransform maps document space to screen space:
// screen = document*Scale + Offset. Each peer has its own transform,
// it is never part of the synced state.
type ViewTransform struct {
	Scale  float64
	Offset Point
}

// NewViewTransform returns the identity viewport.
func NewViewTransform() ViewTransform {
	return ViewTransform{Scale: 1}
}

// ToDocument converts a screen position into document space by
// inverting the affine view transform.
func ToDocument(screen Point, vt ViewTransform) Point {
	return Point{
		X: (screen.X - vt.Offset.X) / vt.Scale,
		Y: (screen.Y - vt.Offset.Y) / vt.Scale,
	}
}

// ToScreen is the forward transform, used by the render pipeline.
func ToScreen(doc Point, vt ViewTransform) Point {
	return Point{
		X: doc.X*vt.Scale + vt.Offset.X,
		Y: doc.Y*vt.Scale + vt.Offset.Y,
	}
}

// HitSlackPx widens the effective stroke hit width so thin strokes
// stay clickable at any zoom. Screen pixels.
const HitSlackPx = 5.0

// HandleSidePx is the side of a corner resize handle, screen pixels.
const HandleSidePx = 12.0

// LockToggleSidePx is the side of the lock/unlock control drawn above
// an image's top-right corner. Screen pixels.
const LockToggleSidePx = 22.0

const lockToggleGapPx = 6.0

// Contains reports whether p falls inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Corner tags the four resize handles of an image.
type Corner int

const (
	CornerNone Corner = iota
	CornerTopLeft
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// Corners returns the four corner points of r in handle order.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X, r.Y + r.Height},
		{r.X + r.Width, r.Y + r.Height},
	}
}

// Opposite returns the corner diagonally across from c.
func (c Corner) Opposite() Corner {
	switch c {
	case CornerTopLeft:
		return CornerBottomRight
	case CornerTopRight:
		return CornerBottomLeft
	case CornerBottomLeft:
		return CornerTopRight
	case CornerBottomRight:
		return CornerTopLeft
	}
	return CornerNone
}

// CornerPoint returns the document-space position of corner c of r.
func (r Rect) CornerPoint(c Corner) Point {
	switch c {
	case CornerTopLeft:
		return Point{r.X, r.Y}
	case CornerTopRight:
		return Point{r.X + r.Width, r.Y}
	case CornerBottomLeft:
		return Point{r.X, r.Y + r.Height}
	case CornerBottomRight:
		return Point{r.X + r.Width, r.Y + r.Height}
	}
	return Point{}
}

// ResizeHandleAt reports which corner handle of r, if any, contains
// the document-space point p. The handle hit box is HandleSidePx on
// screen, so its document-space side shrinks as the view zooms in.
func ResizeHandleAt(p Point, r Rect, scale float64) Corner {
	half := HandleSidePx / 2 / scale
	corners := []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}
	for _, c := range corners {
		cp := r.CornerPoint(c)
		if math.Abs(p.X-cp.X) <= half && math.Abs(p.Y-cp.Y) <= half {
			return c
		}
	}
	return CornerNone
}

// LockToggleRect returns the document-space rectangle of the
// lock/unlock control, anchored above the top-right corner of r and
// sized in screen pixels.
func LockToggleRect(r Rect, scale float64) Rect {
	side := LockToggleSidePx / scale
	gap := lockToggleGapPx / scale
	return Rect{
		X:      r.X + r.Width - side,
		Y:      r.Y - side - gap,
		Width:  side,
		Height: side,
	}
}

// segmentDistance returns the distance from p to the segment a-b,
// clamping the projection parameter to [0,1].
func segmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	cx := a.X + t*dx
	cy := a.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}

// HitPath reports whether p lands on a polyline of the given stroke
// width. The slack keeps the effective hit width constant in screen
// pixels regardless of zoom.
func HitPath(p Point, points []Point, strokeWidth, scale float64) bool {
	if len(points) == 0 {
		return false
	}
	threshold := (strokeWidth/2 + HitSlackPx) / scale
	if len(points) == 1 {
		return math.Hypot(p.X-points[0].X, p.Y-points[0].Y) < threshold
	}
	for i := 0; i < len(points)-1; i++ {
		if segmentDistance(p, points[i], points[i+1]) < threshold {
			return true
		}
	}
	return false
}

// Resize recomputes an image rectangle while a corner is dragged.
// The corner opposite the dragged one stays fixed and the original
// aspect ratio is preserved; the shorter edge never goes below
// minSize. The candidate size follows the larger of the two
// mouse-implied dimensions so the image tracks the dominant axis of
// the drag.
func Resize(corner Corner, orig Rect, mouse Point, minSize float64) Rect {
	aspect := orig.Width / orig.Height
	anchor := orig.CornerPoint(corner.Opposite())

	dx := math.Abs(mouse.X - anchor.X)
	dy := math.Abs(mouse.Y - anchor.Y)

	w := math.Max(dx, dy*aspect)
	h := w / aspect
	if aspect >= 1 {
		if h < minSize {
			h = minSize
			w = h * aspect
		}
	} else {
		if w < minSize {
			w = minSize
			h = w / aspect
		}
	}

	switch corner {
	case CornerTopLeft:
		return Rect{anchor.X - w, anchor.Y - h, w, h}
	case CornerTopRight:
		return Rect{anchor.X, anchor.Y - h, w, h}
	case CornerBottomLeft:
		return Rect{anchor.X - w, anchor.Y, w, h}
	case CornerBottomRight:
		return Rect{anchor.X, anchor.Y, w, h}
	}
	return orig
}

// Bounds returns the bounding box of a point set, padded on every
// side. Used by the PDF exporter to frame the drawing.
func Bounds(points []Point, padding float64) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}

// Union returns the smallest rectangle covering both a and b.
func Union(a, b Rect) Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
