// Package render rasterizes a frame of the board. It is a pure
// pipeline: given the element snapshot, the selection, the view
// transform and the in-progress path it always produces the same
// image and mutates nothing, so it is safe to call on every change.
package render

import (
	"image"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Background is the board color. Eraser strokes paint with it.
const Background = "#ffffff"

const (
	highlighterAlpha = 0.35
	borderWidthPx    = 2.0
	selectionColor   = "#2f6fed"
)

// Frame is everything one render pass needs.
type Frame struct {
	Elements []board.Element
	Selected string
	View     geom.ViewTransform
	Tool     board.Tool
	Current  *board.Path
}

// Render draws the frame onto a fresh w×h canvas: background, every
// element in store order, the uncommitted path, then the selection
// chrome when the select tool has an image selected.
func Render(w, h int, f Frame) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetHexColor(Background)
	dc.Clear()

	for _, e := range f.Elements {
		switch el := e.(type) {
		case *board.PathElement:
			drawPath(dc, el.Path, f.View)
		case *board.ImageElement:
			drawImage(dc, el, f.View)
		}
	}

	if f.Current != nil {
		// The open path still carries its screen-time width; it is
		// normalized by the zoom only at commit.
		current := *f.Current
		current.Width = current.Width / f.View.Scale
		drawPath(dc, current, f.View)
	}

	if f.Tool == board.ToolSelect && f.Selected != "" {
		for _, e := range f.Elements {
			if img, ok := e.(*board.ImageElement); ok && img.EID == f.Selected {
				drawSelection(dc, img, f.View)
			}
		}
	}

	return dc.Image()
}

func drawPath(dc *gg.Context, p board.Path, vt geom.ViewTransform) {
	if len(p.Points) < 2 {
		return
	}
	r, g, b := hexRGB(p.Color)
	switch p.Tool {
	case board.ToolHighlighter:
		dc.SetRGBA(r, g, b, highlighterAlpha)
	case board.ToolEraser:
		dc.SetHexColor(Background)
	default:
		dc.SetRGB(r, g, b)
	}
	dc.SetLineWidth(p.Width * vt.Scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for i, pt := range p.Points {
		sp := geom.ToScreen(pt, vt)
		if i == 0 {
			dc.MoveTo(sp.X, sp.Y)
		} else {
			dc.LineTo(sp.X, sp.Y)
		}
	}
	dc.Stroke()
}

func drawImage(dc *gg.Context, el *board.ImageElement, vt geom.ViewTransform) {
	if el.Bitmap == nil {
		return
	}
	bounds := el.Bitmap.Bounds()
	iw := float64(bounds.Dx())
	ih := float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	topLeft := geom.ToScreen(geom.Point{X: el.Rect.X, Y: el.Rect.Y}, vt)
	dc.Push()
	dc.Translate(topLeft.X, topLeft.Y)
	dc.Scale(el.Rect.Width*vt.Scale/iw, el.Rect.Height*vt.Scale/ih)
	dc.DrawImage(el.Bitmap, 0, 0)
	dc.Pop()
}

// drawSelection paints the border, the corner handles when unlocked,
// and the lock toggle above the top-right corner. All sizes are
// screen pixels, so the chrome stays the same size at any zoom.
func drawSelection(dc *gg.Context, el *board.ImageElement, vt geom.ViewTransform) {
	topLeft := geom.ToScreen(geom.Point{X: el.Rect.X, Y: el.Rect.Y}, vt)
	w := el.Rect.Width * vt.Scale
	h := el.Rect.Height * vt.Scale

	dc.SetHexColor(selectionColor)
	dc.SetLineWidth(borderWidthPx)
	if el.Locked {
		dc.SetDash(6, 4)
	}
	dc.DrawRectangle(topLeft.X, topLeft.Y, w, h)
	dc.Stroke()
	dc.SetDash()

	if !el.Locked {
		half := geom.HandleSidePx / 2
		for _, c := range el.Rect.Corners() {
			sp := geom.ToScreen(c, vt)
			dc.SetHexColor("#ffffff")
			dc.DrawRectangle(sp.X-half, sp.Y-half, geom.HandleSidePx, geom.HandleSidePx)
			dc.FillPreserve()
			dc.SetHexColor(selectionColor)
			dc.SetLineWidth(1.5)
			dc.Stroke()
		}
	}

	toggle := geom.LockToggleRect(el.Rect, vt.Scale)
	tp := geom.ToScreen(geom.Point{X: toggle.X, Y: toggle.Y}, vt)
	side := geom.LockToggleSidePx
	dc.SetHexColor(selectionColor)
	dc.DrawRoundedRectangle(tp.X, tp.Y, side, side, 4)
	dc.Fill()

	// Padlock glyph: body plus shackle, open when unlocked.
	dc.SetHexColor("#ffffff")
	bx := tp.X + side*0.28
	by := tp.Y + side*0.45
	bw := side * 0.44
	bh := side * 0.34
	dc.DrawRectangle(bx, by, bw, bh)
	dc.Fill()
	dc.SetLineWidth(2)
	if el.Locked {
		dc.DrawArc(bx+bw/2, by, bw*0.35, gg.Radians(180), gg.Radians(360))
	} else {
		dc.DrawArc(bx+bw/2, by, bw*0.35, gg.Radians(200), gg.Radians(320))
	}
	dc.Stroke()
}

// hexRGB parses "#rrggbb" into 0..1 components, falling back to black
// on anything malformed.
func hexRGB(s string) (float64, float64, float64) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return float64(r) / 255, float64(g) / 255, float64(b) / 255
}
