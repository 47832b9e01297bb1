// Package export writes the current board to a PDF.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

const pageWidthMM = 190.0 // A4 printable width

// PDF renders the element set, in z-order, scaled to fit an A4 page,
// and writes the file to path.
func PDF(path string, elements []board.Element) error {
	bounds, ok := contentBounds(elements)
	if !ok {
		return fmt.Errorf("nothing to export")
	}
	scale := pageWidthMM / bounds.Width

	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for i, e := range elements {
		switch el := e.(type) {
		case *board.PathElement:
			drawPath(p, el.Path, bounds, scale)
		case *board.ImageElement:
			if err := drawImage(p, el, i, bounds, scale); err != nil {
				return err
			}
		}
	}
	return p.OutputFileAndClose(path)
}

func contentBounds(elements []board.Element) (geom.Rect, bool) {
	var bounds geom.Rect
	found := false
	for _, e := range elements {
		var r geom.Rect
		switch el := e.(type) {
		case *board.PathElement:
			r = geom.Bounds(el.Path.Points, el.Path.Width)
		case *board.ImageElement:
			r = el.Rect
		}
		if !found {
			bounds = r
			found = true
		} else {
			bounds = geom.Union(bounds, r)
		}
	}
	if bounds.Width <= 0 {
		return geom.Rect{}, false
	}
	return bounds, found
}

func drawPath(p *gofpdf.Fpdf, path board.Path, bounds geom.Rect, scale float64) {
	if len(path.Points) < 2 {
		return
	}
	r, g, b := hexRGB255(path.Color)
	if path.Tool == board.ToolEraser {
		r, g, b = 255, 255, 255
	}
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(path.Width * scale)
	p.SetLineCapStyle("round")
	for i := 1; i < len(path.Points); i++ {
		p1 := path.Points[i-1]
		p2 := path.Points[i]
		p.Line(
			(p1.X-bounds.X)*scale, (p1.Y-bounds.Y)*scale,
			(p2.X-bounds.X)*scale, (p2.Y-bounds.Y)*scale,
		)
	}
}

func drawImage(p *gofpdf.Fpdf, el *board.ImageElement, index int, bounds geom.Rect, scale float64) error {
	if len(el.Source) == 0 {
		return nil
	}
	name := fmt.Sprintf("board-image-%d", index)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(name, opts, bytes.NewReader(el.Source))
	p.ImageOptions(
		name,
		(el.Rect.X-bounds.X)*scale, (el.Rect.Y-bounds.Y)*scale,
		el.Rect.Width*scale, el.Rect.Height*scale,
		false, opts, 0, "",
	)
	if p.Err() {
		return fmt.Errorf("failed to embed image: %v", p.Error())
	}
	return nil
}

func hexRGB255(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	r, _ := strconv.ParseUint(s[1:3], 16, 8)
	g, _ := strconv.ParseUint(s[3:5], 16, 8)
	b, _ := strconv.ParseUint(s[5:7], 16, 8)
	return int(r), int(g), int(b)
}
