// Package docimport turns an externally supplied paginated document
// into board images. Rasterization itself is a collaborator behind
// the Rasterizer interface; this package only does the layout, the
// page cap, and the all-or-nothing construction.
package docimport

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Rasterizer renders document pages into bitmaps. The PDF engine
// behind it lives outside this module.
type Rasterizer interface {
	PageCount() int
	RenderPage(ctx context.Context, index int) (image.Image, error)
}

// Options bound and lay out an import.
type Options struct {
	// MaxPages caps how many pages are imported.
	MaxPages int
	// Spacing is the vertical gap between pages, document units.
	Spacing float64
	// Origin is the top-left corner of the first page.
	Origin geom.Point
}

// Import builds one unlocked ImageElement per page, stacked
// top-to-bottom. Every page is rasterized and encoded before anything
// is returned: a failure on any page aborts the whole import so no
// partial page set ever reaches the store.
func Import(ctx context.Context, r Rasterizer, opts Options) ([]*board.ImageElement, error) {
	pages := r.PageCount()
	if pages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	if opts.MaxPages > 0 && pages > opts.MaxPages {
		log.Printf("[import] document has %d pages, importing first %d", pages, opts.MaxPages)
		pages = opts.MaxPages
	}

	elements := make([]*board.ImageElement, 0, pages)
	y := opts.Origin.Y
	for i := 0; i < pages; i++ {
		bitmap, err := r.RenderPage(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		source, err := board.EncodeImage(bitmap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		bounds := bitmap.Bounds()
		w := float64(bounds.Dx())
		h := float64(bounds.Dy())
		elements = append(elements, &board.ImageElement{
			EID:    board.NewID(),
			Bitmap: bitmap,
			Source: source,
			Rect:   geom.Rect{X: opts.Origin.X, Y: y, Width: w, Height: h},
		})
		y += h + opts.Spacing
	}
	return elements, nil
}
