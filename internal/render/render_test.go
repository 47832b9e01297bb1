package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

func frameWith(elements ...board.Element) Frame {
	return Frame{Elements: elements, View: geom.NewViewTransform()}
}

func pixelsEqual(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}

func TestRenderIsDeterministic(t *testing.T) {
	f := frameWith(&board.PathElement{
		EID:  "p",
		Path: board.Path{Points: []geom.Point{{X: 10, Y: 10}, {X: 90, Y: 40}}, Color: "#e03131", Width: 4, Tool: board.ToolPen},
	})

	first := Render(120, 80, f)
	second := Render(120, 80, f)
	assert.True(t, pixelsEqual(first, second), "same frame must produce identical pixels")
}

func TestEmptyFrameIsBackground(t *testing.T) {
	img := Render(40, 30, frameWith())
	r, g, b, _ := img.At(20, 15).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestStrokeChangesPixels(t *testing.T) {
	empty := Render(100, 100, frameWith())
	inked := Render(100, 100, frameWith(&board.PathElement{
		EID:  "p",
		Path: board.Path{Points: []geom.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#1d1d1f", Width: 4, Tool: board.ToolPen},
	}))
	assert.False(t, pixelsEqual(empty, inked))

	r, g, b, _ := inked.At(50, 50).RGBA()
	assert.Less(t, r, uint32(0x8000), "stroke core is dark")
	assert.Less(t, g, uint32(0x8000))
	assert.Less(t, b, uint32(0x8000))
}

func TestEraserPaintsBackground(t *testing.T) {
	stroke := board.Path{Points: []geom.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#1d1d1f", Width: 8, Tool: board.ToolPen}
	// Wider than the stroke so the opaque eraser core covers the
	// stroke's antialiased fringe completely.
	erase := stroke
	erase.Width = 16
	erase.Tool = board.ToolEraser

	covered := Render(100, 100, frameWith(
		&board.PathElement{EID: "p", Path: stroke},
		&board.PathElement{EID: "e", Path: erase},
	))
	blank := Render(100, 100, frameWith())
	assert.True(t, pixelsEqual(covered, blank), "an eraser stroke over a pen stroke restores the background")
}

func TestHighlighterLeavesInkVisible(t *testing.T) {
	stroke := board.Path{Points: []geom.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#1d1d1f", Width: 8, Tool: board.ToolPen}
	highlight := board.Path{Points: []geom.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#ffd43b", Width: 16, Tool: board.ToolHighlighter}

	img := Render(100, 100, frameWith(
		&board.PathElement{EID: "p", Path: stroke},
		&board.PathElement{EID: "h", Path: highlight},
	))
	r, _, _, _ := img.At(50, 50).RGBA()
	assert.Less(t, r, uint32(0x8000), "the translucent highlighter does not hide the stroke")
}

func TestViewTransformMovesContent(t *testing.T) {
	path := &board.PathElement{
		EID:  "p",
		Path: board.Path{Points: []geom.Point{{X: 10, Y: 10}, {X: 30, Y: 10}}, Color: "#1d1d1f", Width: 4, Tool: board.ToolPen},
	}

	f := frameWith(path)
	f.View.Offset = geom.Point{X: 50, Y: 0}
	shifted := Render(100, 100, f)

	r, _, _, _ := shifted.At(20, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r, "the original position is empty after panning")
	r, _, _, _ = shifted.At(70, 10).RGBA()
	assert.Less(t, r, uint32(0x8000), "the stroke moved with the offset")
}

func TestImageDrawnIntoRect(t *testing.T) {
	bitmap := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bitmap.Set(x, y, image.Black)
		}
	}
	el := &board.ImageElement{
		EID:    "img",
		Bitmap: bitmap,
		Rect:   geom.Rect{X: 20, Y: 20, Width: 40, Height: 40},
	}

	img := Render(100, 100, frameWith(el))
	r, _, _, _ := img.At(40, 40).RGBA()
	assert.Less(t, r, uint32(0x8000), "inside the rect is painted")
	r, _, _, _ = img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r, "outside the rect stays background")
}

func TestSelectionChromeOnlyWithSelectTool(t *testing.T) {
	el := &board.ImageElement{
		EID:    "img",
		Bitmap: image.NewRGBA(image.Rect(0, 0, 10, 10)),
		Rect:   geom.Rect{X: 20, Y: 20, Width: 40, Height: 40},
	}

	plain := frameWith(el)
	selected := frameWith(el)
	selected.Selected = "img"
	selected.Tool = board.ToolSelect

	withChrome := Render(100, 100, selected)
	without := Render(100, 100, plain)
	require.False(t, pixelsEqual(withChrome, without))

	// Selection without the select tool active renders nothing extra.
	penSelected := frameWith(el)
	penSelected.Selected = "img"
	penSelected.Tool = board.ToolPen
	assert.True(t, pixelsEqual(Render(100, 100, penSelected), without))
}

func TestInProgressPathIsDrawn(t *testing.T) {
	f := frameWith()
	f.Current = &board.Path{
		Points: []geom.Point{{X: 10, Y: 50}, {X: 90, Y: 50}},
		Color:  "#1d1d1f", Width: 4, Tool: board.ToolPen,
	}
	img := Render(100, 100, f)
	r, _, _, _ := img.At(50, 50).RGBA()
	assert.Less(t, r, uint32(0x8000))
}

func TestHexRGBFallsBackToBlack(t *testing.T) {
	r, g, b := hexRGB("not-a-color")
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	r, g, b = hexRGB("#ff8000")
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.InDelta(t, 0x80/255.0, g, 1e-9)
	assert.InDelta(t, 0.0, b, 1e-9)
}
