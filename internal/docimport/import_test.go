package docimport

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// fakeRasterizer renders fixed-size blank pages and can be told to
// fail at a given page.
type fakeRasterizer struct {
	pages    int
	w, h     int
	failAt   int
	rendered int
}

func (f *fakeRasterizer) PageCount() int { return f.pages }

func (f *fakeRasterizer) RenderPage(ctx context.Context, index int) (image.Image, error) {
	if f.failAt > 0 && index+1 == f.failAt {
		return nil, errors.New("render failed")
	}
	f.rendered++
	return image.NewRGBA(image.Rect(0, 0, f.w, f.h)), nil
}

func TestImportStacksPages(t *testing.T) {
	r := &fakeRasterizer{pages: 3, w: 200, h: 300}
	elements, err := Import(context.Background(), r, Options{
		MaxPages: 20,
		Spacing:  20,
		Origin:   geom.Point{X: 50, Y: 100},
	})
	require.NoError(t, err)
	require.Len(t, elements, 3)

	for i, e := range elements {
		assert.Equal(t, 50.0, e.Rect.X)
		assert.Equal(t, 100.0+float64(i)*320, e.Rect.Y, "page %d sits below the previous one", i+1)
		assert.Equal(t, 200.0, e.Rect.Width)
		assert.Equal(t, 300.0, e.Rect.Height)
		assert.False(t, e.Locked)
		assert.NotEmpty(t, e.Source)
		assert.NotEmpty(t, e.EID)
	}
	assert.NotEqual(t, elements[0].EID, elements[1].EID)
}

func TestImportCapsPageCount(t *testing.T) {
	r := &fakeRasterizer{pages: 50, w: 10, h: 10}
	elements, err := Import(context.Background(), r, Options{MaxPages: 20})
	require.NoError(t, err)
	assert.Len(t, elements, 20)
	assert.Equal(t, 20, r.rendered, "pages past the cap are never rasterized")
}

func TestImportFailureLeavesNothing(t *testing.T) {
	r := &fakeRasterizer{pages: 5, w: 10, h: 10, failAt: 3}
	elements, err := Import(context.Background(), r, Options{MaxPages: 20})
	assert.Error(t, err)
	assert.Nil(t, elements, "a mid-import failure must not yield partial pages")
}

func TestImportEmptyDocument(t *testing.T) {
	r := &fakeRasterizer{pages: 0}
	_, err := Import(context.Background(), r, Options{MaxPages: 20})
	assert.Error(t, err)
}
