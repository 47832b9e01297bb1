package export

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

func TestPDFWritesFile(t *testing.T) {
	source, err := board.EncodeImage(image.NewRGBA(image.Rect(0, 0, 20, 10)))
	require.NoError(t, err)

	elements := []board.Element{
		&board.PathElement{
			EID:  "p",
			Path: board.Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 200, Y: 100}}, Color: "#e03131", Width: 3, Tool: board.ToolPen},
		},
		&board.ImageElement{
			EID:    "img",
			Source: source,
			Rect:   geom.Rect{X: 50, Y: 120, Width: 200, Height: 100},
		},
	}

	path := filepath.Join(t.TempDir(), "quadro.pdf")
	require.NoError(t, PDF(path, elements))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFEmptyBoardRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vazio.pdf")
	err := PDF(path, nil)
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file is written for an empty board")
}

func TestContentBoundsSpansAllElements(t *testing.T) {
	elements := []board.Element{
		&board.PathElement{
			EID:  "p",
			Path: board.Path{Points: []geom.Point{{X: 10, Y: 10}, {X: 110, Y: 10}}, Width: 4, Tool: board.ToolPen},
		},
		&board.ImageElement{EID: "img", Rect: geom.Rect{X: 200, Y: 50, Width: 100, Height: 80}},
	}

	bounds, ok := contentBounds(elements)
	require.True(t, ok)
	assert.LessOrEqual(t, bounds.X, 10.0)
	assert.GreaterOrEqual(t, bounds.X+bounds.Width, 300.0)
	assert.GreaterOrEqual(t, bounds.Y+bounds.Height, 130.0)
}
