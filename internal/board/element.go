// Package board holds the shared canvas state: the element union, the
// ordered element store and the local undo history. The store is the
// single source of truth on a peer; the only external mutator besides
// local input is the sync layer applying a remote message.
package board

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/segmentio/ksuid"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Tool identifies the stroke tools. The tool a path was drawn with is
// part of the path itself because it decides the render blend: the
// highlighter draws translucent, the eraser draws in the board
// background color (an additive white stroke, not a pixel erase).
type Tool string

const (
	ToolPen          Tool = "pen"
	ToolHighlighter  Tool = "highlighter"
	ToolEraser       Tool = "eraser"
	ToolSelect       Tool = "select"
	ToolStrokeEraser Tool = "stroke_eraser"
)

// Drawing tools open a path on pointer-down; the others do not.
func (t Tool) Draws() bool {
	switch t {
	case ToolPen, ToolHighlighter, ToolEraser:
		return true
	}
	return false
}

// Path is a committed freehand stroke. Immutable once in the store.
type Path struct {
	Points []geom.Point
	Color  string
	Width  float64
	Tool   Tool
}

// Element is one drawable unit on the board.
type Element interface {
	ID() string
}

// PathElement wraps a committed Path.
type PathElement struct {
	EID  string
	Path Path
}

func (e *PathElement) ID() string { return e.EID }

// ImageElement is a bitmap placed on the board. Bitmap is the local
// decoded handle and never crosses the wire; Source is the
// self-contained encoded payload the other peer decodes on receipt.
type ImageElement struct {
	EID    string
	Bitmap image.Image
	Source []byte
	Rect   geom.Rect
	Locked bool
}

func (e *ImageElement) ID() string { return e.EID }

// NewID returns a fresh element id. KSUIDs are time-ordered and carry
// enough randomness that both peers can mint ids in the same instant
// without colliding.
func NewID() string {
	return ksuid.New().String()
}

// EncodeImage serializes a decoded bitmap into the PNG payload used
// as an ImageElement source.
func EncodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage reconstructs the local bitmap handle from an element's
// encoded source.
func DecodeImage(source []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image source: %w", err)
	}
	return img, nil
}
