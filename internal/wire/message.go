// Package wire defines the sync messages exchanged over the data
// channel and the serializable form of board elements. The envelope
// follows the same tagged-record shape on both sides: a type string
// plus a type-dependent payload.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
)

// Message kinds. FullState flows host→guest exactly once per session;
// the rest flow both ways. There is no sequence number: the channel
// is ordered and the last update delivered wins.
const (
	TypeFullState = "full_state"
	TypeAdd       = "add_element"
	TypeRemove    = "remove_element"
	TypeUpdate    = "update_element"
	TypeClear     = "clear_board"
)

// Message is the envelope for every data-channel frame.
type Message struct {
	Type     string        `json:"type"`
	Elements []Element     `json:"elements,omitempty"`
	Element  *Element      `json:"element,omitempty"`
	ID       string        `json:"id,omitempty"`
	Update   *board.Update `json:"update,omitempty"`
}

// Element kinds.
const (
	KindPath  = "path"
	KindImage = "image"
)

// Element is the wire form of a board element. Image elements carry
// their encoded source bytes in place of the local bitmap handle;
// encoding/json transports them as base64.
type Element struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	Points []geom.Point `json:"points,omitempty"`
	Color  string       `json:"color,omitempty"`
	Width  float64      `json:"width,omitempty"`
	Tool   string       `json:"tool,omitempty"`

	Source []byte  `json:"source,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	W      float64 `json:"width_px,omitempty"`
	H      float64 `json:"height_px,omitempty"`
	Locked bool    `json:"locked,omitempty"`
}

// FromBoard converts a store element into its wire form.
func FromBoard(e board.Element) Element {
	switch el := e.(type) {
	case *board.PathElement:
		return Element{
			ID:     el.EID,
			Kind:   KindPath,
			Points: el.Path.Points,
			Color:  el.Path.Color,
			Width:  el.Path.Width,
			Tool:   string(el.Path.Tool),
		}
	case *board.ImageElement:
		return Element{
			ID:     el.EID,
			Kind:   KindImage,
			Source: el.Source,
			X:      el.Rect.X,
			Y:      el.Rect.Y,
			W:      el.Rect.Width,
			H:      el.Rect.Height,
			Locked: el.Locked,
		}
	}
	return Element{}
}

// ToBoard reconstructs a store element, decoding the bitmap handle
// from the encoded source for images.
func (e Element) ToBoard() (board.Element, error) {
	switch e.Kind {
	case KindPath:
		return &board.PathElement{
			EID: e.ID,
			Path: board.Path{
				Points: e.Points,
				Color:  e.Color,
				Width:  e.Width,
				Tool:   board.Tool(e.Tool),
			},
		}, nil
	case KindImage:
		bitmap, err := board.DecodeImage(e.Source)
		if err != nil {
			return nil, err
		}
		return &board.ImageElement{
			EID:    e.ID,
			Bitmap: bitmap,
			Source: e.Source,
			Rect:   geom.Rect{X: e.X, Y: e.Y, Width: e.W, Height: e.H},
			Locked: e.Locked,
		}, nil
	}
	return nil, fmt.Errorf("unknown element kind %q", e.Kind)
}

// Convenience constructors for the sender side.

func FullState(elements []board.Element) Message {
	wires := make([]Element, 0, len(elements))
	for _, e := range elements {
		wires = append(wires, FromBoard(e))
	}
	return Message{Type: TypeFullState, Elements: wires}
}

func AddElement(e board.Element) Message {
	we := FromBoard(e)
	return Message{Type: TypeAdd, Element: &we}
}

func RemoveElement(id string) Message {
	return Message{Type: TypeRemove, ID: id}
}

func UpdateElement(id string, u board.Update) Message {
	return Message{Type: TypeUpdate, ID: id, Update: &u}
}

func ClearBoard() Message {
	return Message{Type: TypeClear}
}

// Encode marshals a message to its JSON frame.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", m.Type, err)
	}
	return data, nil
}

// Decode parses a JSON frame. Unknown types are not rejected here;
// the apply layer ignores them.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	return m, nil
}
