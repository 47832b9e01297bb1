package board

// ActionType tags an entry in the undo history.
type ActionType int

const (
	ActionAdd ActionType = iota
	ActionRemove
	ActionClear
)

// Action records one local structural mutation with enough context to
// invert it: the element and its z-index for add/remove, the full
// snapshot for clear. Remote mutations are never recorded; undo only
// rewinds what this peer did.
type Action struct {
	Type     ActionType
	Element  Element
	Index    int
	Snapshot []Element
}

// History is a two-stack undo model. Recording a new action
// invalidates the redo stack, as does finishing a move or resize
// gesture.
type History struct {
	undo []Action
	redo []Action
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Record(a Action) {
	h.undo = append(h.undo, a)
	h.redo = h.redo[:0]
}

// InvalidateRedo drops pending redos without recording anything.
func (h *History) InvalidateRedo() {
	h.redo = h.redo[:0]
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo pops the most recent action and moves it to the redo stack.
// The caller applies the inverse mutation.
func (h *History) Undo() (Action, bool) {
	if len(h.undo) == 0 {
		return Action{}, false
	}
	a := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, a)
	return a, true
}

// Redo pops the most recently undone action back onto the undo stack.
func (h *History) Redo() (Action, bool) {
	if len(h.redo) == 0 {
		return Action{}, false
	}
	a := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, a)
	return a, true
}
