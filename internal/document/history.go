package document

// history keeps undo and redo stacks of whole states. States are
// immutable, so an entry is just a pointer.
type history struct {
	undo []*State
	redo []*State
	max  int
}

func (h *history) record(prev *State) {
	h.undo = append(h.undo, prev)
	if len(h.undo) > h.max {
		h.undo = h.undo[len(h.undo)-h.max:]
	}
	h.redo = nil
}

func (h *history) popUndo(current *State) (*State, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

func (h *history) popRedo(current *State) (*State, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}
