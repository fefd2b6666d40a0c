package editor

import "github.com/codedeck/backend/internal/shared/id"

// DefaultHistoryLimit bounds the undo stack. Oldest entries are evicted
// past this point; losing the ability to undo that far back is the
// documented cost of keeping a long session's memory flat.
const DefaultHistoryLimit = 200

// Action is one reversible editor action. It is a closed sum: content
// edits and tab closures share a single interleaved history so undo
// order across both kinds is correct by construction.
type Action interface {
	isAction()
}

// ContentAction records a draft text replacement on an open tab
type ContentAction struct {
	TabID    id.NodeID `json:"tab_id"`
	Previous string    `json:"previous"`
	Next     string    `json:"next"`
}

// TabCloseAction records a tab removal. Snapshot captures the exact tab
// state at close time, unsaved draft included, so undo reopens it
// verbatim.
type TabCloseAction struct {
	TabID    id.NodeID `json:"tab_id"`
	Snapshot Tab       `json:"snapshot"`
}

func (ContentAction) isAction()  {}
func (TabCloseAction) isAction() {}

// history holds the undo and redo stacks. The two are disjoint: an
// action moves between them during undo/redo and any fresh user action
// clears redo. Not safe for concurrent use; the Manager's lock covers it.
type history struct {
	limit int
	undo  []Action
	redo  []Action
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{limit: limit}
}

// record pushes a fresh user action, clearing redo
func (h *history) record(a Action) {
	h.redo = nil
	h.pushUndo(a)
}

// pushUndo appends without touching redo (used by the redo path)
func (h *history) pushUndo(a Action) {
	h.undo = append(h.undo, a)
	if len(h.undo) > h.limit {
		// Evict the oldest entry. Shift instead of reslice so the
		// backing array does not pin evicted snapshots.
		copy(h.undo, h.undo[1:])
		h.undo[len(h.undo)-1] = nil
		h.undo = h.undo[:len(h.undo)-1]
	}
}

func (h *history) pushRedo(a Action) {
	h.redo = append(h.redo, a)
}

func (h *history) popUndo() (Action, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	a := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	return a, true
}

func (h *history) popRedo() (Action, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	a := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	return a, true
}

func (h *history) clearRedo() {
	h.redo = nil
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

func (h *history) depths() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
