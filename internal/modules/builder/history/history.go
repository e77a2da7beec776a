// Package history keeps whole-document snapshots for linear undo/redo.
package history

import "github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"

// History is a value type; every operation returns a new History and leaves
// the receiver usable. The zero value is an empty history with no limit.
type History struct {
	snapshots []layout.Document
	// pos is cursor+1 so the zero value means "no snapshot"
	pos   int
	limit int
}

// New returns an empty history that keeps at most limit snapshots. A limit of
// zero or less means unbounded.
func New(limit int) History {
	if limit < 0 {
		limit = 0
	}
	return History{limit: limit}
}

// Record discards everything after the cursor and appends a deep copy of doc.
func (h History) Record(doc layout.Document) History {
	keep := h.pos
	snaps := make([]layout.Document, keep, keep+1)
	copy(snaps, h.snapshots[:keep])
	snaps = append(snaps, doc.Clone())
	if h.limit > 0 && len(snaps) > h.limit {
		snaps = snaps[len(snaps)-h.limit:]
	}
	return History{snapshots: snaps, pos: len(snaps), limit: h.limit}
}

// Load resets history to the single snapshot doc. Loading is not undoable.
func (h History) Load(doc layout.Document) History {
	return History{snapshots: []layout.Document{doc.Clone()}, pos: 1, limit: h.limit}
}

func (h History) Undo() History {
	if !h.CanUndo() {
		return h
	}
	h.pos--
	return h
}

func (h History) Redo() History {
	if !h.CanRedo() {
		return h
	}
	h.pos++
	return h
}

func (h History) CanUndo() bool { return h.pos > 1 }
func (h History) CanRedo() bool { return h.pos < len(h.snapshots) }

// Index is the cursor position, -1 when empty.
func (h History) Index() int { return h.pos - 1 }

func (h History) Len() int { return len(h.snapshots) }

func (h History) Limit() int { return h.limit }

// Current returns an independent copy of the snapshot under the cursor, or an
// empty document when there is none.
func (h History) Current() layout.Document {
	if h.pos == 0 {
		return layout.Document{}
	}
	return h.snapshots[h.pos-1].Clone()
}
