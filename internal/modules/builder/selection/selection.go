package selection

import (
	"encoding/json"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

// Selection names the single active node.
type Selection struct {
	Kind layout.NodeKind `json:"type"`
	ID   string          `json:"id"`
}

// Tracker holds at most one Selection. Like history it is a value type.
type Tracker struct {
	sel Selection
	set bool
}

// Select sets the selection without checking that the node exists; callers
// that remove nodes are responsible for calling ClearIf or Reconcile.
func (t Tracker) Select(kind layout.NodeKind, id string) Tracker {
	if !kind.Valid() || id == "" {
		return Tracker{}
	}
	return Tracker{sel: Selection{Kind: kind, ID: id}, set: true}
}

func (t Tracker) Clear() Tracker { return Tracker{} }

func (t Tracker) Current() (Selection, bool) { return t.sel, t.set }

func (t Tracker) Is(kind layout.NodeKind, id string) bool {
	return t.set && t.sel.Kind == kind && t.sel.ID == id
}

// ClearIf clears the selection only when it references kind/id.
func (t Tracker) ClearIf(kind layout.NodeKind, id string) Tracker {
	if t.Is(kind, id) {
		return Tracker{}
	}
	return t
}

// Reconcile drops a selection that no longer resolves in doc. Removing a
// section therefore also clears a selected row, column or block inside it.
func (t Tracker) Reconcile(doc layout.Document) Tracker {
	if !t.set || doc.Contains(t.sel.Kind, t.sel.ID) {
		return t
	}
	return Tracker{}
}

// MarshalJSON renders the tracker as the selection object or null.
func (t Tracker) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.sel)
}
