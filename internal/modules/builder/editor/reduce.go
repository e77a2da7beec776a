package editor

import (
	"fmt"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/dropzone"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

// Result describes what a Reduce call did.
type Result struct {
	// Changed is set when the live document changed.
	Changed bool `json:"changed"`
	// Recorded is set when a new history entry was appended.
	Recorded bool `json:"recorded"`
	// NodeID is the id of a node created by an add action.
	NodeID string `json:"nodeId,omitempty"`
	// Rejected is set when a drop was refused by the drop rules.
	Rejected bool `json:"rejected,omitempty"`
}

// Reduce applies a to s. A document edit and its history entry are one step:
// either both happen or neither does. A stale target is a no-op, not an error;
// only an unrecognised action type returns an error.
func Reduce(s State, a Action) (State, Result, error) {
	switch a.Type {
	case ActionSelect:
		if !s.Document.Contains(a.Node, a.ID) {
			return s, Result{}, nil
		}
		s.Selection = s.Selection.Select(a.Node, a.ID)
		return s, Result{}, nil

	case ActionClearSelection:
		s.Selection = s.Selection.Clear()
		return s, Result{}, nil

	case ActionUndo:
		if !s.History.CanUndo() {
			return s, Result{}, nil
		}
		s.History = s.History.Undo()
		return s.follow(), Result{Changed: true}, nil

	case ActionRedo:
		if !s.History.CanRedo() {
			return s, Result{}, nil
		}
		s.History = s.History.Redo()
		return s.follow(), Result{Changed: true}, nil

	case ActionDrop:
		if a.Payload == nil {
			return s, Result{Rejected: true}, nil
		}
		return Apply(s, *a.Payload, a.Path)

	case ActionSetPublished:
		if a.Published == nil || *a.Published == s.Published {
			return s, Result{}, nil
		}
		s.Published = *a.Published
		s.Revision++
		return s, Result{}, nil

	case ActionLoad:
		doc := layout.Normalize(a.Document)
		s.Document = doc
		s.History = s.History.Load(doc)
		s.Selection = s.Selection.Clear()
		if a.Published != nil {
			s.Published = *a.Published
		}
		s.Revision++
		return s, Result{Changed: true}, nil
	}

	next, id, ok, err := mutate(s.Document, a)
	if err != nil {
		return s, Result{}, err
	}
	if !ok {
		return s, Result{}, nil
	}
	s.Document = next
	s.History = s.History.Record(next)
	s.Selection = s.Selection.Reconcile(next)
	s.Revision++
	return s, Result{Changed: true, Recorded: true, NodeID: id}, nil
}

// Apply resolves a drop and runs the create it stands for. A refused drop
// leaves s untouched.
func Apply(s State, p dropzone.Payload, target layout.Path) (State, Result, error) {
	in, ok := dropzone.Resolve(p, target)
	if !ok {
		return s, Result{Rejected: true}, nil
	}
	next, res, err := Reduce(s, FromIntent(in))
	if err != nil {
		return s, Result{}, err
	}
	if !res.Changed {
		// Target passed the level check but no longer exists.
		res.Rejected = true
	}
	return next, res, nil
}

// follow moves the live document to the history cursor.
func (s State) follow() State {
	s.Document = s.History.Current()
	s.Selection = s.Selection.Reconcile(s.Document)
	s.Revision++
	return s
}

func mutate(d layout.Document, a Action) (layout.Document, string, bool, error) {
	p := a.Path
	switch a.Type {
	case ActionAddSection:
		out, id := layout.AddSection(d, a.SectionKind)
		return out, id, true, nil
	case ActionUpdateSection:
		out, ok := layout.UpdateSection(d, p.Section, a.Props)
		return out, "", ok, nil
	case ActionRemoveSection:
		out, ok := layout.RemoveSection(d, p.Section)
		return out, "", ok, nil
	case ActionMoveSection:
		out, ok := layout.MoveSection(d, p.Section, a.Direction)
		return out, "", ok, nil

	case ActionAddRow:
		out, id, ok := layout.AddRow(d, p.Section, a.RowType)
		return out, id, ok, nil
	case ActionUpdateRow:
		out, ok := layout.UpdateRow(d, p, a.Props)
		return out, "", ok, nil
	case ActionRemoveRow:
		out, ok := layout.RemoveRow(d, p)
		return out, "", ok, nil
	case ActionMoveRow:
		out, ok := layout.MoveRow(d, p, a.Direction)
		return out, "", ok, nil

	case ActionAddColumn:
		out, id, ok := layout.AddColumn(d, p.Section, p.Row, a.Width)
		return out, id, ok, nil
	case ActionUpdateColumn:
		out, ok := layout.UpdateColumn(d, p, a.Props)
		return out, "", ok, nil
	case ActionRemoveColumn:
		out, ok := layout.RemoveColumn(d, p)
		return out, "", ok, nil
	case ActionMoveColumn:
		out, ok := layout.MoveColumn(d, p, a.Direction)
		return out, "", ok, nil

	case ActionAddBlock:
		if !a.BlockKind.Valid() {
			return d, "", false, nil
		}
		out, id, ok := layout.AddBlock(d, p.Section, p.Row, p.Column, a.BlockKind)
		return out, id, ok, nil
	case ActionUpdateBlock:
		out, ok := layout.UpdateBlock(d, p, a.Props)
		return out, "", ok, nil
	case ActionRemoveBlock:
		out, ok := layout.RemoveBlock(d, p)
		return out, "", ok, nil
	case ActionMoveBlock:
		out, ok := layout.MoveBlock(d, p, a.Direction)
		return out, "", ok, nil
	}
	return d, "", false, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}
