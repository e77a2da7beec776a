package editor

import (
	"errors"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/dropzone"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

var ErrUnknownAction = errors.New("unknown editor action")

type ActionType string

const (
	ActionAddSection    ActionType = "add-section"
	ActionUpdateSection ActionType = "update-section"
	ActionRemoveSection ActionType = "remove-section"
	ActionMoveSection   ActionType = "move-section"

	ActionAddRow    ActionType = "add-row"
	ActionUpdateRow ActionType = "update-row"
	ActionRemoveRow ActionType = "remove-row"
	ActionMoveRow   ActionType = "move-row"

	ActionAddColumn    ActionType = "add-column"
	ActionUpdateColumn ActionType = "update-column"
	ActionRemoveColumn ActionType = "remove-column"
	ActionMoveColumn   ActionType = "move-column"

	ActionAddBlock    ActionType = "add-block"
	ActionUpdateBlock ActionType = "update-block"
	ActionRemoveBlock ActionType = "remove-block"
	ActionMoveBlock   ActionType = "move-block"

	ActionSelect         ActionType = "select"
	ActionClearSelection ActionType = "clear-selection"
	ActionUndo           ActionType = "undo"
	ActionRedo           ActionType = "redo"
	ActionDrop           ActionType = "drop"
	ActionSetPublished   ActionType = "set-published"
	ActionLoad           ActionType = "load"
)

// Action is one editor event. Which fields matter depends on Type; the rest
// are ignored.
type Action struct {
	Type ActionType  `json:"type"`
	Path layout.Path `json:"path"`

	SectionKind layout.SectionKind `json:"sectionKind,omitempty"`
	RowType     layout.RowType     `json:"rowType,omitempty"`
	Width       layout.WidthToken  `json:"width,omitempty"`
	BlockKind   layout.BlockKind   `json:"blockKind,omitempty"`
	Props       layout.Properties  `json:"props,omitempty"`
	Direction   layout.Direction   `json:"direction,omitempty"`

	// select
	Node layout.NodeKind `json:"node,omitempty"`
	ID   string          `json:"id,omitempty"`

	Payload   *dropzone.Payload `json:"payload,omitempty"`
	Published *bool             `json:"published,omitempty"`
	Document  layout.Document   `json:"document,omitempty"`
}

// FromIntent converts a resolved drop into the matching create action.
func FromIntent(in dropzone.Intent) Action {
	switch in.Op {
	case dropzone.OpCreateSection:
		return Action{Type: ActionAddSection, SectionKind: in.SectionKind}
	case dropzone.OpCreateRow:
		return Action{Type: ActionAddRow, Path: in.Target, RowType: in.RowType}
	case dropzone.OpCreateColumn:
		return Action{Type: ActionAddColumn, Path: in.Target, Width: in.Width}
	case dropzone.OpCreateBlock:
		return Action{Type: ActionAddBlock, Path: in.Target, BlockKind: in.BlockKind}
	}
	return Action{}
}
