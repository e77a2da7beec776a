// Package editor holds the builder's editing state and the reducer that
// applies actions to it.
package editor

import (
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/history"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/selection"
)

// State is everything one editing session owns. Document always equals the
// history snapshot under the cursor.
type State struct {
	Document  layout.Document
	History   history.History
	Selection selection.Tracker
	Published bool
	// Revision increases whenever Document or Published changes.
	Revision uint64
}

// New returns a session over an empty page. The empty page is the first
// history entry so that undoing every edit returns to it.
func New(historyLimit int) State {
	doc := layout.Document{}
	return State{
		Document: doc,
		History:  history.New(historyLimit).Load(doc),
	}
}

// View is the read model handed to the editor UI.
type View struct {
	Sections      layout.Document   `json:"sections"`
	Selected      selection.Tracker `json:"selectedElement"`
	HistoryIndex  int               `json:"historyIndex"`
	HistoryLength int               `json:"historyLength"`
	CanUndo       bool              `json:"canUndo"`
	CanRedo       bool              `json:"canRedo"`
	IsPublished   bool              `json:"isPublished"`
	Revision      uint64            `json:"revision"`
}

func (s State) View() View {
	doc := s.Document.Clone()
	return View{
		Sections:      doc,
		Selected:      s.Selection,
		HistoryIndex:  s.History.Index(),
		HistoryLength: s.History.Len(),
		CanUndo:       s.History.CanUndo(),
		CanRedo:       s.History.CanRedo(),
		IsPublished:   s.Published,
		Revision:      s.Revision,
	}
}
