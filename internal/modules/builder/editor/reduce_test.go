package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/dropzone"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

var idSeq atomic.Int64

func useSeqIDs(t *testing.T) {
	t.Helper()
	restore := layout.SetIDGenerator(func() string {
		return fmt.Sprintf("n%d", idSeq.Add(1))
	})
	t.Cleanup(restore)
}

func mustReduce(t *testing.T, s State, a Action) (State, Result) {
	t.Helper()
	next, res, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%s): %v", a.Type, err)
	}
	return next, res
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

// buildPage adds section > row > column > block and returns the state and the
// path of the block.
func buildPage(t *testing.T) (State, layout.Path) {
	t.Helper()
	s := New(0)
	s, res := mustReduce(t, s, Action{Type: ActionAddSection, SectionKind: layout.SectionHero})
	p := layout.Path{Section: res.NodeID}
	s, res = mustReduce(t, s, Action{Type: ActionAddRow, Path: p, RowType: layout.RowSingle})
	p.Row = res.NodeID
	s, res = mustReduce(t, s, Action{Type: ActionAddColumn, Path: p, Width: layout.WidthHalf})
	p.Column = res.NodeID
	s, res = mustReduce(t, s, Action{Type: ActionAddBlock, Path: p, BlockKind: layout.BlockHeading})
	p.Block = res.NodeID
	return s, p
}

func TestNewStartsOnEmptyPage(t *testing.T) {
	s := New(0)
	if len(s.Document) != 0 || s.Document == nil {
		t.Fatalf("document: got=%#v want empty non-nil", s.Document)
	}
	if s.History.Len() != 1 || s.History.CanUndo() || s.History.CanRedo() {
		t.Fatalf("history: len=%d canUndo=%v canRedo=%v", s.History.Len(), s.History.CanUndo(), s.History.CanRedo())
	}
}

func TestEveryChangeRecordsOneEntry(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	if got, want := s.History.Len(), 5; got != want {
		t.Fatalf("history len: got=%d want=%d", got, want)
	}
	if got := mustJSON(t, s.History.Current()); got != mustJSON(t, s.Document) {
		t.Fatalf("live document diverged from history cursor")
	}

	before := s.History.Len()
	s, res := mustReduce(t, s, Action{Type: ActionUpdateBlock, Path: p, Props: layout.Properties{"text": "Hi"}})
	if !res.Changed || !res.Recorded || s.History.Len() != before+1 {
		t.Fatalf("update: res=%+v len=%d", res, s.History.Len())
	}
	b, _ := s.Document.FindBlock(p)
	if b.Props["text"] != "Hi" {
		t.Fatalf("block text: got=%v want=Hi", b.Props["text"])
	}
}

func TestNoOpsDoNotTouchHistory(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	before := mustJSON(t, s.View())

	stale := []Action{
		{Type: ActionUpdateBlock, Path: layout.Path{Section: p.Section, Row: p.Row, Column: p.Column, Block: "gone"}, Props: layout.Properties{"a": 1}},
		{Type: ActionRemoveRow, Path: layout.Path{Section: p.Section, Row: "gone"}},
		{Type: ActionMoveSection, Path: layout.Path{Section: p.Section}, Direction: layout.Up},
		{Type: ActionAddBlock, Path: p, BlockKind: layout.BlockKind("hologram")},
		{Type: ActionAddRow, Path: layout.Path{Section: "gone"}},
		{Type: ActionUpdateSection, Path: layout.Path{Section: p.Section}},
		{Type: ActionRedo},
	}
	for _, a := range stale {
		next, res := mustReduce(t, s, a)
		if res.Changed || res.Recorded {
			t.Fatalf("%s: expected no-op, got=%+v", a.Type, res)
		}
		if got := mustJSON(t, next.View()); got != before {
			t.Fatalf("%s: state changed\n got=%s\nwant=%s", a.Type, got, before)
		}
	}
}

func TestUndoAllReturnsToEmptyPage(t *testing.T) {
	useSeqIDs(t)
	s, _ := buildPage(t)
	full := mustJSON(t, s.Document)

	for s.History.CanUndo() {
		s, _ = mustReduce(t, s, Action{Type: ActionUndo})
	}
	if got := mustJSON(t, s.Document); got != "[]" {
		t.Fatalf("after undo all: got=%s want=[]", got)
	}
	for s.History.CanRedo() {
		s, _ = mustReduce(t, s, Action{Type: ActionRedo})
	}
	if got := mustJSON(t, s.Document); got != full {
		t.Fatalf("after redo all:\n got=%s\nwant=%s", got, full)
	}
}

func TestUnlimitedHistoryUndoesLongSessions(t *testing.T) {
	useSeqIDs(t)
	s := New(0)
	const edits = 150
	for i := 0; i < edits; i++ {
		s, _ = mustReduce(t, s, Action{Type: ActionAddSection, SectionKind: layout.SectionDefault})
	}
	if got, want := s.History.Len(), edits+1; got != want {
		t.Fatalf("history len: got=%d want=%d", got, want)
	}

	undos := 0
	for s.History.CanUndo() {
		s, _ = mustReduce(t, s, Action{Type: ActionUndo})
		undos++
	}
	if undos != edits {
		t.Fatalf("undos: got=%d want=%d", undos, edits)
	}
	if got := mustJSON(t, s.Document); got != "[]" {
		t.Fatalf("after undo all: got=%s want=[]", got)
	}
}

func TestEditAfterUndoDropsRedo(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	s, _ = mustReduce(t, s, Action{Type: ActionUndo})
	if !s.History.CanRedo() {
		t.Fatalf("expected redo after undo")
	}
	s, res := mustReduce(t, s, Action{Type: ActionAddBlock, Path: layout.Path{Section: p.Section, Row: p.Row, Column: p.Column}, BlockKind: layout.BlockText})
	if !res.Recorded {
		t.Fatalf("add after undo not recorded")
	}
	if s.History.CanRedo() {
		t.Fatalf("redo branch survived a new edit")
	}
	if s.Document.Contains(layout.NodeBlock, p.Block) {
		t.Fatalf("undone block came back")
	}
}

func TestRemovingSelectedAncestorClearsSelection(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	s, _ = mustReduce(t, s, Action{Type: ActionSelect, Node: layout.NodeBlock, ID: p.Block})
	if !s.Selection.Is(layout.NodeBlock, p.Block) {
		t.Fatalf("block not selected")
	}

	removed, _ := mustReduce(t, s, Action{Type: ActionRemoveSection, Path: layout.Path{Section: p.Section}})
	if _, ok := removed.Selection.Current(); ok {
		t.Fatalf("selection survived removal of its section")
	}

	// Removing something else keeps the selection.
	other, res := mustReduce(t, s, Action{Type: ActionAddSection})
	other, _ = mustReduce(t, other, Action{Type: ActionRemoveSection, Path: layout.Path{Section: res.NodeID}})
	if !other.Selection.Is(layout.NodeBlock, p.Block) {
		t.Fatalf("unrelated removal cleared the selection")
	}
}

func TestUndoPastCreationClearsSelection(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	s, _ = mustReduce(t, s, Action{Type: ActionSelect, Node: layout.NodeBlock, ID: p.Block})
	s, _ = mustReduce(t, s, Action{Type: ActionUndo})
	if _, ok := s.Selection.Current(); ok {
		t.Fatalf("selection points at a block that no longer exists")
	}
}

func TestSelectMissingNodeIsIgnored(t *testing.T) {
	s := New(0)
	s, _ = mustReduce(t, s, Action{Type: ActionSelect, Node: layout.NodeSection, ID: "nope"})
	if _, ok := s.Selection.Current(); ok {
		t.Fatalf("selected a node that does not exist")
	}
}

func TestDropCreatesAndRejects(t *testing.T) {
	useSeqIDs(t)
	s, p := buildPage(t)
	rowPath := layout.Path{Section: p.Section, Row: p.Row}

	// An image dropped on a row is refused and changes nothing.
	before := mustJSON(t, s.View())
	next, res := mustReduce(t, s, Action{Type: ActionDrop, Path: rowPath, Payload: &dropzone.Payload{Kind: "image"}})
	if !res.Rejected || res.Changed {
		t.Fatalf("image on row: got=%+v want rejected", res)
	}
	if mustJSON(t, next.View()) != before {
		t.Fatalf("rejected drop changed state")
	}

	colPath := layout.Path{Section: p.Section, Row: p.Row, Column: p.Column}
	next, res = mustReduce(t, s, Action{Type: ActionDrop, Path: colPath, Payload: &dropzone.Payload{Kind: "image"}})
	if !res.Changed || res.NodeID == "" {
		t.Fatalf("image on column: got=%+v", res)
	}
	b, ok := next.Document.FindBlock(layout.Path{Section: p.Section, Row: p.Row, Column: p.Column, Block: res.NodeID})
	if !ok || b.Kind != layout.BlockImage {
		t.Fatalf("dropped block: got=%+v ok=%v", b, ok)
	}

	next, res = mustReduce(t, s, Action{Type: ActionDrop, Path: layout.Path{Section: p.Section}, Payload: &dropzone.Payload{Kind: "row", Data: map[string]any{"columnCount": 3.0}}})
	r, ok := next.Document.FindRow(layout.Path{Section: p.Section, Row: res.NodeID})
	if !ok || len(r.Columns) != 3 {
		t.Fatalf("dropped row: got=%+v ok=%v", r, ok)
	}

	// Passes the level rules but the section is gone.
	_, res = mustReduce(t, s, Action{Type: ActionDrop, Path: layout.Path{Section: "gone"}, Payload: &dropzone.Payload{Kind: "row"}})
	if !res.Rejected {
		t.Fatalf("drop on a stale section: got=%+v want rejected", res)
	}
}

func TestSetPublishedAndLoad(t *testing.T) {
	useSeqIDs(t)
	s := New(0)
	yes := true
	s, _ = mustReduce(t, s, Action{Type: ActionSetPublished, Published: &yes})
	if !s.Published || s.History.Len() != 1 {
		t.Fatalf("set-published: published=%v len=%d", s.Published, s.History.Len())
	}

	doc := layout.Document{{ID: "s1", Rows: []layout.Row{{ID: "r1"}}}}
	s, _ = mustReduce(t, s, Action{Type: ActionLoad, Document: doc})
	if s.History.Len() != 1 || s.History.CanUndo() {
		t.Fatalf("load must reset history: len=%d", s.History.Len())
	}
	if !s.Published {
		t.Fatalf("load without published flag reset it")
	}
	r, ok := s.Document.FindRow(layout.Path{Section: "s1", Row: "r1"})
	if !ok || r.Columns == nil || r.Props == nil {
		t.Fatalf("loaded document not normalized: %+v", r)
	}
}

func TestUnknownAction(t *testing.T) {
	s := New(0)
	next, _, err := Reduce(s, Action{Type: "explode"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err: got=%v want=%v", err, ErrUnknownAction)
	}
	if !reflect.DeepEqual(next.Document, s.Document) {
		t.Fatalf("unknown action changed the document")
	}
}

func TestRevisionTracksChanges(t *testing.T) {
	useSeqIDs(t)
	s := New(0)
	r0 := s.Revision
	s, _ = mustReduce(t, s, Action{Type: ActionAddSection})
	if s.Revision != r0+1 {
		t.Fatalf("revision after add: got=%d want=%d", s.Revision, r0+1)
	}
	s, _ = mustReduce(t, s, Action{Type: ActionClearSelection})
	if s.Revision != r0+1 {
		t.Fatalf("selection changed the revision")
	}
	s, _ = mustReduce(t, s, Action{Type: ActionUndo})
	if s.Revision != r0+2 {
		t.Fatalf("revision after undo: got=%d want=%d", s.Revision, r0+2)
	}
}

func TestActionJSON(t *testing.T) {
	raw := `{"type":"add-block","path":{"sectionId":"s","rowId":"r","columnId":"c"},"blockKind":"button"}`
	var a Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Action{Type: ActionAddBlock, Path: layout.Path{Section: "s", Row: "r", Column: "c"}, BlockKind: layout.BlockButton}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("action: got=%+v want=%+v", a, want)
	}
}
