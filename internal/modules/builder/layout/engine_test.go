package layout

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

func useSeqIDs(t *testing.T) {
	t.Helper()
	n := 0
	restore := SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	t.Cleanup(restore)
}

func mustJSON(t *testing.T, d Document) string {
	t.Helper()
	raw, err := Encode(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(raw)
}

// sampleDoc builds one section holding one two-column row with a heading and
// a text block in the first column.
func sampleDoc(t *testing.T) (Document, Path) {
	t.Helper()
	d, sid := AddSection(nil, SectionHero)
	d, rid, ok := AddRow(d, sid, RowTwoColumn)
	if !ok {
		t.Fatalf("AddRow: expected ok")
	}
	row, _ := d.FindRow(Path{Section: sid, Row: rid})
	cid := row.Columns[0].ID
	d, bid, ok := AddBlock(d, sid, rid, cid, BlockHeading)
	if !ok {
		t.Fatalf("AddBlock: expected ok")
	}
	d, _, ok = AddBlock(d, sid, rid, cid, BlockText)
	if !ok {
		t.Fatalf("AddBlock (text): expected ok")
	}
	return d, Path{Section: sid, Row: rid, Column: cid, Block: bid}
}

func TestBuildHeroWithHeading(t *testing.T) {
	useSeqIDs(t)

	d, sid := AddSection(Document{}, SectionHero)
	d, rid, ok := AddRow(d, sid, RowTwoColumn)
	if !ok {
		t.Fatalf("AddRow: expected ok")
	}
	row, _ := d.FindRow(Path{Section: sid, Row: rid})
	first := row.Columns[0].ID
	d, _, ok = AddBlock(d, sid, rid, first, BlockHeading)
	if !ok {
		t.Fatalf("AddBlock: expected ok")
	}

	if len(d) != 1 {
		t.Fatalf("sections: got=%d want=1", len(d))
	}
	if d[0].Kind != SectionHero {
		t.Fatalf("section kind: got=%q want=%q", d[0].Kind, SectionHero)
	}
	if len(d[0].Rows) != 1 || len(d[0].Rows[0].Columns) != 2 {
		t.Fatalf("unexpected structure: %s", mustJSON(t, d))
	}
	cols := d[0].Rows[0].Columns
	if len(cols[0].Blocks) != 1 || len(cols[1].Blocks) != 0 {
		t.Fatalf("block placement: got=%d/%d want=1/0", len(cols[0].Blocks), len(cols[1].Blocks))
	}
	b := cols[0].Blocks[0]
	if b.Kind != BlockHeading {
		t.Fatalf("block kind: got=%q want=%q", b.Kind, BlockHeading)
	}
	if text, _ := b.Props["text"].(string); text == "" {
		t.Fatalf("heading placeholder text missing: %+v", b.Props)
	}
}

func TestMutationsDoNotTouchInput(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)
	d, _ = AddSection(d, SectionContact)
	before := mustJSON(t, d)

	ops := map[string]func() Document{
		"AddSection":    func() Document { out, _ := AddSection(d, SectionDefault); return out },
		"UpdateSection": func() Document { out, _ := UpdateSection(d, p.Section, Properties{"padding": "py-4"}); return out },
		"MoveSection":   func() Document { out, _ := MoveSection(d, p.Section, Down); return out },
		"RemoveSection": func() Document { out, _ := RemoveSection(d, p.Section); return out },
		"AddRow":        func() Document { out, _, _ := AddRow(d, p.Section, RowThreeColumn); return out },
		"UpdateRow":     func() Document { out, _ := UpdateRow(d, p, Properties{"gap": "8px"}); return out },
		"RemoveRow":     func() Document { out, _ := RemoveRow(d, p); return out },
		"AddColumn":     func() Document { out, _, _ := AddColumn(d, p.Section, p.Row, WidthQuarter); return out },
		"UpdateColumn":  func() Document { out, _ := UpdateColumn(d, p, Properties{"bg": "#000"}); return out },
		"MoveColumn":    func() Document { out, _ := MoveColumn(d, p, Down); return out },
		"RemoveColumn":  func() Document { out, _ := RemoveColumn(d, p); return out },
		"AddBlock":      func() Document { out, _, _ := AddBlock(d, p.Section, p.Row, p.Column, BlockImage); return out },
		"UpdateBlock":   func() Document { out, _ := UpdateBlock(d, p, Properties{"text": "Hello"}); return out },
		"MoveBlock":     func() Document { out, _ := MoveBlock(d, p, Down); return out },
		"RemoveBlock":   func() Document { out, _ := RemoveBlock(d, p); return out },
	}
	for name, op := range ops {
		out := op()
		if got := mustJSON(t, d); got != before {
			t.Fatalf("%s mutated its input:\n got=%s\nwant=%s", name, got, before)
		}
		if mustJSON(t, out) == before {
			t.Fatalf("%s: expected a changed document", name)
		}
	}
}

func TestUpdatedDocumentDoesNotAliasInput(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)
	out, ok := UpdateBlock(d, p, Properties{"color": "#ff0000"})
	if !ok {
		t.Fatalf("UpdateBlock: expected ok")
	}

	b, _ := out.FindBlock(p)
	b.Props["text"] = "scribbled"
	out[0].Rows[0].Columns[0].Blocks[1].Kind = BlockQuote

	orig, _ := d.FindBlock(p)
	if orig.Props["text"] == "scribbled" {
		t.Fatalf("props map shared between documents")
	}
	if d[0].Rows[0].Columns[0].Blocks[1].Kind != BlockText {
		t.Fatalf("block slice shared between documents")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)

	once, ok := RemoveBlock(d, p)
	if !ok {
		t.Fatalf("first RemoveBlock: expected ok")
	}
	twice, ok := RemoveBlock(once, p)
	if ok {
		t.Fatalf("second RemoveBlock: expected no-op")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second remove changed the document")
	}

	noSection, _ := RemoveSection(d, p.Section)
	again, ok := RemoveSection(noSection, p.Section)
	if ok || len(again) != 0 {
		t.Fatalf("RemoveSection twice: got ok=%v len=%d", ok, len(again))
	}
}

func TestStalePathsAreNoOps(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)
	before := mustJSON(t, d)

	stale := Path{Section: p.Section, Row: "gone", Column: p.Column, Block: p.Block}
	type result struct {
		name string
		out  Document
		ok   bool
	}
	var checks []result

	out, ok := UpdateSection(d, "gone", Properties{"a": 1})
	checks = append(checks, result{"UpdateSection", out, ok})
	out, _, ok = AddRow(d, "gone", RowSingle)
	checks = append(checks, result{"AddRow", out, ok})
	out, _, ok = AddColumn(d, p.Section, "gone", WidthHalf)
	checks = append(checks, result{"AddColumn", out, ok})
	out, _, ok = AddBlock(d, p.Section, p.Row, "gone", BlockText)
	checks = append(checks, result{"AddBlock", out, ok})
	out, ok = UpdateBlock(d, stale, Properties{"a": 1})
	checks = append(checks, result{"UpdateBlock", out, ok})
	out, ok = RemoveColumn(d, stale)
	checks = append(checks, result{"RemoveColumn", out, ok})
	out, ok = MoveRow(d, Path{Section: "gone", Row: p.Row}, Down)
	checks = append(checks, result{"MoveRow", out, ok})
	out, ok = UpdateBlock(d, p, nil)
	checks = append(checks, result{"UpdateBlock (empty patch)", out, ok})

	for _, c := range checks {
		if c.ok {
			t.Fatalf("%s: expected no-op", c.name)
		}
		if got := mustJSON(t, c.out); got != before {
			t.Fatalf("%s: document changed on no-op", c.name)
		}
	}
}

func TestMoveRespectsBoundaries(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)
	col, _ := d.FindColumn(p)
	second := col.Blocks[1].ID

	if _, ok := MoveBlock(d, p, Up); ok {
		t.Fatalf("first block moved up")
	}
	if _, ok := MoveBlock(d, Path{Section: p.Section, Row: p.Row, Column: p.Column, Block: second}, Down); ok {
		t.Fatalf("last block moved down")
	}
	if _, ok := MoveBlock(d, p, Direction("sideways")); ok {
		t.Fatalf("unknown direction applied")
	}

	out, ok := MoveBlock(d, p, Down)
	if !ok {
		t.Fatalf("MoveBlock down: expected ok")
	}
	moved, _ := out.FindColumn(p)
	if moved.Blocks[0].ID != second || moved.Blocks[1].ID != p.Block {
		t.Fatalf("swap: got=[%s %s] want=[%s %s]", moved.Blocks[0].ID, moved.Blocks[1].ID, second, p.Block)
	}

	d2, s2 := AddSection(d, SectionContact)
	up, ok := MoveSection(d2, s2, Up)
	if !ok || up[0].ID != s2 {
		t.Fatalf("MoveSection up: ok=%v first=%s want=%s", ok, up[0].ID, s2)
	}
}

func TestColumnWidthMapping(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)

	cases := []struct {
		token WidthToken
		want  string
	}{
		{WidthFull, "full"},
		{WidthHalf, "1/2"},
		{WidthThird, "1/3"},
		{WidthQuarter, "1/4"},
		{WidthToken("two-thirds"), "full"},
		{WidthToken(""), "full"},
	}
	for _, tc := range cases {
		out, cid, ok := AddColumn(d, p.Section, p.Row, tc.token)
		if !ok {
			t.Fatalf("AddColumn(%q): expected ok", tc.token)
		}
		col, found := out.FindColumn(Path{Section: p.Section, Row: p.Row, Column: cid})
		if !found {
			t.Fatalf("AddColumn(%q): new column not found", tc.token)
		}
		if col.Width != tc.want {
			t.Fatalf("AddColumn(%q): got=%q want=%q", tc.token, col.Width, tc.want)
		}
	}
}

func TestAddRowPrepopulatesColumns(t *testing.T) {
	useSeqIDs(t)
	d, sid := AddSection(nil, SectionDefault)

	cases := []struct {
		rowType RowType
		count   int
		width   string
	}{
		{RowSingle, 1, "full"},
		{RowTwoColumn, 2, "1/2"},
		{RowThreeColumn, 3, "1/3"},
		{RowType("weird"), 1, "full"},
	}
	for _, tc := range cases {
		out, rid, ok := AddRow(d, sid, tc.rowType)
		if !ok {
			t.Fatalf("AddRow(%q): expected ok", tc.rowType)
		}
		row, _ := out.FindRow(Path{Section: sid, Row: rid})
		if len(row.Columns) != tc.count {
			t.Fatalf("AddRow(%q): columns got=%d want=%d", tc.rowType, len(row.Columns), tc.count)
		}
		if row.Props == nil {
			t.Fatalf("AddRow(%q): nil row props", tc.rowType)
		}
		for _, c := range row.Columns {
			if c.Blocks == nil || len(c.Blocks) != 0 {
				t.Fatalf("AddRow(%q): column blocks not an empty list", tc.rowType)
			}
			if c.Props == nil || len(c.Props) != 0 {
				t.Fatalf("AddRow(%q): column props not an empty object", tc.rowType)
			}
			if c.Width != tc.width {
				t.Fatalf("AddRow(%q): width got=%q want=%q", tc.rowType, c.Width, tc.width)
			}
		}
	}
}

func TestUpdateIsShallowMerge(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)
	d, ok := UpdateBlock(d, p, Properties{"color": "red", "size": 10.0, "style": map[string]any{"a": 1.0, "b": 2.0}})
	if !ok {
		t.Fatalf("seed UpdateBlock: expected ok")
	}

	out, ok := UpdateBlock(d, p, Properties{"color": "blue", "style": map[string]any{"a": 3.0}})
	if !ok {
		t.Fatalf("UpdateBlock: expected ok")
	}
	b, _ := out.FindBlock(p)
	if b.Props["color"] != "blue" {
		t.Fatalf("color: got=%v want=blue", b.Props["color"])
	}
	if b.Props["size"] != 10.0 {
		t.Fatalf("size: got=%v want=10", b.Props["size"])
	}
	style, _ := b.Props["style"].(map[string]any)
	if len(style) != 1 || style["a"] != 3.0 {
		t.Fatalf("nested values must be replaced, not merged: got=%v", style)
	}
	if b.Props["text"] != "Enter your heading" {
		t.Fatalf("untouched default lost: got=%v", b.Props["text"])
	}
}

func TestSectionDefaultsOnAdd(t *testing.T) {
	useSeqIDs(t)
	d, _ := AddSection(nil, SectionKind("banner"))
	want := Properties{"backgroundColor": "#ffffff", "padding": "py-16", "maxWidth": "max-w-7xl"}
	if !reflect.DeepEqual(d[0].Props, want) {
		t.Fatalf("section props: got=%v want=%v", d[0].Props, want)
	}
	if d[0].Kind != SectionDefault {
		t.Fatalf("unknown kind: got=%q want=%q", d[0].Kind, SectionDefault)
	}
	if d[0].Rows == nil {
		t.Fatalf("rows must be an empty list")
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	useSeqIDs(t)
	d, _ := sampleDoc(t)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(d, back) {
		t.Fatalf("round trip mismatch:\n got=%s\nwant=%s", mustJSON(t, back), mustJSON(t, d))
	}
}
