package layout

import "testing"

func TestPathLevel(t *testing.T) {
	cases := []struct {
		path Path
		want NodeKind
		ok   bool
	}{
		{Path{}, "", true},
		{Path{Section: "s"}, NodeSection, true},
		{Path{Section: "s", Row: "r"}, NodeRow, true},
		{Path{Section: "s", Row: "r", Column: "c"}, NodeColumn, true},
		{Path{Section: "s", Row: "r", Column: "c", Block: "b"}, NodeBlock, true},
		{Path{Row: "r"}, "", false},
		{Path{Section: "s", Column: "c"}, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.path.Level()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Level(%+v): got=(%q,%v) want=(%q,%v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPathParentAndID(t *testing.T) {
	p := Path{Section: "s", Row: "r", Column: "c", Block: "b"}
	if p.ID() != "b" {
		t.Fatalf("ID: got=%q want=b", p.ID())
	}
	parent := p.Parent()
	if parent != (Path{Section: "s", Row: "r", Column: "c"}) {
		t.Fatalf("Parent: got=%+v", parent)
	}
	if parent.Parent().Parent().Parent() != (Path{}) {
		t.Fatalf("Parent chain should end at the document")
	}
}

func TestParseKinds(t *testing.T) {
	if ParseSectionKind(" Hero ") != SectionHero {
		t.Fatalf("ParseSectionKind(Hero)")
	}
	if ParseSectionKind("nope") != SectionDefault {
		t.Fatalf("ParseSectionKind(nope) should fall back to default")
	}
	if k, ok := ParseBlockKind("rich-text"); !ok || k != BlockRichText {
		t.Fatalf("ParseBlockKind(rich-text): got=(%q,%v)", k, ok)
	}
	if _, ok := ParseBlockKind("section"); ok {
		t.Fatalf("structural kinds are not block kinds")
	}
}

func TestLocateAndStats(t *testing.T) {
	useSeqIDs(t)
	d, p := sampleDoc(t)

	got, ok := d.Locate(NodeBlock, p.Block)
	if !ok || got != p {
		t.Fatalf("Locate block: got=%+v ok=%v want=%+v", got, ok, p)
	}
	if !d.Contains(NodeColumn, p.Column) {
		t.Fatalf("Contains column: want true")
	}
	if d.Contains(NodeRow, p.Column) {
		t.Fatalf("Contains must match the kind, not just the id")
	}
	if !d.Exists(p) || d.Exists(Path{Section: p.Section, Row: "missing"}) {
		t.Fatalf("Exists mismatch")
	}

	st := d.Stats()
	if st != (Stats{Sections: 1, Rows: 1, Columns: 2, Blocks: 2}) {
		t.Fatalf("Stats: got=%+v", st)
	}
}
