package layout

import (
	"reflect"
	"testing"
)

func TestDecodeBackfillsLegacyLayouts(t *testing.T) {
	useSeqIDs(t)
	raw := []byte(`[
		{"id":"s1","type":"hero"},
		{"id":"s3","type":"pricing"},
		{"id":"s2","props":{"padding":"py-4"},"rows":[
			{"id":"r1","columns":[
				{"id":"c1","blocks":[{"id":"b1","type":"heading"},{"id":"b2","type":"retired-widget","props":{"x":1}}]},
				{"width":"1/2"}
			]}
		]}
	]`)

	d, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(d) != 3 {
		t.Fatalf("sections: got=%d want=3", len(d))
	}
	if d[1].Kind != SectionKind("pricing") {
		t.Fatalf("unknown section kind must be kept: got=%q", d[1].Kind)
	}

	s1 := d[0]
	if s1.Rows == nil || len(s1.Rows) != 0 {
		t.Fatalf("s1 rows: got=%v want empty list", s1.Rows)
	}
	if !reflect.DeepEqual(s1.Props, SectionDefaults()) {
		t.Fatalf("s1 props: got=%v want defaults", s1.Props)
	}

	s2 := d[2]
	if s2.Kind != SectionDefault {
		t.Fatalf("s2 kind: got=%q want=%q", s2.Kind, SectionDefault)
	}
	if len(s2.Props) != 1 || s2.Props["padding"] != "py-4" {
		t.Fatalf("existing props must be kept as-is: got=%v", s2.Props)
	}
	row := s2.Rows[0]
	if row.Props == nil {
		t.Fatalf("row props not backfilled")
	}
	c1, c2 := row.Columns[0], row.Columns[1]
	if c1.Width != ColumnWidthFull || c1.Props == nil {
		t.Fatalf("c1 backfill: width=%q props=%v", c1.Width, c1.Props)
	}
	if c2.ID == "" || c2.Blocks == nil || c2.Width != "1/2" {
		t.Fatalf("c2 backfill: %+v", c2)
	}
	if c1.Blocks[0].Props == nil {
		t.Fatalf("block props not backfilled")
	}
	if c1.Blocks[1].Kind != BlockKind("retired-widget") || c1.Blocks[1].Props["x"] != 1.0 {
		t.Fatalf("unknown block kind must be kept: %+v", c1.Blocks[1])
	}
}

func TestDecodeEmptyInputs(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		d, err := Decode([]byte(raw))
		if err != nil {
			t.Fatalf("Decode(%q): %v", raw, err)
		}
		if d == nil || len(d) != 0 {
			t.Fatalf("Decode(%q): got=%v want empty document", raw, d)
		}
	}
	if _, err := Decode([]byte(`{"not":"a list"}`)); err == nil {
		t.Fatalf("expected error for non-array layout")
	}
}

func TestNormalizeLeavesInputAlone(t *testing.T) {
	in := Document{{ID: "s1"}}
	out := Normalize(in)
	if in[0].Props != nil || in[0].Rows != nil {
		t.Fatalf("Normalize modified its input: %+v", in[0])
	}
	if out[0].Props == nil || out[0].Rows == nil {
		t.Fatalf("Normalize did not backfill: %+v", out[0])
	}
}

func TestEncodeNilDocument(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("Encode(nil): got=%s want=[]", raw)
	}
}
