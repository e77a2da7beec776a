package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize backfills whatever an older or hand-edited layout is missing so
// the result is always renderable: nil lists become empty, sections without
// props get the section defaults, other nodes get {}, blank ids get fresh
// ones and blank widths become full. Unknown section and block kinds are kept
// as-is. The input is not modified.
func Normalize(d Document) Document {
	out := make(Document, len(d))
	for i, s := range d.Clone() {
		if s.ID == "" {
			s.ID = NewID()
		}
		if s.Kind == "" {
			s.Kind = SectionDefault
		}
		if s.Props == nil {
			s.Props = SectionDefaults()
		}
		if s.Rows == nil {
			s.Rows = []Row{}
		}
		for ri := range s.Rows {
			s.Rows[ri] = normalizeRow(s.Rows[ri])
		}
		out[i] = s
	}
	return out
}

func normalizeRow(r Row) Row {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.Props == nil {
		r.Props = Properties{}
	}
	if r.Columns == nil {
		r.Columns = []Column{}
	}
	for ci := range r.Columns {
		c := r.Columns[ci]
		if c.ID == "" {
			c.ID = NewID()
		}
		if strings.TrimSpace(c.Width) == "" {
			c.Width = ColumnWidthFull
		}
		if c.Props == nil {
			c.Props = Properties{}
		}
		if c.Blocks == nil {
			c.Blocks = []Block{}
		}
		for bi := range c.Blocks {
			b := c.Blocks[bi]
			if b.ID == "" {
				b.ID = NewID()
			}
			if b.Props == nil {
				b.Props = Properties{}
			}
			c.Blocks[bi] = b
		}
		r.Columns[ci] = c
	}
	return r
}

// Decode parses a persisted layout. Empty input and JSON null decode to an
// empty document. The result is normalized.
func Decode(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, nil
	}
	var d Document
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return Normalize(d), nil
}

// Encode serialises d; a nil document encodes as [].
func Encode(d Document) ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	return json.Marshal(d)
}
