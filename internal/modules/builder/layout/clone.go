package layout

// Clone returns a copy that shares no mutable state with p.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types a JSON document can hold. Anything
// else is treated as an immutable scalar.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case Properties:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i], _ = cloneValue(m).(map[string]any)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

func (b Block) Clone() Block {
	b.Props = b.Props.Clone()
	return b
}

func (c Column) Clone() Column {
	c.Props = c.Props.Clone()
	if c.Blocks != nil {
		blocks := make([]Block, len(c.Blocks))
		for i, b := range c.Blocks {
			blocks[i] = b.Clone()
		}
		c.Blocks = blocks
	}
	return c
}

func (r Row) Clone() Row {
	r.Props = r.Props.Clone()
	if r.Columns != nil {
		cols := make([]Column, len(r.Columns))
		for i, c := range r.Columns {
			cols[i] = c.Clone()
		}
		r.Columns = cols
	}
	return r
}

func (s Section) Clone() Section {
	s.Props = s.Props.Clone()
	if s.Rows != nil {
		rows := make([]Row, len(s.Rows))
		for i, r := range s.Rows {
			rows[i] = r.Clone()
		}
		s.Rows = rows
	}
	return s
}

// Clone returns a structurally independent deep copy. A nil document clones
// to an empty one so that it serialises as [].
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for i, s := range d {
		out[i] = s.Clone()
	}
	return out
}
