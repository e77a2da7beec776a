package layout

func (d Document) FindSection(sectionID string) (Section, bool) {
	if i := indexOf([]Section(d), sectionID); i >= 0 {
		return d[i], true
	}
	return Section{}, false
}

func (d Document) FindRow(p Path) (Row, bool) {
	s, ok := d.FindSection(p.Section)
	if !ok {
		return Row{}, false
	}
	if i := indexOf(s.Rows, p.Row); i >= 0 {
		return s.Rows[i], true
	}
	return Row{}, false
}

func (d Document) FindColumn(p Path) (Column, bool) {
	r, ok := d.FindRow(p)
	if !ok {
		return Column{}, false
	}
	if i := indexOf(r.Columns, p.Column); i >= 0 {
		return r.Columns[i], true
	}
	return Column{}, false
}

func (d Document) FindBlock(p Path) (Block, bool) {
	c, ok := d.FindColumn(p)
	if !ok {
		return Block{}, false
	}
	if i := indexOf(c.Blocks, p.Block); i >= 0 {
		return c.Blocks[i], true
	}
	return Block{}, false
}

// Exists reports whether every component of p resolves.
func (d Document) Exists(p Path) bool {
	kind, ok := p.Level()
	if !ok {
		return false
	}
	switch kind {
	case "":
		return true
	case NodeSection:
		_, ok = d.FindSection(p.Section)
	case NodeRow:
		_, ok = d.FindRow(p)
	case NodeColumn:
		_, ok = d.FindColumn(p)
	case NodeBlock:
		_, ok = d.FindBlock(p)
	}
	return ok
}

// Locate scans the whole tree for a node of kind with id and returns its path.
func (d Document) Locate(kind NodeKind, id string) (Path, bool) {
	if id == "" {
		return Path{}, false
	}
	for _, s := range d {
		if kind == NodeSection && s.ID == id {
			return Path{Section: s.ID}, true
		}
		for _, r := range s.Rows {
			if kind == NodeRow && r.ID == id {
				return Path{Section: s.ID, Row: r.ID}, true
			}
			for _, c := range r.Columns {
				if kind == NodeColumn && c.ID == id {
					return Path{Section: s.ID, Row: r.ID, Column: c.ID}, true
				}
				if kind != NodeBlock {
					continue
				}
				for _, b := range c.Blocks {
					if b.ID == id {
						return Path{Section: s.ID, Row: r.ID, Column: c.ID, Block: b.ID}, true
					}
				}
			}
		}
	}
	return Path{}, false
}

func (d Document) Contains(kind NodeKind, id string) bool {
	_, ok := d.Locate(kind, id)
	return ok
}

// Stats counts nodes per level.
type Stats struct {
	Sections int `json:"sections"`
	Rows     int `json:"rows"`
	Columns  int `json:"columns"`
	Blocks   int `json:"blocks"`
}

func (d Document) Stats() Stats {
	var st Stats
	st.Sections = len(d)
	for _, s := range d {
		st.Rows += len(s.Rows)
		for _, r := range s.Rows {
			st.Columns += len(r.Columns)
			for _, c := range r.Columns {
				st.Blocks += len(c.Blocks)
			}
		}
	}
	return st
}
