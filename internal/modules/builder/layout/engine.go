package layout

// Every operation below treats its Document argument as immutable and returns
// the resulting document plus whether anything changed. An unresolved path or
// a move past either end returns the input unchanged with false.

func AddSection(d Document, kind SectionKind) (Document, string) {
	if !kind.Valid() {
		kind = SectionDefault
	}
	s := Section{
		ID:    NewID(),
		Kind:  kind,
		Props: SectionDefaults(),
		Rows:  []Row{},
	}
	out, _ := editSections(d, appendNode(s))
	return out, s.ID
}

func UpdateSection(d Document, sectionID string, patch Properties) (Document, bool) {
	return editSections(d, patchNode[Section](sectionID, patch))
}

func RemoveSection(d Document, sectionID string) (Document, bool) {
	return editSections(d, removeNode[Section](sectionID))
}

func MoveSection(d Document, sectionID string, dir Direction) (Document, bool) {
	return editSections(d, swapNode[Section](sectionID, dir))
}

// AddRow appends a row pre-populated with rowType.ColumnCount() empty columns.
func AddRow(d Document, sectionID string, rowType RowType) (Document, string, bool) {
	n := rowType.ColumnCount()
	cols := make([]Column, n)
	for i := range cols {
		cols[i] = newColumn(widthForCount(n))
	}
	r := Row{ID: NewID(), Columns: cols, Props: Properties{}}
	out, ok := editRows(d, sectionID, appendNode(r))
	if !ok {
		return d, "", false
	}
	return out, r.ID, true
}

func UpdateRow(d Document, p Path, patch Properties) (Document, bool) {
	return editRows(d, p.Section, patchNode[Row](p.Row, patch))
}

func RemoveRow(d Document, p Path) (Document, bool) {
	return editRows(d, p.Section, removeNode[Row](p.Row))
}

func MoveRow(d Document, p Path, dir Direction) (Document, bool) {
	return editRows(d, p.Section, swapNode[Row](p.Row, dir))
}

func AddColumn(d Document, sectionID, rowID string, width WidthToken) (Document, string, bool) {
	c := newColumn(width.ColumnWidth())
	out, ok := editColumns(d, sectionID, rowID, appendNode(c))
	if !ok {
		return d, "", false
	}
	return out, c.ID, true
}

func UpdateColumn(d Document, p Path, patch Properties) (Document, bool) {
	return editColumns(d, p.Section, p.Row, patchNode[Column](p.Column, patch))
}

func RemoveColumn(d Document, p Path) (Document, bool) {
	return editColumns(d, p.Section, p.Row, removeNode[Column](p.Column))
}

func MoveColumn(d Document, p Path, dir Direction) (Document, bool) {
	return editColumns(d, p.Section, p.Row, swapNode[Column](p.Column, dir))
}

// AddBlock appends a block of kind with its default properties. Kind is
// trusted; callers validate it at the boundary.
func AddBlock(d Document, sectionID, rowID, columnID string, kind BlockKind) (Document, string, bool) {
	b := Block{ID: NewID(), Kind: kind, Props: DefaultsFor(kind)}
	out, ok := editBlocks(d, sectionID, rowID, columnID, appendNode(b))
	if !ok {
		return d, "", false
	}
	return out, b.ID, true
}

func UpdateBlock(d Document, p Path, patch Properties) (Document, bool) {
	return editBlocks(d, p.Section, p.Row, p.Column, patchNode[Block](p.Block, patch))
}

func RemoveBlock(d Document, p Path) (Document, bool) {
	return editBlocks(d, p.Section, p.Row, p.Column, removeNode[Block](p.Block))
}

func MoveBlock(d Document, p Path, dir Direction) (Document, bool) {
	return editBlocks(d, p.Section, p.Row, p.Column, swapNode[Block](p.Block, dir))
}

func newColumn(width string) Column {
	return Column{ID: NewID(), Width: width, Blocks: []Block{}, Props: Properties{}}
}
