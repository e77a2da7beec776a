package layout

import "strings"

// Properties is the open property bag carried by every node. The tree never
// interprets its contents; values are JSON-native.
type Properties map[string]any

type SectionKind string

const (
	SectionDefault      SectionKind = "default"
	SectionHero         SectionKind = "hero"
	SectionFeatures     SectionKind = "features"
	SectionTestimonials SectionKind = "testimonials"
	SectionContact      SectionKind = "contact"
)

func (k SectionKind) Valid() bool {
	switch k {
	case SectionDefault, SectionHero, SectionFeatures, SectionTestimonials, SectionContact:
		return true
	default:
		return false
	}
}

// ParseSectionKind maps free input onto a section kind, falling back to default.
func ParseSectionKind(raw string) SectionKind {
	k := SectionKind(strings.ToLower(strings.TrimSpace(raw)))
	if k.Valid() {
		return k
	}
	return SectionDefault
}

type RowType string

const (
	RowSingle      RowType = "single"
	RowTwoColumn   RowType = "two-column"
	RowThreeColumn RowType = "three-column"
)

// ColumnCount is the number of empty columns a new row of this type starts with.
func (t RowType) ColumnCount() int {
	switch t {
	case RowTwoColumn:
		return 2
	case RowThreeColumn:
		return 3
	default:
		return 1
	}
}

// WidthToken is the user-facing column width name (full, half, ...).
type WidthToken string

const (
	WidthFull    WidthToken = "full"
	WidthHalf    WidthToken = "half"
	WidthThird   WidthToken = "third"
	WidthQuarter WidthToken = "quarter"
)

// Stored column widths.
const (
	ColumnWidthFull    = "full"
	ColumnWidthHalf    = "1/2"
	ColumnWidthThird   = "1/3"
	ColumnWidthQuarter = "1/4"
)

// ColumnWidth returns the width stored on a column for the token. Unknown
// tokens become full width.
func (t WidthToken) ColumnWidth() string {
	switch t {
	case WidthHalf:
		return ColumnWidthHalf
	case WidthThird:
		return ColumnWidthThird
	case WidthQuarter:
		return ColumnWidthQuarter
	default:
		return ColumnWidthFull
	}
}

func widthForCount(n int) string {
	switch n {
	case 2:
		return ColumnWidthHalf
	case 3:
		return ColumnWidthThird
	case 4:
		return ColumnWidthQuarter
	default:
		return ColumnWidthFull
	}
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// NodeKind names the four levels of the tree.
type NodeKind string

const (
	NodeSection NodeKind = "section"
	NodeRow     NodeKind = "row"
	NodeColumn  NodeKind = "column"
	NodeBlock   NodeKind = "block"
)

func (k NodeKind) Valid() bool {
	switch k {
	case NodeSection, NodeRow, NodeColumn, NodeBlock:
		return true
	default:
		return false
	}
}

type Block struct {
	ID    string     `json:"id"`
	Kind  BlockKind  `json:"type"`
	Props Properties `json:"props"`
}

type Column struct {
	ID     string     `json:"id"`
	Width  string     `json:"width"`
	Blocks []Block    `json:"blocks"`
	Props  Properties `json:"props"`
}

type Row struct {
	ID      string     `json:"id"`
	Columns []Column   `json:"columns"`
	Props   Properties `json:"props"`
}

type Section struct {
	ID    string      `json:"id"`
	Kind  SectionKind `json:"type"`
	Props Properties  `json:"props"`
	Rows  []Row       `json:"rows"`
}

// Document is the ordered list of sections that makes up a page. It is the
// unit that gets persisted and snapshotted into history.
type Document []Section

func (b Block) nodeID() string   { return b.ID }
func (c Column) nodeID() string  { return c.ID }
func (r Row) nodeID() string     { return r.ID }
func (s Section) nodeID() string { return s.ID }

func (b Block) withProps(p Properties) Block {
	b.Props = p
	return b
}

func (c Column) withProps(p Properties) Column {
	c.Props = p
	return c
}

func (r Row) withProps(p Properties) Row {
	r.Props = p
	return r
}

func (s Section) withProps(p Properties) Section {
	s.Props = p
	return s
}

func (b Block) properties() Properties   { return b.Props }
func (c Column) properties() Properties  { return c.Props }
func (r Row) properties() Properties     { return r.Props }
func (s Section) properties() Properties { return s.Props }

// Path addresses a node from the document root. Trailing components are left
// empty: a Path with only Section set addresses a section.
type Path struct {
	Section string `json:"sectionId,omitempty"`
	Row     string `json:"rowId,omitempty"`
	Column  string `json:"columnId,omitempty"`
	Block   string `json:"blockId,omitempty"`
}

// Level reports the kind of node the path addresses. ok is false for paths
// with gaps (a row id without a section id, ...). The empty path addresses
// the document itself and returns ("", true).
func (p Path) Level() (NodeKind, bool) {
	parts := []string{p.Section, p.Row, p.Column, p.Block}
	kinds := []NodeKind{NodeSection, NodeRow, NodeColumn, NodeBlock}
	depth := 0
	for depth < len(parts) && parts[depth] != "" {
		depth++
	}
	for _, rest := range parts[depth:] {
		if rest != "" {
			return "", false
		}
	}
	if depth == 0 {
		return "", true
	}
	return kinds[depth-1], true
}

// Parent drops the deepest component.
func (p Path) Parent() Path {
	switch {
	case p.Block != "":
		p.Block = ""
	case p.Column != "":
		p.Column = ""
	case p.Row != "":
		p.Row = ""
	default:
		p.Section = ""
	}
	return p
}

// ID returns the id of the addressed node.
func (p Path) ID() string {
	switch {
	case p.Block != "":
		return p.Block
	case p.Column != "":
		return p.Column
	case p.Row != "":
		return p.Row
	default:
		return p.Section
	}
}
