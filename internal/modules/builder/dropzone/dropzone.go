// Package dropzone turns a drag payload and a drop target into the single
// mutation it stands for, enforcing what may be dropped where.
package dropzone

import (
	"fmt"
	"strings"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

// Payload is what the sidebar attaches to a drag: a kind ("section", "row",
// "column", "block" or a block kind) and free-form data.
type Payload struct {
	Kind string         `json:"kind"`
	Data map[string]any `json:"data,omitempty"`
}

type Op string

const (
	OpCreateSection Op = "create-section"
	OpCreateRow     Op = "create-row"
	OpCreateColumn  Op = "create-column"
	OpCreateBlock   Op = "create-block"
)

// Intent is a resolved drop. Only the fields relevant to Op are set.
type Intent struct {
	Op          Op                 `json:"op"`
	Target      layout.Path        `json:"target"`
	SectionKind layout.SectionKind `json:"sectionKind,omitempty"`
	RowType     layout.RowType     `json:"rowType,omitempty"`
	Width       layout.WidthToken  `json:"width,omitempty"`
	BlockKind   layout.BlockKind   `json:"blockKind,omitempty"`
}

const (
	kindSection = "section"
	kindRow     = "row"
	kindColumn  = "column"
	kindBlock   = "block"
)

// Resolve maps payload dropped on target to an Intent. The document (empty
// path) takes sections, a section takes rows, a row takes columns and a column
// takes blocks. Anything else returns ok=false and must not change state.
func Resolve(p Payload, target layout.Path) (Intent, bool) {
	level, ok := target.Level()
	if !ok {
		return Intent{}, false
	}
	kind := strings.ToLower(strings.TrimSpace(p.Kind))

	switch level {
	case "":
		if kind != kindSection {
			return Intent{}, false
		}
		return Intent{
			Op:          OpCreateSection,
			Target:      target,
			SectionKind: layout.ParseSectionKind(dataString(p.Data, "type")),
		}, true

	case layout.NodeSection:
		if kind != kindRow {
			return Intent{}, false
		}
		return Intent{Op: OpCreateRow, Target: target, RowType: rowTypeFromData(p.Data)}, true

	case layout.NodeRow:
		if kind != kindColumn {
			return Intent{}, false
		}
		width := layout.WidthToken(firstString(p.Data, "width", "columnType"))
		if width == "" {
			width = layout.WidthFull
		}
		return Intent{Op: OpCreateColumn, Target: target, Width: width}, true

	case layout.NodeColumn:
		bk, ok := blockKindFromPayload(kind, p.Data)
		if !ok {
			return Intent{}, false
		}
		return Intent{Op: OpCreateBlock, Target: target, BlockKind: bk}, true
	}
	return Intent{}, false
}

// The sidebar sends either the block kind itself or "block" with data.type.
func blockKindFromPayload(kind string, data map[string]any) (layout.BlockKind, bool) {
	if kind == kindBlock {
		return layout.ParseBlockKind(dataString(data, "type"))
	}
	return layout.ParseBlockKind(kind)
}

func rowTypeFromData(data map[string]any) layout.RowType {
	switch layout.RowType(firstString(data, "rowType", "type")) {
	case layout.RowTwoColumn:
		return layout.RowTwoColumn
	case layout.RowThreeColumn:
		return layout.RowThreeColumn
	}
	switch n := dataNumber(data, "columnCount"); n {
	case 2:
		return layout.RowTwoColumn
	case 3:
		return layout.RowThreeColumn
	}
	return layout.RowSingle
}

func firstString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := dataString(data, k); s != "" {
			return s
		}
	}
	return ""
}

func dataString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func dataNumber(data map[string]any, key string) int {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
