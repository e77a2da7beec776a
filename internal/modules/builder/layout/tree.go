package layout

// node is implemented by the four tree levels so that one set of list edits
// serves all of them.
type node[T any] interface {
	nodeID() string
	properties() Properties
	withProps(Properties) T
}

// listEdit transforms a child list. It returns ok=false when it did not
// change anything; the input slice is never written to.
type listEdit[T any] func(items []T) (out []T, ok bool)

func indexOf[T node[T]](items []T, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.nodeID() == id {
			return i
		}
	}
	return -1
}

func appendNode[T node[T]](v T) listEdit[T] {
	return func(items []T) ([]T, bool) {
		out := make([]T, len(items), len(items)+1)
		copy(out, items)
		return append(out, v), true
	}
}

func patchNode[T node[T]](id string, patch Properties) listEdit[T] {
	return func(items []T) ([]T, bool) {
		if len(patch) == 0 {
			return items, false
		}
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		return replaceAt(items, i, items[i].withProps(mergeProps(items[i].properties(), patch))), true
	}
}

func removeNode[T node[T]](id string) listEdit[T] {
	return func(items []T) ([]T, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:i]...)
		return append(out, items[i+1:]...), true
	}
}

func swapNode[T node[T]](id string, dir Direction) listEdit[T] {
	return func(items []T) ([]T, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		j := i
		switch dir {
		case Up:
			j = i - 1
		case Down:
			j = i + 1
		}
		if j == i || j < 0 || j >= len(items) {
			return items, false
		}
		out := make([]T, len(items))
		copy(out, items)
		out[i], out[j] = out[j], out[i]
		return out, true
	}
}

// editChild applies fn to the child with the given id and splices the result
// into a fresh copy of items.
func editChild[T node[T]](items []T, id string, fn func(T) (T, bool)) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	v, ok := fn(items[i])
	if !ok {
		return items, false
	}
	return replaceAt(items, i, v), true
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

// Shallow: keys in patch win, everything else survives.
func mergeProps(base, patch Properties) Properties {
	out := make(Properties, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

// The lenses below rebuild the ancestor chain of the list they expose, so a
// successful edit never aliases a slice of the input document.

func editSections(d Document, fn listEdit[Section]) (Document, bool) {
	out, ok := fn([]Section(d))
	if !ok {
		return d, false
	}
	return Document(out), true
}

func editRows(d Document, sectionID string, fn listEdit[Row]) (Document, bool) {
	return editSections(d, func(sections []Section) ([]Section, bool) {
		return editChild(sections, sectionID, func(s Section) (Section, bool) {
			rows, ok := fn(s.Rows)
			if !ok {
				return s, false
			}
			s.Rows = rows
			return s, true
		})
	})
}

func editColumns(d Document, sectionID, rowID string, fn listEdit[Column]) (Document, bool) {
	return editRows(d, sectionID, func(rows []Row) ([]Row, bool) {
		return editChild(rows, rowID, func(r Row) (Row, bool) {
			cols, ok := fn(r.Columns)
			if !ok {
				return r, false
			}
			r.Columns = cols
			return r, true
		})
	})
}

func editBlocks(d Document, sectionID, rowID, columnID string, fn listEdit[Block]) (Document, bool) {
	return editColumns(d, sectionID, rowID, func(cols []Column) ([]Column, bool) {
		return editChild(cols, columnID, func(c Column) (Column, bool) {
			blocks, ok := fn(c.Blocks)
			if !ok {
				return c, false
			}
			c.Blocks = blocks
			return c, true
		})
	})
}
