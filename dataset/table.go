package dataset

// Row is one labeled molecule: its identifier, its structure handle, and one
// boolean per label in the owning table's vocabulary, positionally aligned.
type Row struct {
	ID        string
	Structure *Structure
	Labels    []bool
}

// Table is an ordered collection of labeled rows sharing one label
// vocabulary. Labels holds the vocabulary in lexicographic order and is the
// canonical column order of every row.
type Table struct {
	Labels []string
	Rows   []Row
}

// NewTable creates an empty table with the given label vocabulary.
func NewTable(labels []string) *Table {
	return &Table{Labels: labels}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// LabelIndex returns the column index of a label, or -1 when the label is
// not part of the vocabulary.
func (t *Table) LabelIndex(name string) int {
	for i, l := range t.Labels {
		if l == name {
			return i
		}
	}
	return -1
}

// Value returns the boolean value of a label in a row. The second return is
// false when the label is not part of the vocabulary.
func (t *Table) Value(row int, label string) (bool, bool) {
	i := t.LabelIndex(label)
	if i < 0 {
		return false, false
	}
	return t.Rows[row].Labels[i], true
}

// IDs returns the row identifiers in row order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.ID
	}
	return out
}

// Select returns a fresh table holding the rows at the given indices, in the
// given order, with contiguous numbering. The vocabulary slice is copied so
// the result shares no mutable state with the receiver.
func (t *Table) Select(indices []int) *Table {
	out := &Table{
		Labels: append([]string(nil), t.Labels...),
		Rows:   make([]Row, len(indices)),
	}
	for i, idx := range indices {
		out.Rows[i] = t.Rows[idx]
	}
	return out
}
