package flatten

import (
	"github.com/arloliu/flatkit/internal/hash"
	"github.com/arloliu/flatkit/keypath"
)

// Field is one flattened leaf: a rendered key path, the scalar value at that
// position, and the source position inside the nested record.
type Field struct {
	// Path is the rendered key path, the column name in the flat file.
	Path string

	// Value is the rendered scalar: string content, number literal verbatim,
	// "true"/"false", the null marker for nulls, or the empty-container
	// sentinel.
	Value string

	// Source is the canonical position of the leaf inside the record.
	Source keypath.Path
}

// Row is the flat projection of one record: its fields in production order
// (document order of the depth-first traversal) with a hash index for O(1)
// lookup by rendered path.
//
// Rows are immutable once produced.
type Row struct {
	fields []Field
	index  map[uint64]int
}

func newRow(fields []Field) Row {
	index := make(map[uint64]int, len(fields))
	for i, f := range fields {
		index[hash.ID(f.Path)] = i
	}

	return Row{fields: fields, index: index}
}

// Fields returns the fields in production order. The returned slice is
// shared with the row and must not be modified.
func (r Row) Fields() []Field {
	return r.fields
}

// Len returns the number of fields in the row.
func (r Row) Len() int {
	return len(r.fields)
}

// Get returns the value recorded at the given rendered key path.
//
// Lookup keys on the path's 64-bit hash; on the (vanishingly rare) chance of
// a hash collision the stored path is verified and a linear scan resolves
// the true match.
func (r Row) Get(path string) (string, bool) {
	i, ok := r.index[hash.ID(path)]
	if !ok {
		return "", false
	}
	if r.fields[i].Path == path {
		return r.fields[i].Value, true
	}

	for _, f := range r.fields {
		if f.Path == path {
			return f.Value, true
		}
	}

	return "", false
}

// Has reports whether the row contains the given rendered key path.
func (r Row) Has(path string) bool {
	_, ok := r.Get(path)
	return ok
}
