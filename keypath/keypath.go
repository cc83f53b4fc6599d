// Package keypath models the position of a leaf inside a nested value and
// renders it to the flat column name used in the output file.
//
// A path is an ordered sequence of segments. Each segment is either a mapping
// key or a sequence index. Rendering is configurable: mapping keys are joined
// with a separator (default "."), and sequence indices are formatted with an
// index-notation template (default "[{i}]") appended without a separator, so
// the default rendering of key "c", index 1 is "c[1]".
package keypath

import (
	"strconv"
	"strings"

	"github.com/arloliu/flatkit/errs"
)

// Segment is one step in a key path: a mapping key or a sequence index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a mapping-key segment.
func Key(name string) Segment {
	return Segment{key: name}
}

// Index creates a sequence-index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment is a sequence index.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Key returns the mapping key. It is empty for index segments.
func (s Segment) Key() string {
	return s.key
}

// Index returns the sequence index. It is zero for key segments.
func (s Segment) Index() int {
	return s.index
}

// String returns the canonical form of the segment: the key itself, or the
// index in "[i]" notation. Keys containing ".", "[" or "]" are quoted so the
// canonical form stays unambiguous. Used in diagnostics and for source
// identity, independent of any Renderer.
func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	if strings.ContainsAny(s.key, ".[]\"") {
		return strconv.Quote(s.key)
	}

	return s.key
}

// Path identifies one position inside a nested value, from the root down.
type Path []Segment

// Child returns a new path extended by a mapping-key segment.
// The receiver is not modified.
func (p Path) Child(key string) Path {
	return p.extend(Key(key))
}

// Element returns a new path extended by a sequence-index segment.
// The receiver is not modified.
func (p Path) Element(i int) Path {
	return p.extend(Index(i))
}

func (p Path) extend(s Segment) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = s

	return next
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}

	c := make(Path, len(p))
	copy(c, p)

	return c
}

// String returns the canonical rendering of the path using "." and "[i]"
// notation, with ambiguous keys quoted. Two distinct paths never share a
// canonical rendering, so this form doubles as the source identity in
// collision checks. It is not affected by Renderer configuration.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if !seg.isIndex && i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.String())
	}

	return sb.String()
}

// indexPlaceholder is the substring of an index-notation template that is
// replaced by the sequence index.
const indexPlaceholder = "{i}"

// Renderer renders paths to flat column names.
//
// Rendering is not guaranteed to be injective: a key containing the separator,
// or a non-default index notation, can make two distinct paths render
// identically. The flattening engine detects such collisions; the renderer
// itself performs no checking.
type Renderer struct {
	separator   string
	indexPrefix string
	indexSuffix string
}

// DefaultSeparator is the default key segment separator.
const DefaultSeparator = "."

// DefaultIndexNotation is the default sequence index template.
const DefaultIndexNotation = "[{i}]"

// NewRenderer creates a Renderer with the given separator and index-notation
// template. The separator must be non-empty and the template must contain the
// "{i}" placeholder exactly where the index digits belong.
func NewRenderer(separator, indexNotation string) (Renderer, error) {
	if separator == "" {
		return Renderer{}, errs.ErrInvalidSeparator
	}

	pos := strings.Index(indexNotation, indexPlaceholder)
	if pos < 0 {
		return Renderer{}, errs.ErrInvalidIndexNotation
	}

	return Renderer{
		separator:   separator,
		indexPrefix: indexNotation[:pos],
		indexSuffix: indexNotation[pos+len(indexPlaceholder):],
	}, nil
}

// DefaultRenderer returns a Renderer with "." separator and "[{i}]" indices.
func DefaultRenderer() Renderer {
	r, _ := NewRenderer(DefaultSeparator, DefaultIndexNotation)
	return r
}

// Separator returns the configured key segment separator.
func (r Renderer) Separator() string {
	return r.separator
}

// Render renders the path to its flat column name.
//
// Key segments after the first segment are prefixed with the separator.
// Index segments attach directly to whatever precedes them.
func (r Renderer) Render(p Path) string {
	var sb strings.Builder
	for i, seg := range p {
		if seg.isIndex {
			sb.WriteString(r.indexPrefix)
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteString(r.indexSuffix)
			continue
		}
		if i > 0 {
			sb.WriteString(r.separator)
		}
		sb.WriteString(seg.key)
	}

	return sb.String()
}
