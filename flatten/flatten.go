// Package flatten converts one nested record into a flat row of rendered
// key-path / scalar pairs.
//
// It implements two of the pipeline stages: the schema normalizer (Paths,
// which yields the ordered key paths reachable from a record's root) and the
// flattening engine (Flatten, which yields the paths with their values).
// Both are pure: given the same record and configuration they always produce
// the same result and never mutate their input.
package flatten

import (
	"fmt"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/collision"
	"github.com/arloliu/flatkit/internal/options"
	"github.com/arloliu/flatkit/keypath"
	"github.com/arloliu/flatkit/value"
)

// Flattener flattens nested records according to its configuration.
//
// A Flattener is safe for concurrent use: all per-record state lives on the
// stack of each Flatten or Paths call.
type Flattener struct {
	*Config
}

// New creates a Flattener with the given options.
//
// Defaults: "." separator, "[{i}]" index notation, empty null marker,
// empty containers dropped, maximum depth DefaultMaxDepth.
//
// Returns an error if any option carries an invalid value.
//
// Example:
//
//	f, err := flatten.New(
//	    flatten.WithNullMarker("NULL"),
//	    flatten.WithMaxDepth(16),
//	)
func New(opts ...Option) (*Flattener, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	renderer, err := keypath.NewRenderer(cfg.separator, cfg.indexNotation)
	if err != nil {
		return nil, err
	}
	cfg.renderer = renderer

	return &Flattener{Config: cfg}, nil
}

// Flatten produces the flat row for one record.
//
// The record is traversed depth-first: mapping members in document order,
// sequence elements in positional order. Each scalar leaf contributes one
// field at its rendered key path. Null scalars are preserved as the
// configured null marker. Empty containers follow the configured empty
// policy.
//
// Returns:
//   - Row: The flat row, fields in traversal order.
//   - error: errs.ErrDepthExceeded when traversal exceeds the depth limit,
//     or errs.ErrPathCollision when two distinct positions render to the
//     same key path (the message names both source positions).
func (f *Flattener) Flatten(rec value.Value) (Row, error) {
	var fields []Field
	tracker := collision.NewTracker()

	err := f.walk(rec, nil, 0, tracker, func(fld Field) {
		fields = append(fields, fld)
	})
	if err != nil {
		return Row{}, err
	}

	return newRow(fields), nil
}

// Paths produces the ordered key paths reachable from the record's root,
// without resolving values. The order matches the field order of Flatten.
func (f *Flattener) Paths(rec value.Value) ([]string, error) {
	var paths []string
	tracker := collision.NewTracker()

	err := f.walk(rec, nil, 0, tracker, func(fld Field) {
		paths = append(paths, fld.Path)
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// walk traverses v depth-first, emitting one Field per leaf.
// path is the scratch segment stack; it is cloned before being stored in a
// Field so emitted fields stay valid after the stack is truncated.
func (f *Flattener) walk(v value.Value, path keypath.Path, depth int, tracker *collision.Tracker, emit func(Field)) error {
	if depth > f.maxDepth {
		return fmt.Errorf("%w: depth %d at %s", errs.ErrDepthExceeded, depth, path.String())
	}

	switch v.Kind() {
	case value.KindMapping:
		if v.Len() == 0 {
			return f.emitEmpty(path, tracker, emit)
		}
		for _, m := range v.Members() {
			if err := f.walk(m.Value, append(path, keypath.Key(m.Key)), depth+1, tracker, emit); err != nil {
				return err
			}
		}

		return nil

	case value.KindSequence:
		if v.Len() == 0 {
			return f.emitEmpty(path, tracker, emit)
		}
		for i := 0; i < v.Len(); i++ {
			if err := f.walk(v.Elem(i), append(path, keypath.Index(i)), depth+1, tracker, emit); err != nil {
				return err
			}
		}

		return nil

	case value.KindNull:
		return f.emitLeaf(path, f.nullMarker, tracker, emit)

	case value.KindBool, value.KindNumber, value.KindString:
		return f.emitLeaf(path, v.Text(), tracker, emit)

	default:
		return fmt.Errorf("%w: %s at %s", errs.ErrUnsupportedValue, v.Kind(), path.String())
	}
}

func (f *Flattener) emitLeaf(path keypath.Path, val string, tracker *collision.Tracker, emit func(Field)) error {
	rendered := f.renderer.Render(path)
	if err := tracker.Track(rendered, path.String()); err != nil {
		return err
	}

	emit(Field{Path: rendered, Value: val, Source: path.Clone()})

	return nil
}

// emitEmpty handles an empty container: dropped under format.EmptyDrop,
// or one sentinel cell at the container's own path under format.EmptySentinel.
func (f *Flattener) emitEmpty(path keypath.Path, tracker *collision.Tracker, emit func(Field)) error {
	if f.emptyPolicy != format.EmptySentinel {
		return nil
	}

	return f.emitLeaf(path, f.emptySentinel, tracker, emit)
}
