package decode

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/value"
)

// YAMLReader reads records from YAML input.
//
// Decoding goes through yaml.Node rather than map[string]any so mapping key
// order survives and numeric scalars keep their source literal. Every YAML
// document yields one record; a document whose root is a sequence yields one
// record per element.
type YAMLReader struct {
	dec     *yaml.Decoder
	pending []value.Value
	done    bool
}

var _ Reader = (*YAMLReader)(nil)

// NewYAMLReader creates a YAMLReader over r.
func NewYAMLReader(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (yr *YAMLReader) Next() (value.Value, error) {
	if len(yr.pending) > 0 {
		rec := yr.pending[0]
		yr.pending = yr.pending[1:]

		return rec, nil
	}
	if yr.done {
		return value.Value{}, io.EOF
	}

	var node yaml.Node
	err := yr.dec.Decode(&node)
	if errors.Is(err, io.EOF) {
		yr.done = true
		return value.Value{}, io.EOF
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("decode yaml: %w", err)
	}

	v, err := yamlNodeValue(&node, 0)
	if err != nil {
		return value.Value{}, err
	}

	// A document whose root is a sequence is a sequence of records.
	if v.Kind() == value.KindSequence {
		if v.Len() == 0 {
			return yr.Next()
		}
		for i := 1; i < v.Len(); i++ {
			yr.pending = append(yr.pending, v.Elem(i))
		}

		return v.Elem(0), nil
	}

	return v, nil
}

// yamlNodeValue builds a Value from a node tree. Alias expansion can make
// the node graph cyclic (a: &x {b: *x}), so depth is bounded rather than
// trusting the graph to terminate.
func yamlNodeValue(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxDecodeDepth {
		return value.Value{}, fmt.Errorf("%w: yaml nesting at line %d", errs.ErrDepthExceeded, n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return yamlNodeValue(n.Content[0], depth+1)

	case yaml.AliasNode:
		return yamlNodeValue(n.Alias, depth+1)

	case yaml.MappingNode:
		members := make([]value.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return value.Value{}, fmt.Errorf("%w: line %d", errs.ErrInvalidKey, keyNode.Line)
			}
			v, err := yamlNodeValue(n.Content[i+1], depth+1)
			if err != nil {
				return value.Value{}, err
			}
			members = append(members, value.Member{Key: keyNode.Value, Value: v})
		}

		return value.Mapping(members...), nil

	case yaml.SequenceNode:
		elems := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlNodeValue(c, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		}

		return value.Sequence(elems...), nil

	case yaml.ScalarNode:
		return yamlScalarValue(n), nil

	default:
		return value.Value{}, fmt.Errorf("%w: yaml node kind %d", errs.ErrUnsupportedValue, n.Kind)
	}
}

func yamlScalarValue(n *yaml.Node) value.Value {
	switch n.Tag {
	case "!!null":
		return value.Null()
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			// Non-canonical booleans fall back to their literal text.
			return value.String(n.Value)
		}
		return value.Bool(b)
	case "!!int", "!!float":
		return value.Number(n.Value)
	default:
		return value.String(n.Value)
	}
}
