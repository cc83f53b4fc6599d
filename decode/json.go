package decode

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/value"
)

// JSONReader reads records from JSON input.
//
// Decoding goes through the token stream rather than map[string]any, for two
// reasons: object key order is preserved exactly as it appears in the input,
// and numbers keep their source literal via json.Number.
//
// A top-level array is streamed element by element, so an arbitrarily long
// record sequence never has to fit in memory at once.
type JSONReader struct {
	dec     *json.Decoder
	started bool
	inArray bool
	done    bool
}

var _ Reader = (*JSONReader)(nil)

// NewJSONReader creates a JSONReader over r.
func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	return &JSONReader{dec: dec}
}

// Next returns the next record, or io.EOF after the last one.
func (jr *JSONReader) Next() (value.Value, error) {
	if jr.done {
		return value.Value{}, io.EOF
	}

	if !jr.started {
		jr.started = true

		tok, err := jr.dec.Token()
		if err == io.EOF {
			jr.done = true
			return value.Value{}, io.EOF
		}
		if err != nil {
			return value.Value{}, fmt.Errorf("decode json: %w", err)
		}

		if delim, ok := tok.(json.Delim); ok && delim == '[' {
			jr.inArray = true
			return jr.nextElement()
		}

		// A single top-level record of any other shape.
		return jr.valueFromToken(tok)
	}

	if jr.inArray {
		return jr.nextElement()
	}

	// Stream of top-level values.
	tok, err := jr.dec.Token()
	if err == io.EOF {
		jr.done = true
		return value.Value{}, io.EOF
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("decode json: %w", err)
	}

	return jr.valueFromToken(tok)
}

func (jr *JSONReader) nextElement() (value.Value, error) {
	if !jr.dec.More() {
		// Consume the closing bracket.
		if _, err := jr.dec.Token(); err != nil && err != io.EOF {
			return value.Value{}, fmt.Errorf("decode json: %w", err)
		}
		jr.done = true

		return value.Value{}, io.EOF
	}

	tok, err := jr.dec.Token()
	if err != nil {
		return value.Value{}, fmt.Errorf("decode json: %w", err)
	}

	return jr.valueFromToken(tok)
}

// valueFromToken builds a complete Value whose first token is tok.
func (jr *JSONReader) valueFromToken(tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return jr.readMapping()
		case '[':
			return jr.readSequence()
		default:
			return value.Value{}, fmt.Errorf("decode json: unexpected %q", t.String())
		}
	case string:
		return value.String(t), nil
	case json.Number:
		return value.Number(t.String()), nil
	case bool:
		return value.Bool(t), nil
	case nil:
		return value.Null(), nil
	default:
		return value.Value{}, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, tok)
	}
}

// readMapping reads members up to the closing '}' in document order.
func (jr *JSONReader) readMapping() (value.Value, error) {
	var members []value.Member
	for jr.dec.More() {
		keyTok, err := jr.dec.Token()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode json: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %v", errs.ErrInvalidKey, keyTok)
		}

		valTok, err := jr.dec.Token()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode json: %w", err)
		}
		v, err := jr.valueFromToken(valTok)
		if err != nil {
			return value.Value{}, err
		}

		members = append(members, value.Member{Key: key, Value: v})
	}
	if _, err := jr.dec.Token(); err != nil { // consume '}'
		return value.Value{}, fmt.Errorf("decode json: %w", err)
	}

	return value.Mapping(members...), nil
}

// readSequence reads elements up to the closing ']' in positional order.
func (jr *JSONReader) readSequence() (value.Value, error) {
	var elems []value.Value
	for jr.dec.More() {
		tok, err := jr.dec.Token()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode json: %w", err)
		}
		v, err := jr.valueFromToken(tok)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := jr.dec.Token(); err != nil { // consume ']'
		return value.Value{}, fmt.Errorf("decode json: %w", err)
	}

	return value.Sequence(elems...), nil
}
