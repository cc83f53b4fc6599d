// Package decode reads nested records from external producers.
//
// Each reader yields records one at a time and preserves everything the
// flattening pipeline depends on: mapping key order (first-seen column order
// is input-order dependent) and numeric literals (a JSON 1 stays "1", not
// "1.0000"). A top-level sequence is treated as a sequence of records; any
// other top-level value is a single record. Formats that support multiple
// top-level values (YAML documents, MessagePack streams) yield one record
// per value.
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/value"
)

// Reader yields nested records from an input stream. Next returns io.EOF
// after the last record.
type Reader interface {
	Next() (value.Value, error)
}

// maxDecodeDepth caps the nesting depth a reader will follow before failing
// with errs.ErrDepthExceeded. It matches encoding/json's scanner limit, so
// the three readers reject pathological nesting (including cyclic YAML
// aliases) at the same point instead of exhausting the stack.
const maxDecodeDepth = 10000

// CreateReader is a factory function that creates a Reader for the
// specified input type.
func CreateReader(inputType format.InputType, r io.Reader) (Reader, error) {
	switch inputType {
	case format.InputJSON:
		return NewJSONReader(r), nil
	case format.InputYAML:
		return NewYAMLReader(r), nil
	case format.InputMsgPack:
		return NewMsgPackReader(r), nil
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}

// ReadAll drains a Reader into a slice of records.
func ReadAll(r Reader) ([]value.Value, error) {
	var records []value.Value
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
