package decode

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/value"
)

// MsgPackReader reads records from MessagePack input.
//
// Values are decoded through the wire codes directly instead of
// DecodeInterface, so map entry order is preserved and integers never round
// through float64. A stream of top-level values yields one record per value;
// a single top-level array is expanded into its elements.
type MsgPackReader struct {
	dec       *msgpack.Decoder
	started   bool
	inArray   bool
	remaining int
	done      bool
}

var _ Reader = (*MsgPackReader)(nil)

// NewMsgPackReader creates a MsgPackReader over r.
func NewMsgPackReader(r io.Reader) *MsgPackReader {
	return &MsgPackReader{dec: msgpack.NewDecoder(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (mr *MsgPackReader) Next() (value.Value, error) {
	if mr.done {
		return value.Value{}, io.EOF
	}

	if !mr.started {
		mr.started = true

		code, err := mr.dec.PeekCode()
		if errors.Is(err, io.EOF) {
			mr.done = true
			return value.Value{}, io.EOF
		}
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}

		if msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32 {
			n, err := mr.dec.DecodeArrayLen()
			if err != nil {
				return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
			}
			mr.inArray = true
			mr.remaining = n
		}
	}

	if mr.inArray {
		if mr.remaining == 0 {
			mr.done = true
			return value.Value{}, io.EOF
		}
		mr.remaining--

		return mr.readValue(0)
	}

	if _, err := mr.dec.PeekCode(); err != nil {
		if errors.Is(err, io.EOF) {
			mr.done = true
			return value.Value{}, io.EOF
		}
		return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
	}

	return mr.readValue(0)
}

// readValue builds the next complete value. Nothing in the wire format
// bounds nesting, so depth is capped; a stream of one-element array headers
// must surface as an error, not a blown stack.
func (mr *MsgPackReader) readValue(depth int) (value.Value, error) {
	if depth > maxDecodeDepth {
		return value.Value{}, fmt.Errorf("%w: msgpack nesting", errs.ErrDepthExceeded)
	}

	code, err := mr.dec.PeekCode()
	if err != nil {
		return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
	}

	switch {
	case code == msgpcode.Nil:
		if err := mr.dec.DecodeNil(); err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Null(), nil

	case code == msgpcode.True || code == msgpcode.False:
		b, err := mr.dec.DecodeBool()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Bool(b), nil

	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64:
		i, err := mr.dec.DecodeInt64()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Int(i), nil

	case code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32, code == msgpcode.Uint64:
		u, err := mr.dec.DecodeUint64()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Number(strconv.FormatUint(u, 10)), nil

	case code == msgpcode.Float:
		f, err := mr.dec.DecodeFloat32()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Number(strconv.FormatFloat(float64(f), 'g', -1, 32)), nil

	case code == msgpcode.Double:
		f, err := mr.dec.DecodeFloat64()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.Float(f), nil

	case msgpcode.IsString(code):
		s, err := mr.dec.DecodeString()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.String(s), nil

	case msgpcode.IsBin(code):
		b, err := mr.dec.DecodeBytes()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		return value.String(string(b)), nil

	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		return mr.readMapping(depth)

	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		return mr.readSequence(depth)

	default:
		return value.Value{}, fmt.Errorf("%w: msgpack code 0x%02x", errs.ErrUnsupportedValue, code)
	}
}

func (mr *MsgPackReader) readMapping(depth int) (value.Value, error) {
	n, err := mr.dec.DecodeMapLen()
	if err != nil {
		return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
	}

	members := make([]value.Member, 0, n)
	for i := 0; i < n; i++ {
		keyCode, err := mr.dec.PeekCode()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}
		if !msgpcode.IsString(keyCode) && !msgpcode.IsBin(keyCode) {
			return value.Value{}, fmt.Errorf("%w: msgpack code 0x%02x", errs.ErrInvalidKey, keyCode)
		}
		key, err := mr.dec.DecodeString()
		if err != nil {
			return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
		}

		v, err := mr.readValue(depth + 1)
		if err != nil {
			return value.Value{}, err
		}
		members = append(members, value.Member{Key: key, Value: v})
	}

	return value.Mapping(members...), nil
}

func (mr *MsgPackReader) readSequence(depth int) (value.Value, error) {
	n, err := mr.dec.DecodeArrayLen()
	if err != nil {
		return value.Value{}, fmt.Errorf("decode msgpack: %w", err)
	}

	elems := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := mr.readValue(depth + 1)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}

	return value.Sequence(elems...), nil
}
