// Package value models the nested input data that flatkit flattens.
//
// A Value is a tagged variant with three shapes: scalar (null, bool, number,
// string), ordered sequence, and ordered mapping. Values are immutable once
// constructed; the flattening pipeline never mutates its input.
//
// Numbers carry their source literal verbatim, so an input value of 1 is
// emitted as "1" and 3.02e-5 as "3.02e-5" regardless of how it would round
// through float64.
package value

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/arloliu/flatkit/errs"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindInvalid  Kind = 0x0 // KindInvalid is the zero Value.
	KindNull     Kind = 0x1 // KindNull is the null scalar.
	KindBool     Kind = 0x2 // KindBool is a boolean scalar.
	KindNumber   Kind = 0x3 // KindNumber is a numeric scalar holding its source literal.
	KindString   Kind = 0x4 // KindString is a string scalar.
	KindSequence Kind = 0x5 // KindSequence is an ordered sequence of Values.
	KindMapping  Kind = 0x6 // KindMapping is an ordered string-keyed mapping.
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindMapping:
		return "Mapping"
	default:
		return "Invalid"
	}
}

// Member is one key/value pair of a mapping. Mapping members keep the order
// in which they were produced by the input decoder.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a nested input structure.
type Value struct {
	kind    Kind
	boolVal bool
	text    string // string scalar content or number literal
	seq     []Value
	members []Member
}

// Null returns the null scalar.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean scalar.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Number returns a numeric scalar holding the given source literal.
// The literal is emitted verbatim in the flat output.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// Int returns a numeric scalar for the given integer.
func Int(i int64) Value {
	return Number(strconv.FormatInt(i, 10))
}

// Float returns a numeric scalar for the given float, using the shortest
// literal that round-trips through float64.
func Float(f float64) Value {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// String returns a string scalar.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Sequence returns a sequence of the given elements.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// Mapping returns a mapping of the given members, in the given order.
func Mapping(members ...Member) Value {
	return Value{kind: KindMapping, members: members}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether the value is null, bool, number, or string.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// Bool returns the boolean content. It is false for any other kind.
func (v Value) Bool() bool {
	return v.boolVal
}

// Text returns the scalar content as a string: the string itself, the number
// literal, "true"/"false" for booleans, and "" for null. The null marker
// policy is applied by the flattening engine, not here.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber, KindString:
		return v.text
	default:
		return ""
	}
}

// Len returns the number of elements or members. It is zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.members)
	default:
		return 0
	}
}

// Elem returns the i-th sequence element. Panics if the value is not a
// sequence or the index is out of range.
func (v Value) Elem(i int) Value {
	if v.kind != KindSequence {
		panic("value: Elem on non-sequence")
	}

	return v.seq[i]
}

// Members returns the mapping members in order. The returned slice is shared
// with the value and must not be modified.
func (v Value) Members() []Member {
	return v.members
}

// FromAny converts an arbitrary Go value into a Value.
//
// Supported inputs: nil, bool, string, all int/uint/float types, []any,
// []Value, map[string]any, and map[string]Value. Go maps have no iteration
// order, so mapping members are produced in sorted key order to keep the
// conversion deterministic; decoders that preserve input order build Values
// directly instead of going through FromAny.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case float64:
		return Float(t), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}

		return Sequence(elems...), nil
	case []Value:
		return Sequence(t...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		members := make([]Member, 0, len(t))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: v})
		}

		return Mapping(members...), nil
	case map[string]Value:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		members := make([]Member, 0, len(t))
		for _, k := range keys {
			members = append(members, Member{Key: k, Value: t[k]})
		}

		return Mapping(members...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, x)
	}
}
