package decode

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/value"
)

// ====== JSON ======

func TestJSONReader_PreservesKeyOrder(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`{"z":1,"a":2,"m":3}`))

	rec, err := rd.Next()
	require.NoError(t, err)
	require.Equal(t, value.KindMapping, rec.Kind())

	members := rec.Members()
	require.Len(t, members, 3)
	require.Equal(t, "z", members[0].Key)
	require.Equal(t, "a", members[1].Key)
	require.Equal(t, "m", members[2].Key)

	_, err = rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestJSONReader_NumberLiterals(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`{"a":1,"b":1.50,"c":1e3,"d":-0.25}`))

	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Equal(t, "1", members[0].Value.Text())
	require.Equal(t, "1.50", members[1].Value.Text())
	require.Equal(t, "1e3", members[2].Value.Text())
	require.Equal(t, "-0.25", members[3].Value.Text())
}

func TestJSONReader_TopLevelArrayStreams(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`[{"a":1},{"a":2},{"a":3}]`))

	for i := 1; i <= 3; i++ {
		rec, err := rd.Next()
		require.NoError(t, err)
		require.Equal(t, value.KindMapping, rec.Kind())
	}

	_, err := rd.Next()
	require.ErrorIs(t, err, io.EOF)
	// EOF is sticky.
	_, err = rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestJSONReader_StreamOfTopLevelValues(t *testing.T) {
	rd := NewJSONReader(strings.NewReader("{\"a\":1}\n{\"a\":2}\n"))

	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestJSONReader_ScalarAndNullRecords(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`[true, null, "hi", 7]`))

	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, value.KindBool, records[0].Kind())
	require.Equal(t, value.KindNull, records[1].Kind())
	require.Equal(t, value.KindString, records[2].Kind())
	require.Equal(t, value.KindNumber, records[3].Kind())
}

func TestJSONReader_NestedStructures(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`{"a":{"b":[1,{"c":2}]}}`))

	rec, err := rd.Next()
	require.NoError(t, err)

	inner := rec.Members()[0].Value
	require.Equal(t, value.KindMapping, inner.Kind())

	seq := inner.Members()[0].Value
	require.Equal(t, value.KindSequence, seq.Kind())
	require.Equal(t, 2, seq.Len())
	require.Equal(t, value.KindMapping, seq.Elem(1).Kind())
}

func TestJSONReader_EmptyInput(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(""))

	_, err := rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestJSONReader_Malformed(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`{"a":`))

	_, err := rd.Next()
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

// ====== YAML ======

func TestYAMLReader_PreservesKeyOrder(t *testing.T) {
	rd := NewYAMLReader(strings.NewReader("z: 1\na: 2\nm: 3\n"))

	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Len(t, members, 3)
	require.Equal(t, "z", members[0].Key)
	require.Equal(t, "a", members[1].Key)
	require.Equal(t, "m", members[2].Key)
}

func TestYAMLReader_MultipleDocuments(t *testing.T) {
	rd := NewYAMLReader(strings.NewReader("a: 1\n---\na: 2\n---\na: 3\n"))

	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestYAMLReader_RootSequenceExpands(t *testing.T) {
	rd := NewYAMLReader(strings.NewReader("- a: 1\n- a: 2\n"))

	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, value.KindMapping, records[0].Kind())
	require.Equal(t, "1", records[0].Members()[0].Value.Text())
	require.Equal(t, "2", records[1].Members()[0].Value.Text())
}

func TestYAMLReader_ScalarTags(t *testing.T) {
	input := "n: null\nb: true\ni: 42\nf: 2.5\ns: hello\nq: \"17\"\n"
	rd := NewYAMLReader(strings.NewReader(input))

	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Equal(t, value.KindNull, members[0].Value.Kind())
	require.Equal(t, value.KindBool, members[1].Value.Kind())
	require.Equal(t, value.KindNumber, members[2].Value.Kind())
	require.Equal(t, "42", members[2].Value.Text())
	require.Equal(t, value.KindNumber, members[3].Value.Kind())
	require.Equal(t, "2.5", members[3].Value.Text())
	require.Equal(t, value.KindString, members[4].Value.Kind())
	// Quoted scalars stay strings even when they look numeric.
	require.Equal(t, value.KindString, members[5].Value.Kind())
}

func TestYAMLReader_Anchors(t *testing.T) {
	input := "base: &b\n  x: 1\nother: *b\n"
	rd := NewYAMLReader(strings.NewReader(input))

	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Equal(t, value.KindMapping, members[1].Value.Kind())
	require.Equal(t, "1", members[1].Value.Members()[0].Value.Text())
}

func TestYAMLReader_CyclicAlias(t *testing.T) {
	// An anchor referencing itself makes the node graph cyclic; expansion
	// must fail instead of recursing forever.
	rd := NewYAMLReader(strings.NewReader("a: &x\n  b: *x\n"))

	_, err := rd.Next()
	require.ErrorIs(t, err, errs.ErrDepthExceeded)
}

func TestYAMLReader_NonScalarKey(t *testing.T) {
	rd := NewYAMLReader(strings.NewReader("? [1, 2]\n: 3\n"))

	_, err := rd.Next()
	require.ErrorIs(t, err, errs.ErrInvalidKey)
}

// ====== MessagePack ======

func encodeMsgPack(t *testing.T, fn func(enc *msgpack.Encoder)) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	fn(msgpack.NewEncoder(&buf))

	return &buf
}

func TestMsgPackReader_PreservesKeyOrder(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeMapLen(3))
		require.NoError(t, enc.EncodeString("z"))
		require.NoError(t, enc.EncodeInt(1))
		require.NoError(t, enc.EncodeString("a"))
		require.NoError(t, enc.EncodeInt(2))
		require.NoError(t, enc.EncodeString("m"))
		require.NoError(t, enc.EncodeInt(3))
	})

	rd := NewMsgPackReader(buf)
	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Len(t, members, 3)
	require.Equal(t, "z", members[0].Key)
	require.Equal(t, "a", members[1].Key)
	require.Equal(t, "m", members[2].Key)
	require.Equal(t, "1", members[0].Value.Text())

	_, err = rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestMsgPackReader_ScalarKinds(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeMapLen(6))
		require.NoError(t, enc.EncodeString("null"))
		require.NoError(t, enc.EncodeNil())
		require.NoError(t, enc.EncodeString("bool"))
		require.NoError(t, enc.EncodeBool(true))
		require.NoError(t, enc.EncodeString("int"))
		require.NoError(t, enc.EncodeInt(-42))
		require.NoError(t, enc.EncodeString("uint"))
		require.NoError(t, enc.EncodeUint(18446744073709551615))
		require.NoError(t, enc.EncodeString("float"))
		require.NoError(t, enc.EncodeFloat64(2.5))
		require.NoError(t, enc.EncodeString("str"))
		require.NoError(t, enc.EncodeString("hello"))
	})

	rd := NewMsgPackReader(buf)
	rec, err := rd.Next()
	require.NoError(t, err)

	members := rec.Members()
	require.Equal(t, value.KindNull, members[0].Value.Kind())
	require.Equal(t, value.KindBool, members[1].Value.Kind())
	require.Equal(t, "-42", members[2].Value.Text())
	require.Equal(t, "18446744073709551615", members[3].Value.Text())
	require.Equal(t, "2.5", members[4].Value.Text())
	require.Equal(t, "hello", members[5].Value.Text())
}

func TestMsgPackReader_TopLevelArrayStreams(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeArrayLen(2))
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeString("a"))
		require.NoError(t, enc.EncodeInt(1))
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeString("a"))
		require.NoError(t, enc.EncodeInt(2))
	})

	rd := NewMsgPackReader(buf)
	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2", records[1].Members()[0].Value.Text())
}

func TestMsgPackReader_StreamOfTopLevelValues(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeString("a"))
		require.NoError(t, enc.EncodeInt(1))
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeString("a"))
		require.NoError(t, enc.EncodeInt(2))
	})

	rd := NewMsgPackReader(buf)
	records, err := ReadAll(rd)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestMsgPackReader_NestedSequence(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeString("seq"))
		require.NoError(t, enc.EncodeArrayLen(2))
		require.NoError(t, enc.EncodeInt(4))
		require.NoError(t, enc.EncodeInt(5))
	})

	rd := NewMsgPackReader(buf)
	rec, err := rd.Next()
	require.NoError(t, err)

	seq := rec.Members()[0].Value
	require.Equal(t, value.KindSequence, seq.Kind())
	require.Equal(t, "4", seq.Elem(0).Text())
	require.Equal(t, "5", seq.Elem(1).Text())
}

func TestMsgPackReader_NonStringKey(t *testing.T) {
	buf := encodeMsgPack(t, func(enc *msgpack.Encoder) {
		require.NoError(t, enc.EncodeMapLen(1))
		require.NoError(t, enc.EncodeInt(1))
		require.NoError(t, enc.EncodeInt(2))
	})

	rd := NewMsgPackReader(buf)
	_, err := rd.Next()
	require.ErrorIs(t, err, errs.ErrInvalidKey)
}

func TestMsgPackReader_DeepNesting(t *testing.T) {
	// 0x91 is a one-element fixarray header; repeating it nests one level
	// per byte, so a small payload encodes arbitrarily deep nesting.
	payload := bytes.Repeat([]byte{0x91}, maxDecodeDepth+10)
	rd := NewMsgPackReader(bytes.NewReader(payload))

	_, err := rd.Next()
	require.ErrorIs(t, err, errs.ErrDepthExceeded)
}

func TestMsgPackReader_EmptyInput(t *testing.T) {
	rd := NewMsgPackReader(bytes.NewReader(nil))

	_, err := rd.Next()
	require.ErrorIs(t, err, io.EOF)
}

// ====== Factory ======

func TestCreateReader(t *testing.T) {
	tests := []struct {
		name      string
		inputType format.InputType
		wantErr   bool
	}{
		{name: "json", inputType: format.InputJSON},
		{name: "yaml", inputType: format.InputYAML},
		{name: "msgpack", inputType: format.InputMsgPack},
		{name: "unknown", inputType: format.InputType(0xff), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd, err := CreateReader(tt.inputType, strings.NewReader(""))
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rd)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, rd)
		})
	}
}

func TestReadAll_PropagatesError(t *testing.T) {
	rd := NewJSONReader(strings.NewReader(`[{"a":1}, {"a":`))

	_, err := ReadAll(rd)
	require.Error(t, err)
}
