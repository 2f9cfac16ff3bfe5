package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorakit/redistream/pkg/errs"
)

func TestDecodeRoundTrip(t *testing.T) {
	values := []Value{
		Nil(),
		Status("OK"),
		Err("ERR something bad happened"),
		Integer(0),
		Integer(-42),
		Integer(1700000000000),
		Bulk([]byte("")),
		Bulk([]byte("hello world")),
		Arr(),
		Arr(BulkText("GET"), BulkText("key")),
		Arr(Arr(BulkText("a"), Integer(1)), Status("OK"), Nil()),
	}
	for _, v := range values {
		encoded := Encode(nil, v)
		got, n, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), n)
		assert.True(t, v.Equal(got), "round trip mismatch for %+v -> %+v", v, got)
	}
}

func TestDecodeIncremental(t *testing.T) {
	frame := Encode(nil, Arr(BulkText("XADD"), BulkText("s"), BulkText("*")))
	trailing := []byte("garbage-left-over")
	buf := append(append([]byte{}, frame...), trailing...)

	v, n, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
	assert.Equal(t, string(trailing), string(buf[n:]))
	assert.Equal(t, KindArray, v.Kind)

	for i := 0; i < len(frame); i++ {
		prefix := append([]byte{}, frame[:i]...)
		_, n, err := Decode(prefix)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, string(frame[:i]), string(prefix))
	}
}

func TestDecodeMalformedFraming(t *testing.T) {
	cases := [][]byte{
		[]byte("+OK\r$"),
		[]byte("-ERR x\ry"),
		[]byte(":12\rz"),
		[]byte("$3\r\nfooXY"), // payload not terminated by CRLF at the expected offset
	}
	for _, b := range cases {
		_, n, err := Decode(b)
		assert.Error(t, err)
		assert.Equal(t, 0, n)
		assert.True(t, errs.Is(err, errs.Parse), "expected Parse kind for %q", b)
	}
}

func TestDecodeUnknownDiscriminator(t *testing.T) {
	_, n, err := Decode([]byte("!nope\r\n"))
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestDecodeNullBulkAndArray(t *testing.T) {
	v, n, err := Decode([]byte("$-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, KindNil, v.Kind)

	v, n, err = Decode([]byte("*-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, KindNil, v.Kind)

	// Robustness: any negative length, not only -1, denotes null.
	v, n, err = Decode([]byte("$-7\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, KindNil, v.Kind)
}

func TestDecodeBulkNeedsMoreData(t *testing.T) {
	full := Encode(nil, BulkText("hello"))
	for i := 0; i < len(full); i++ {
		_, n, err := Decode(full[:i])
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	v, n, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, Value{}, v)
}
