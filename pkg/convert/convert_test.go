package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

func TestTextAndBytes(t *testing.T) {
	s, err := Text(resp.UserValue{Kind: resp.UserBulkString, Bulk: []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = Text(resp.UserValue{Kind: resp.UserInteger, Integer: 1})
	assert.True(t, errs.Is(err, errs.IncorrectConversion))
}

func TestIntCoercionFromIntegerAndBulkString(t *testing.T) {
	n, err := Int[int64](resp.UserValue{Kind: resp.UserInteger, Integer: 123})
	require.NoError(t, err)
	assert.Equal(t, int64(123), n)

	n2, err := Int[int32](resp.UserValue{Kind: resp.UserBulkString, Bulk: []byte("123")})
	require.NoError(t, err)
	assert.Equal(t, int32(123), n2)

	u, err := Uint[uint8](resp.UserValue{Kind: resp.UserInteger, Integer: 257})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u) // 257 mod 256
}

func TestSliceFromArrayAndBulkString(t *testing.T) {
	arr := resp.UserValue{Kind: resp.UserArray, Array: []resp.UserValue{
		{Kind: resp.UserInteger, Integer: 1},
		{Kind: resp.UserInteger, Integer: 2},
	}}
	out, err := Slice(arr, Int[int])
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out)

	bulk := resp.UserValue{Kind: resp.UserBulkString, Bulk: []byte("ab")}
	bytesOut, err := Slice(bulk, func(v resp.UserValue) (byte, error) {
		n, err := Uint[uint8](v)
		return byte(n), err
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), bytesOut)
}

func TestMap(t *testing.T) {
	arr := resp.UserValue{Kind: resp.UserArray, Array: []resp.UserValue{
		{Kind: resp.UserBulkString, Bulk: []byte("a")},
		{Kind: resp.UserBulkString, Bulk: []byte("1")},
		{Kind: resp.UserBulkString, Bulk: []byte("b")},
		{Kind: resp.UserBulkString, Bulk: []byte("2")},
	}}
	m, err := Map(arr, Text, Text)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)

	odd := resp.UserValue{Kind: resp.UserArray, Array: arr.Array[:3]}
	_, err = Map(odd, Text, Text)
	assert.True(t, errs.Is(err, errs.IncorrectConversion))
}

func TestPair(t *testing.T) {
	arr := resp.UserValue{Kind: resp.UserArray, Array: []resp.UserValue{
		{Kind: resp.UserBulkString, Bulk: []byte("1-0")},
		{Kind: resp.UserInteger, Integer: 7},
	}}
	a, b, err := Pair(arr, Text, Int[int64])
	require.NoError(t, err)
	assert.Equal(t, "1-0", a)
	assert.Equal(t, int64(7), b)
}
