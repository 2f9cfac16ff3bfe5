// Package convert implements fallible conversion from resp.UserValue into
// the scalar, sequence, map and tuple shapes the stream facade needs to
// decode its replies. Every failure carries the offending value so callers
// can inspect what they were handed.
package convert

import (
	"strconv"

	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

// SignedInt is the set of Go signed integer types Int can target.
type SignedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInt is the set of Go unsigned integer types Uint can target.
type UnsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Identity returns v unchanged; it exists so callers can use the same
// higher-order helpers (Slice, Map, Pair) when the element shape is just
// "whatever value was there".
func Identity(v resp.UserValue) (resp.UserValue, error) { return v, nil }

// Text converts a bulk string or status value to a Go string.
func Text(v resp.UserValue) (string, error) {
	switch v.Kind {
	case resp.UserBulkString:
		return string(v.Bulk), nil
	case resp.UserStatus:
		return v.Status, nil
	default:
		return "", errs.WithValue(errs.IncorrectConversion, "expected text", v)
	}
}

// Bytes converts a bulk string value to a Go byte slice.
func Bytes(v resp.UserValue) ([]byte, error) {
	if v.Kind != resp.UserBulkString {
		return nil, errs.WithValue(errs.IncorrectConversion, "expected bulk string", v)
	}
	return v.Bulk, nil
}

// Int converts a wire integer, or a bulk string holding its decimal text,
// into a signed integer of width T. Values are truncated modulo the target
// width, matching Go's own integer conversion semantics.
func Int[T SignedInt](v resp.UserValue) (T, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

// Uint is Int for unsigned targets.
func Uint[T UnsignedInt](v resp.UserValue) (T, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

func asInt64(v resp.UserValue) (int64, error) {
	switch v.Kind {
	case resp.UserInteger:
		return v.Integer, nil
	case resp.UserBulkString:
		n, err := strconv.ParseInt(string(v.Bulk), 10, 64)
		if err != nil {
			return 0, errs.WithValue(errs.IncorrectConversion, "not a decimal integer", v)
		}
		return n, nil
	default:
		return 0, errs.WithValue(errs.IncorrectConversion, "expected integer", v)
	}
}

// Slice converts an array (or a bulk string, whose bytes are each handed to
// elem as an integer value) into a []T using elem to convert each item.
func Slice[T any](v resp.UserValue, elem func(resp.UserValue) (T, error)) ([]T, error) {
	switch v.Kind {
	case resp.UserArray:
		out := make([]T, 0, len(v.Array))
		for _, item := range v.Array {
			t, err := elem(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case resp.UserBulkString:
		out := make([]T, 0, len(v.Bulk))
		for _, b := range v.Bulk {
			t, err := elem(resp.UserValue{Kind: resp.UserInteger, Integer: int64(b)})
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	default:
		return nil, errs.WithValue(errs.IncorrectConversion, "expected array or bulk string", v)
	}
}

// Map converts an even-length array of alternating keys and values into a
// map[K]V using key and val to convert each side of the pair.
func Map[K comparable, V any](v resp.UserValue, key func(resp.UserValue) (K, error), val func(resp.UserValue) (V, error)) (map[K]V, error) {
	if v.Kind != resp.UserArray {
		return nil, errs.WithValue(errs.IncorrectConversion, "expected array", v)
	}
	if len(v.Array)%2 != 0 {
		return nil, errs.WithValue(errs.IncorrectConversion, "expected even-length array", v)
	}
	out := make(map[K]V, len(v.Array)/2)
	for i := 0; i < len(v.Array); i += 2 {
		k, err := key(v.Array[i])
		if err != nil {
			return nil, err
		}
		v2, err := val(v.Array[i+1])
		if err != nil {
			return nil, err
		}
		out[k] = v2
	}
	return out, nil
}

// Pair converts a two-element array into (A, B) using first and second to
// convert each element.
func Pair[A any, B any](v resp.UserValue, first func(resp.UserValue) (A, error), second func(resp.UserValue) (B, error)) (A, B, error) {
	var a A
	var b B
	if v.Kind != resp.UserArray || len(v.Array) != 2 {
		return a, b, errs.WithValue(errs.IncorrectConversion, "expected two-element array", v)
	}
	a, err := first(v.Array[0])
	if err != nil {
		return a, b, err
	}
	b, err = second(v.Array[1])
	if err != nil {
		return a, b, err
	}
	return a, b, nil
}
