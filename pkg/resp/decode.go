package resp

import (
	"strconv"

	"github.com/vorakit/redistream/pkg/errs"
)

// Decode reads one complete RESP frame from the front of b.
//
// Three outcomes are possible:
//   - success: n > 0, err == nil, v holds the decoded frame.
//   - need more bytes: n == 0, err == nil. The caller must append more
//     bytes to b and call Decode again; nothing has been consumed.
//   - malformed input: err != nil. The connection that produced these
//     bytes must be closed; RESP framing cannot be resynchronised.
//
// Decode never mutates b and never blocks.
func Decode(b []byte) (v Value, n int, err error) {
	if len(b) == 0 {
		return Value{}, 0, nil
	}
	switch b[0] {
	case '+':
		return decodeLine(b, KindStatus)
	case '-':
		return decodeLine(b, KindError)
	case ':':
		return decodeInteger(b)
	case '$':
		return decodeBulk(b)
	case '*':
		return decodeArray(b)
	default:
		return Value{}, 0, errs.Newf(errs.Parse, "unknown RESP discriminator %q", b[0])
	}
}

// scanCRLF finds the terminating "\r\n" starting at offset from. It returns
// the index of the CR, or ok=false with a nil error when more bytes are
// needed, or a Parse error when a CR is present but not followed by LF.
func scanCRLF(b []byte, from int) (end int, ok bool, err error) {
	for i := from; i < len(b); i++ {
		if b[i] != '\r' {
			continue
		}
		if i+1 >= len(b) {
			return 0, false, nil
		}
		if b[i+1] != '\n' {
			return 0, false, errs.New(errs.Parse, "CR not followed by LF")
		}
		return i, true, nil
	}
	return 0, false, nil
}

func decodeLine(b []byte, kind Kind) (Value, int, error) {
	end, ok, err := scanCRLF(b, 1)
	if err != nil {
		return Value{}, 0, err
	}
	if !ok {
		return Value{}, 0, nil
	}
	text := string(b[1:end])
	consumed := end + 2
	if kind == KindStatus {
		return Status(text), consumed, nil
	}
	return Err(text), consumed, nil
}

func decodeInteger(b []byte) (Value, int, error) {
	end, ok, err := scanCRLF(b, 1)
	if err != nil {
		return Value{}, 0, err
	}
	if !ok {
		return Value{}, 0, nil
	}
	n, perr := strconv.ParseInt(string(b[1:end]), 10, 64)
	if perr != nil {
		return Value{}, 0, errs.Wrap(errs.Parse, perr, "invalid RESP integer")
	}
	return Integer(n), end + 2, nil
}

func decodeBulk(b []byte) (Value, int, error) {
	end, ok, err := scanCRLF(b, 1)
	if err != nil {
		return Value{}, 0, err
	}
	if !ok {
		return Value{}, 0, nil
	}
	length, perr := strconv.Atoi(string(b[1:end]))
	if perr != nil {
		return Value{}, 0, errs.Wrap(errs.Parse, perr, "invalid bulk string length")
	}
	header := end + 2
	// Any negative length is treated as null, not only the canonical -1;
	// some servers are observed to emit other negative values.
	if length < 0 {
		return Nil(), header, nil
	}
	total := header + length + 2
	if len(b) < total {
		return Value{}, 0, nil
	}
	if b[header+length] != '\r' || b[header+length+1] != '\n' {
		return Value{}, 0, errs.New(errs.Parse, "bulk string missing trailing CRLF")
	}
	data := make([]byte, length)
	copy(data, b[header:header+length])
	return Bulk(data), total, nil
}

func decodeArray(b []byte) (Value, int, error) {
	end, ok, err := scanCRLF(b, 1)
	if err != nil {
		return Value{}, 0, err
	}
	if !ok {
		return Value{}, 0, nil
	}
	length, perr := strconv.Atoi(string(b[1:end]))
	if perr != nil {
		return Value{}, 0, errs.Wrap(errs.Parse, perr, "invalid array length")
	}
	header := end + 2
	if length < 0 {
		return Nil(), header, nil
	}
	items := make([]Value, 0, length)
	offset := header
	for i := 0; i < length; i++ {
		item, n, err := Decode(b[offset:])
		if err != nil {
			return Value{}, 0, err
		}
		if n == 0 {
			// A short inner element means the whole array is incomplete;
			// nothing has been consumed from the caller's perspective.
			return Value{}, 0, nil
		}
		items = append(items, item)
		offset += n
	}
	return Value{Kind: KindArray, Array: items}, offset, nil
}
