package resp

import "strconv"

// appendBulk appends the RESP bulk string encoding of data to b.
func appendBulk(b []byte, data []byte) []byte {
	b = append(b, '$')
	b = strconv.AppendInt(b, int64(len(data)), 10)
	b = append(b, '\r', '\n')
	b = append(b, data...)
	return append(b, '\r', '\n')
}

// Encode appends the wire encoding of v to b and returns the grown slice.
// Nil encodes as a null bulk string; nothing in this client ever needs to
// send a null array.
func Encode(b []byte, v Value) []byte {
	switch v.Kind {
	case KindNil:
		return append(b, '$', '-', '1', '\r', '\n')
	case KindStatus:
		b = append(b, '+')
		b = append(b, v.Status...)
		return append(b, '\r', '\n')
	case KindError:
		b = append(b, '-')
		b = append(b, v.ErrText...)
		return append(b, '\r', '\n')
	case KindInteger:
		b = append(b, ':')
		b = strconv.AppendInt(b, v.Integer, 10)
		return append(b, '\r', '\n')
	case KindBulkString:
		return appendBulk(b, v.Bulk)
	case KindArray:
		b = append(b, '*')
		b = strconv.AppendInt(b, int64(len(v.Array)), 10)
		b = append(b, '\r', '\n')
		for _, item := range v.Array {
			b = Encode(b, item)
		}
		return b
	default:
		return b
	}
}

// FromWire promotes a decoded wire Value into the user-facing shape.
// Status("OK") becomes UserOk, and a wire Error becomes a *errs.Error with
// Kind Receive rather than a value at all.
func FromWire(v Value) (UserValue, error) {
	switch v.Kind {
	case KindNil:
		return UserValue{Kind: UserNil}, nil
	case KindError:
		return UserValue{}, wireErr(v.ErrText)
	case KindStatus:
		if v.Status == "OK" {
			return UserValue{Kind: UserOk}, nil
		}
		return UserValue{Kind: UserStatus, Status: v.Status}, nil
	case KindInteger:
		return UserValue{Kind: UserInteger, Integer: v.Integer}, nil
	case KindBulkString:
		return UserValue{Kind: UserBulkString, Bulk: v.Bulk}, nil
	case KindArray:
		items := make([]UserValue, len(v.Array))
		for i, elem := range v.Array {
			uv, err := FromWire(elem)
			if err != nil {
				return UserValue{}, err
			}
			items[i] = uv
		}
		return UserValue{Kind: UserArray, Array: items}, nil
	default:
		return UserValue{}, nil
	}
}
