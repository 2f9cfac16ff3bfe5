package redistream

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vorakit/redistream/pkg/convert"
	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

// EntryID is the (milliseconds, sequence) pair that addresses one stream
// entry. Ordering is lexicographic on the pair.
type EntryID struct {
	MS  uint64
	Seq uint64
}

// String renders the id in its wire form, "<ms>-<seq>".
func (id EntryID) String() string {
	return strconv.FormatUint(id.MS, 10) + "-" + strconv.FormatUint(id.Seq, 10)
}

// Less reports whether id sorts before other.
func (id EntryID) Less(other EntryID) bool {
	if id.MS != other.MS {
		return id.MS < other.MS
	}
	return id.Seq < other.Seq
}

// ParseEntryID parses the wire form "<ms>-<seq>" produced by the server.
func ParseEntryID(s string) (EntryID, error) {
	dash := strings.IndexByte(s, '-')
	if dash < 0 || strings.IndexByte(s[dash+1:], '-') >= 0 {
		return EntryID{}, errs.WithValue(errs.Parse, "entry id must have exactly one '-'", s)
	}
	msPart, seqPart := s[:dash], s[dash+1:]
	if msPart == "" || seqPart == "" {
		return EntryID{}, errs.WithValue(errs.Parse, "entry id has an empty component", s)
	}
	ms, err := strconv.ParseUint(msPart, 10, 64)
	if err != nil {
		return EntryID{}, errs.WithValue(errs.Parse, "entry id milliseconds is not decimal", s)
	}
	seq, err := strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return EntryID{}, errs.WithValue(errs.Parse, "entry id sequence is not decimal", s)
	}
	return EntryID{MS: ms, Seq: seq}, nil
}

// FieldMap is a stream entry's field-name-to-value mapping, decoded from an
// XRANGE/XREAD(GROUP) reply. Field names are unique; a duplicate in a
// server reply is a parse error.
type FieldMap map[string]resp.UserValue

// StreamEntry is one record in a stream: its id and fields, together with
// the name of the stream it came from (XREAD reports entries across
// multiple streams at once).
type StreamEntry struct {
	Stream string
	ID     EntryID
	Fields FieldMap
}

// RangeEntry is one record returned by XRANGE: same as StreamEntry but
// without the stream name, since a range is always scoped to one stream.
type RangeEntry struct {
	ID     EntryID
	Fields FieldMap
}

// AckResult is the outcome of XACK.
type AckResult int

const (
	// AckOK means the server reported a positive acknowledgement count.
	AckOK AckResult = iota
	// AckNotExists means the server reported zero: the entry was already
	// acknowledged or never delivered to this group.
	AckNotExists
)

// GroupDescriptor names a consumer group and the consumer acting within it.
type GroupDescriptor struct {
	Group    string
	Consumer string
}

// parseFieldMap decodes an alternating key/value array into a FieldMap.
// Keys must be valid UTF-8 text (bulk or status) and unique; values are kept as
// UserValue without further conversion.
func parseFieldMap(arr []resp.UserValue) (FieldMap, error) {
	if len(arr)%2 != 0 {
		return nil, errs.WithValue(errs.Parse, "field array has odd length", arr)
	}
	fields := make(FieldMap, len(arr)/2)
	for i := 0; i < len(arr); i += 2 {
		key, err := convert.Text(arr[i])
		if err != nil {
			return nil, errs.Wrap(errs.Parse, err, "field name")
		}
		if !utf8.ValidString(key) {
			return nil, errs.WithValue(errs.Parse, "field name is not valid UTF-8", key)
		}
		if _, dup := fields[key]; dup {
			return nil, errs.WithValue(errs.Parse, "duplicate field name", key)
		}
		fields[key] = arr[i+1]
	}
	return fields, nil
}

// parseIDAndFields decodes a two-element [idString, fieldArray] entry, the
// shape shared by XRANGE entries and the inner entries of an XREAD(GROUP)
// reply.
func parseIDAndFields(v resp.UserValue) (EntryID, FieldMap, error) {
	if v.Kind != resp.UserArray || len(v.Array) != 2 {
		return EntryID{}, nil, errs.WithValue(errs.Parse, "expected [id, fields] pair", v)
	}
	idStr, err := convert.Text(v.Array[0])
	if err != nil {
		return EntryID{}, nil, errs.Wrap(errs.Parse, err, "entry id")
	}
	id, err := ParseEntryID(idStr)
	if err != nil {
		return EntryID{}, nil, err
	}
	fieldArr, err := convert.Slice(v.Array[1], convert.Identity)
	if err != nil {
		return EntryID{}, nil, errs.Wrap(errs.Parse, err, "entry fields")
	}
	fields, err := parseFieldMap(fieldArr)
	if err != nil {
		return EntryID{}, nil, err
	}
	return id, fields, nil
}

// parseXRangeReply decodes an XRANGE reply: an array of [id, fields] pairs.
func parseXRangeReply(v resp.UserValue) ([]RangeEntry, error) {
	if v.Kind == resp.UserNil {
		return nil, nil
	}
	items, err := convert.Slice(v, convert.Identity)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, err, "XRANGE reply")
	}
	out := make([]RangeEntry, 0, len(items))
	for _, item := range items {
		id, fields, err := parseIDAndFields(item)
		if err != nil {
			return nil, err
		}
		out = append(out, RangeEntry{ID: id, Fields: fields})
	}
	return out, nil
}

// parseXReadReply decodes an XREAD/XREADGROUP reply: an array of
// [streamName, entries] pairs, where entries is itself an array of
// [id, fields] pairs. An empty outer array means no entries this round and
// is propagated as an empty, non-nil batch; a Nil reply (a BLOCK timeout)
// is reported as nil.
func parseXReadReply(v resp.UserValue) ([]StreamEntry, error) {
	if v.Kind == resp.UserNil {
		return nil, nil
	}
	streams, err := convert.Slice(v, convert.Identity)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, err, "XREAD reply")
	}
	out := make([]StreamEntry, 0)
	for _, stream := range streams {
		name, entries, err := convert.Pair(stream, convert.Text, convert.Identity)
		if err != nil {
			return nil, errs.Wrap(errs.Parse, err, "XREAD stream entry")
		}
		rawEntries, err := convert.Slice(entries, convert.Identity)
		if err != nil {
			return nil, errs.Wrap(errs.Parse, err, "XREAD entries")
		}
		for _, raw := range rawEntries {
			id, fields, err := parseIDAndFields(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, StreamEntry{Stream: name, ID: id, Fields: fields})
		}
	}
	return out, nil
}
