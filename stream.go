package redistream

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/vorakit/redistream/pkg/convert"
	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

// Stream is the high-level, stream-oriented facade over a Conn. Conn
// enforces the single-flight invariant internally (see Conn.Send), so a
// Stream is simply held and reused across calls like any other client
// value.
type Stream struct {
	conn *Conn
}

// NewStream builds a Stream facade over an already-connected Conn.
func NewStream(conn *Conn) *Stream { return &Stream{conn: conn} }

// Cursor names one stream and the entry id XREAD should start after.
type Cursor struct {
	Stream string
	Start  EntryID
}

// SendEntry issues XADD. A nil id requests a server-assigned id ("*");
// otherwise the caller's id is sent verbatim. The assigned id is parsed
// from the server's bulk-string reply.
func (s *Stream) SendEntry(ctx context.Context, stream string, id *EntryID, fields map[string]string) (EntryID, error) {
	cmd := resp.NewCommand("XADD").AppendText(stream)
	if id != nil {
		cmd.AppendText(id.String())
	} else {
		cmd.AppendText("*")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic argv regardless of map iteration order
	for _, k := range keys {
		cmd.AppendText(k).AppendText(fields[k])
	}

	uv, err := s.conn.Send(ctx, cmd)
	if err != nil {
		return EntryID{}, err
	}
	idStr, err := convert.Text(uv)
	if err != nil {
		return EntryID{}, errs.Wrap(errs.Parse, err, "XADD reply")
	}
	return ParseEntryID(idStr)
}

// ReadExplicit issues XREAD COUNT n STREAMS s1...sN id1...idN. Stream names
// and their cursors are emitted as two parallel contiguous runs after
// STREAMS, per the wire protocol.
func (s *Stream) ReadExplicit(ctx context.Context, cursors []Cursor, count int) ([]StreamEntry, error) {
	cmd := resp.NewCommand("XREAD")
	if count > 0 {
		cmd.AppendText("COUNT").AppendInt64(int64(count))
	}
	cmd.AppendText("STREAMS")
	for _, c := range cursors {
		cmd.AppendText(c.Stream)
	}
	for _, c := range cursors {
		cmd.AppendText(c.Start.String())
	}
	uv, err := s.conn.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return parseXReadReply(uv)
}

// Range issues XRANGE stream lo hi COUNT n.
func (s *Stream) Range(ctx context.Context, stream string, count int, sel RangeSelector) ([]RangeEntry, error) {
	cmd := resp.NewCommand("XRANGE").
		AppendText(stream).
		AppendText(sel.lowerArg()).
		AppendText(sel.upperArg()).
		AppendText("COUNT").AppendInt64(int64(count))
	uv, err := s.conn.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return parseXRangeReply(uv)
}

// AckEntry issues XACK stream group id. A positive integer reply means the
// entry was pending and is now acknowledged (AckOK); zero means it was not
// pending (AckNotExists). Any other reply shape is a Parse error.
func (s *Stream) AckEntry(ctx context.Context, stream, group string, id EntryID) (AckResult, error) {
	cmd := resp.NewCommand("XACK").AppendText(stream).AppendText(group).AppendText(id.String())
	uv, err := s.conn.Send(ctx, cmd)
	if err != nil {
		return 0, err
	}
	if uv.Kind != resp.UserInteger {
		return 0, errs.WithValue(errs.Parse, "XACK reply was not an integer", uv)
	}
	if uv.Integer == 0 {
		return AckNotExists, nil
	}
	return AckOK, nil
}

// PendingEntries returns entries the consumer has received but not yet
// acknowledged. It sends a consumer-scoped XREADGROUP with an explicit
// start id rather than the ">" sentinel, so the server replays entries
// already delivered to this consumer instead of only new ones. This returns
// the full entries; it is not an XPENDING summary.
func (s *Stream) PendingEntries(ctx context.Context, stream, group, consumer string, start EntryID, count int) ([]StreamEntry, error) {
	cmd := resp.NewCommand("XREADGROUP").AppendText("GROUP").AppendText(group).AppendText(consumer)
	if count > 0 {
		cmd.AppendText("COUNT").AppendInt64(int64(count))
	}
	cmd.AppendText("STREAMS").AppendText(stream).AppendText(start.String())
	uv, err := s.conn.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return parseXReadReply(uv)
}

// TouchGroup issues XGROUP CREATE stream group $ MKSTREAM. A BUSYGROUP
// error, meaning the group already exists, is downgraded to success so
// callers can call this idempotently on every startup.
func (s *Stream) TouchGroup(ctx context.Context, stream, group string) error {
	cmd := resp.NewCommand("XGROUP").AppendText("CREATE").AppendText(stream).AppendText(group).AppendText("$").AppendText("MKSTREAM")
	_, err := s.conn.Send(ctx, cmd)
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) && e.Kind == errs.Receive && strings.HasPrefix(e.Msg, "BUSYGROUP") {
		return nil
	}
	return err
}

// Subscribe transfers the connection's ownership into a Subscription that
// synthesises continuous delivery from repeated blocking reads. The cursor
// is ">" (new, undelivered entries for this consumer) when group is given,
// "$" (only new entries from subscription time) otherwise.
func (s *Stream) Subscribe(ctx context.Context, streams []string, group *GroupDescriptor) (*Subscription, error) {
	cursor := "$"
	var cmd *resp.Command
	if group != nil {
		cursor = ">"
		cmd = resp.NewCommand("XREADGROUP").
			AppendText("GROUP").AppendText(group.Group).AppendText(group.Consumer).
			AppendText("BLOCK").AppendInt64(0).
			AppendText("STREAMS")
	} else {
		cmd = resp.NewCommand("XREAD").AppendText("BLOCK").AppendInt64(0).AppendText("STREAMS")
	}
	for _, st := range streams {
		cmd.AppendText(st)
	}
	for range streams {
		cmd.AppendText(cursor)
	}
	return newSubscription(ctx, s.conn, cmd)
}
