package redistream

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"

	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

// Transport is the abstract byte-oriented, asynchronous, half-duplex-safe
// reader/writer the connection speaks RESP over. Any reliable, ordered,
// bidirectional byte stream satisfies it; net.Conn is the production
// implementation; tests use net.Pipe or a hand-written fake.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

const (
	connIdle int32 = iota
	connBusy
)

// Conn is a single-flight, frame-level request/response connection. At most
// one request is in flight at any moment; Send consumes the connection's
// "idle" state for the duration of the call and reports concurrent misuse
// as an Internal error instead of interleaving frames.
type Conn struct {
	transport Transport
	rbuf      []byte
	state     atomic.Int32
	closed    atomic.Bool
	logger    *zap.Logger
}

// Option configures a Conn constructed by Dial or NewConn.
type Option func(*Conn)

// WithLogger attaches a zap.Logger for connection and subscription
// lifecycle events. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Conn) { c.logger = l }
}

// NewConn wraps an already-established Transport. Dial is the usual way to
// obtain one over TCP; NewConn exists for tests and for transports other
// than net.Conn.
func NewConn(transport Transport, opts ...Option) *Conn {
	c := &Conn{transport: transport, rbuf: make([]byte, 0, 4096), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial opens a TCP connection to address and wraps it as a Conn.
func Dial(ctx context.Context, address string, opts ...Option) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errs.Wrap(errs.Connection, err, "dial "+address)
	}
	return NewConn(nc, opts...), nil
}

// Send writes cmd to the transport and awaits exactly one response frame.
// A transport error or a malformed frame closes the connection permanently;
// a server-returned RESP Error is surfaced to the caller but the connection
// remains usable for further Send calls.
func (c *Conn) Send(ctx context.Context, cmd *resp.Command) (resp.UserValue, error) {
	if c.closed.Load() {
		return resp.UserValue{}, errs.New(errs.Connection, "connection is closed")
	}
	if !c.state.CompareAndSwap(connIdle, connBusy) {
		return resp.UserValue{}, errs.New(errs.Internal, "send called while another request is in flight")
	}
	defer c.state.Store(connIdle)

	wbuf := bufferPool.Get()
	defer bufferPool.Put(wbuf)
	wbuf.B = cmd.Encode(wbuf.B[:0])

	// Initial -> Offering: hand the request to the transport.
	if err := c.writeRaw(ctx, wbuf.B); err != nil {
		c.fatal(err)
		return resp.UserValue{}, err
	}

	// Offering -> Awaiting -> Terminal: block on exactly one reply frame.
	v, err := c.readFrame(ctx)
	if err != nil {
		c.fatal(err)
		return resp.UserValue{}, err
	}

	uv, err := resp.FromWire(v)
	if err != nil {
		c.logger.Debug("server returned RESP error", zap.Error(err))
		return resp.UserValue{}, err
	}
	return uv, nil
}

// fatal closes the transport and marks the connection unusable. Transport
// errors and parse errors are both fatal: resynchronising a RESP stream
// after a framing error is not safe.
func (c *Conn) fatal(cause error) {
	c.logger.Warn("closing connection after fatal error", zap.Error(cause))
	c.closed.Store(true)
	_ = c.transport.Close()
}

// Close releases the connection's transport. Safe to call more than once.
func (c *Conn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		return c.transport.Close()
	}
	return nil
}

var bufferPool bytebufferpool.Pool

// runCancelable runs op in its own goroutine and returns its result, or
// ctx.Err() if ctx is done first. op may still be running against the
// transport when this returns early; the caller is expected to close the
// transport in that case, which unblocks op.
func runCancelable(ctx context.Context, op func() (int, error)) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := op()
		ch <- result{n, err}
	}()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case r := <-ch:
		return r.n, r.err
	}
}

func (c *Conn) writeRaw(ctx context.Context, b []byte) error {
	if c.closed.Load() {
		return errs.New(errs.Connection, "connection is closed")
	}
	_, err := runCancelable(ctx, func() (int, error) { return c.transport.Write(b) })
	if err != nil {
		return errs.Wrap(errs.Connection, err, "write to transport")
	}
	return nil
}

// fill reads the next available chunk from the transport into rbuf.
func (c *Conn) fill(ctx context.Context) error {
	if c.closed.Load() {
		return errs.New(errs.Connection, "connection is closed")
	}
	tmp := make([]byte, 4096)
	n, err := runCancelable(ctx, func() (int, error) { return c.transport.Read(tmp) })
	if err != nil {
		return errs.Wrap(errs.Connection, err, "read from transport")
	}
	c.rbuf = append(c.rbuf, tmp[:n]...)
	return nil
}

// readFrame decodes the next complete RESP frame from rbuf, reading more
// bytes from the transport as needed.
func (c *Conn) readFrame(ctx context.Context) (resp.Value, error) {
	for {
		v, n, err := resp.Decode(c.rbuf)
		if err != nil {
			return resp.Value{}, err
		}
		if n > 0 {
			c.rbuf = c.rbuf[n:]
			return v, nil
		}
		if err := c.fill(ctx); err != nil {
			return resp.Value{}, err
		}
	}
}

// takeForSubscription transfers the connection's exclusive ownership to a
// Subscription for the remainder of its lifetime. The connection never
// returns to idle after this; it closes when the subscription ends.
func (c *Conn) takeForSubscription() error {
	if c.closed.Load() {
		return errs.New(errs.Connection, "connection is closed")
	}
	if !c.state.CompareAndSwap(connIdle, connBusy) {
		return errs.New(errs.Internal, "cannot subscribe while a request is in flight")
	}
	return nil
}
