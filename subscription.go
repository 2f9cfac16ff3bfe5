package redistream

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vorakit/redistream/pkg/errs"
	"github.com/vorakit/redistream/pkg/resp"
)

// Subscription synthesises continuous delivery from repeated blocking
// XREAD(GROUP) calls: the server has no push channel, so one sink task
// keeps exactly one read outstanding on the wire and one source task
// decodes each reply and immediately re-arms the next read before handing
// the batch to the caller. The two tasks are plain goroutines coordinated
// by a capacity-1 channel.
type Subscription struct {
	conn      *Conn
	rearm     chan struct{} // capacity 1: "send the next read request"
	out       chan subResult
	rearmCmd  []byte
	cancel    context.CancelFunc
	closeOnce sync.Once
}

type subResult struct {
	entries []StreamEntry
	err     error
}

// newSubscription takes exclusive ownership of conn, writes the primer
// read command, and starts the sink/source goroutines. It returns before
// any reply has arrived; Next blocks for the first batch.
func newSubscription(ctx context.Context, conn *Conn, cmd *resp.Command) (*Subscription, error) {
	if err := conn.takeForSubscription(); err != nil {
		return nil, err
	}
	cctx, cancel := context.WithCancel(ctx)
	encoded := cmd.Encode(nil)

	sub := &Subscription{
		conn:     conn,
		rearm:    make(chan struct{}, 1),
		out:      make(chan subResult),
		rearmCmd: encoded,
		cancel:   cancel,
	}

	if err := conn.writeRaw(cctx, encoded); err != nil {
		cancel()
		conn.fatal(err)
		return nil, err
	}

	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error { return sub.sinkLoop(gctx) })
	g.Go(func() error { return sub.sourceLoop(gctx) })
	go func() {
		// out is closed only after both loops have exited, so neither can
		// race a send against the close.
		_ = g.Wait()
		close(sub.out)
		conn.logger.Debug("subscription tasks finished")
	}()

	return sub, nil
}

// sinkLoop folds re-arm signals into a single outstanding write. It never
// issues a second read without first being told to by the source task.
func (s *Subscription) sinkLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.rearm:
			if err := s.conn.writeRaw(ctx, s.rearmCmd); err != nil {
				s.conn.fatal(err)
				s.deliver(ctx, subResult{err: err})
				s.cancel()
				return err
			}
		}
	}
}

// sourceLoop reads each reply frame, re-arms the next read before
// converting the frame, then yields the decoded batch. Re-arming before
// the consumer has observed the batch is intentional: BLOCK 0 is cheap to
// keep outstanding and this avoids an extra round trip of latency between
// batches, at the cost of the server queueing at most one extra batch for
// a slow consumer. See DESIGN.md for the alternative (re-arm after yield).
func (s *Subscription) sourceLoop(ctx context.Context) error {
	for {
		v, err := s.conn.readFrame(ctx)
		if err != nil {
			s.conn.fatal(err)
			s.deliver(ctx, subResult{err: err})
			return err
		}

		select {
		case s.rearm <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		uv, err := resp.FromWire(v)
		if err != nil {
			s.conn.fatal(err)
			s.deliver(ctx, subResult{err: err})
			return err
		}
		entries, err := parseXReadReply(uv)
		if err != nil {
			s.conn.fatal(err)
			s.deliver(ctx, subResult{err: err})
			return err
		}
		if !s.deliver(ctx, subResult{entries: entries}) {
			return ctx.Err()
		}
	}
}

func (s *Subscription) deliver(ctx context.Context, r subResult) bool {
	select {
	case s.out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// Next blocks for the next batch of stream entries in server-reply order.
// It returns an error once the transport closes, the server returns a
// RESP Error, or the subscription is closed. The terminal error is
// returned once; after that, calls return a Connection error reporting
// that the subscription is closed.
func (s *Subscription) Next(ctx context.Context) ([]StreamEntry, error) {
	select {
	case r, ok := <-s.out:
		if !ok {
			return nil, errSubscriptionClosed
		}
		return r.entries, r.err
	case <-ctx.Done():
		return nil, errs.Wrap(errs.Connection, ctx.Err(), "wait for subscription batch")
	}
}

// Close ends the subscription and closes its dedicated connection. Safe to
// call more than once; idempotent with the subscription ending on its own
// due to a transport error or a server error.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.conn.logger.Info("subscription closed by caller", zap.Bool("explicit", true))
		_ = s.conn.Close()
	})
	return nil
}

var errSubscriptionClosed = errs.New(errs.Connection, "subscription closed")
