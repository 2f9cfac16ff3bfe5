package redistream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redistream "github.com/vorakit/redistream"
	"github.com/vorakit/redistream/pkg/resp"
)

func TestSendRoundTrip(t *testing.T) {
	ft := newFakeTransport()
	conn := redistream.NewConn(ft)
	ft.feed([]byte("+OK\r\n"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	uv, err := conn.Send(ctx, resp.NewCommand("SET").AppendText("k").AppendText("v"))
	require.NoError(t, err)
	assert.Equal(t, resp.UserOk, uv.Kind)

	ft.feed([]byte("$3\r\n123\r\n"))
	uv, err = conn.Send(ctx, resp.NewCommand("GET").AppendText("k"))
	require.NoError(t, err)
	assert.Equal(t, resp.UserBulkString, uv.Kind)
	assert.Equal(t, "123", string(uv.Bulk))
}

func TestSendServerErrorLeavesConnectionUsable(t *testing.T) {
	ft := newFakeTransport()
	conn := redistream.NewConn(ft)
	ft.feed([]byte("-ERR no such key\r\n"))

	ctx := context.Background()
	_, err := conn.Send(ctx, resp.NewCommand("GET").AppendText("missing"))
	require.Error(t, err)
	assert.True(t, redistream.IsKind(err, redistream.Receive))

	ft.feed([]byte("+PONG\r\n"))
	uv, err := conn.Send(ctx, resp.NewCommand("PING"))
	require.NoError(t, err)
	assert.Equal(t, resp.UserStatus, uv.Kind)
	assert.Equal(t, "PONG", uv.Status)
}

func TestSendMalformedFrameClosesConnection(t *testing.T) {
	ft := newFakeTransport()
	conn := redistream.NewConn(ft)
	ft.feed([]byte("+OK\r$"))

	ctx := context.Background()
	_, err := conn.Send(ctx, resp.NewCommand("PING"))
	require.Error(t, err)
	assert.True(t, redistream.IsKind(err, redistream.Parse))

	_, err = conn.Send(ctx, resp.NewCommand("PING"))
	require.Error(t, err)
	assert.True(t, redistream.IsKind(err, redistream.Connection))
}

func TestSendRejectsConcurrentMisuse(t *testing.T) {
	ft := newFakeTransport()
	conn := redistream.NewConn(ft)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := conn.Send(context.Background(), resp.NewCommand("BLPOP").AppendText("k").AppendInt64(0))
		done <- err
	}()
	<-started
	time.Sleep(20 * time.Millisecond) // let the goroutine reach connBusy

	_, err := conn.Send(context.Background(), resp.NewCommand("PING"))
	require.Error(t, err)
	assert.True(t, redistream.IsKind(err, redistream.Internal))

	ft.feed([]byte("*-1\r\n"))
	require.NoError(t, <-done)
}
