package redistream_test

import (
	"io"
	"sync"
	"sync/atomic"
)

// fakeTransport is a minimal redistream.Transport used by the connection
// and subscription tests. Writes are recorded verbatim so tests can assert
// on exactly what was sent; reads are served from a queue of byte chunks
// fed by the test, blocking until a chunk is available or the transport is
// closed.
type fakeTransport struct {
	mu         sync.Mutex
	writes     [][]byte
	writeCount int32

	readQueue chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		readQueue: make(chan []byte, 64),
		closed:    make(chan struct{}),
	}
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	f.mu.Lock()
	f.writes = append(f.writes, cp)
	f.mu.Unlock()
	atomic.AddInt32(&f.writeCount, 1)
	return len(p), nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	select {
	case chunk, ok := <-f.readQueue:
		if !ok {
			return 0, io.EOF
		}
		n := copy(p, chunk)
		return n, nil
	case <-f.closed:
		return 0, io.ErrClosedPipe
	}
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// feed makes b available to the next Read call(s). It must fit in one
// read's buffer (4096 bytes, see Conn.fill) for these tests' purposes.
func (f *fakeTransport) feed(b []byte) {
	f.readQueue <- b
}

func (f *fakeTransport) writeCountNow() int {
	return int(atomic.LoadInt32(&f.writeCount))
}

func (f *fakeTransport) writesSoFar() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}
