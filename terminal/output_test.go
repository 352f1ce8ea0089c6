package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

// TestFlush_ShortWriteRetainsTail verifies unwritten bytes go out next time
func TestFlush_ShortWriteRetainsTail(t *testing.T) {
	w := &scriptedWriter{steps: []writeStep{{max: 3}}}
	out := newOutputBuffer(w, discardLogger())

	out.write([]byte("abcdef"))
	out.flush()
	assert.Equal(t, 1, w.calls, "a short write without error is not retried")
	assert.Equal(t, "abc", w.takeOutput())
	assert.Len(t, out.buf, 3)

	out.write([]byte("gh"))
	out.flush()
	assert.Equal(t, "defgh", w.takeOutput())
	assert.Empty(t, out.buf)
}

// TestFlush_InterruptedRetriesOnce verifies EINTR is retried and not surfaced
func TestFlush_InterruptedRetriesOnce(t *testing.T) {
	w := &scriptedWriter{steps: []writeStep{{max: 2, err: unix.EINTR}}}
	out := newOutputBuffer(w, discardLogger())

	out.write([]byte("hello"))
	out.flush()
	assert.Equal(t, 2, w.calls)
	assert.Equal(t, "hello", w.takeOutput())
	assert.Empty(t, out.buf)
}

// TestFlush_FailureRetainsOutput verifies exhausted retries keep the data
func TestFlush_FailureRetainsOutput(t *testing.T) {
	w := &scriptedWriter{steps: []writeStep{
		{max: 0, err: unix.EIO},
		{max: 1, err: unix.EIO},
	}}
	out := newOutputBuffer(w, discardLogger())

	out.write([]byte("frame"))
	out.flush()
	assert.Equal(t, 2, w.calls, "failed write is retried exactly once")
	assert.Equal(t, "f", w.takeOutput())
	assert.Len(t, out.buf, 4)

	out.flush()
	assert.Equal(t, "rame", w.takeOutput())
	assert.Empty(t, out.buf)
}

// TestFlush_Empty verifies nothing is written without pending output
func TestFlush_Empty(t *testing.T) {
	w := &scriptedWriter{}
	out := newOutputBuffer(w, discardLogger())
	out.flush()
	assert.Zero(t, w.calls)

	out.write([]byte("x"))
	out.buf = out.buf[:0]
	out.flush()
	assert.Zero(t, w.calls)
}
