package terminal

import (
	"errors"
	"log/slog"

	"golang.org/x/sys/unix"
)

// rawWriter is the descriptor-level sink; implementations return the raw
// errno so interruption can be told apart from failure
type rawWriter interface {
	Write(p []byte) (int, error)
}

// fdWriter writes straight to a descriptor, bypassing os.File
type fdWriter int

func (fd fdWriter) Write(p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// outputBuffer accumulates escape sequences and content between flushes.
// Unwritten bytes survive a short or failed write and go out on the next flush.
type outputBuffer struct {
	buf []byte
	w   rawWriter
	log *slog.Logger
}

// newOutputBuffer creates a buffer draining into w
func newOutputBuffer(w rawWriter, log *slog.Logger) *outputBuffer {
	return &outputBuffer{
		buf: make([]byte, 0, 32768),
		w:   w,
		log: log,
	}
}

func (o *outputBuffer) write(p []byte) {
	o.buf = append(o.buf, p...)
}

// flush performs one write, retrying once on interruption or failure
func (o *outputBuffer) flush() {
	if len(o.buf) == 0 || o.w == nil {
		return
	}

	n, err := o.w.Write(o.buf)
	if err != nil {
		if !errors.Is(err, unix.EINTR) {
			o.log.Debug("terminal write failed, retrying", "err", err)
		}
		o.consume(n)
		if len(o.buf) == 0 {
			return
		}
		n, err = o.w.Write(o.buf)
	}
	o.consume(n)

	if err != nil {
		o.log.Warn("terminal write failed, output retained", "err", err, "pending", len(o.buf))
		return
	}
	if len(o.buf) > 0 {
		o.log.Debug("short terminal write, tail retained", "pending", len(o.buf))
	}
}

// consume drops the first n written bytes
func (o *outputBuffer) consume(n int) {
	if n <= 0 {
		return
	}
	if n >= len(o.buf) {
		o.buf = o.buf[:0]
		return
	}
	o.buf = o.buf[:copy(o.buf, o.buf[n:])]
}
