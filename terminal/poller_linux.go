//go:build linux

package terminal

import (
	"errors"
	"log/slog"

	"golang.org/x/sys/unix"
)

// inputPoller waits on the terminal and wake descriptors and reads
// available input into the stream buffer
type inputPoller struct {
	fd     int
	epfd   int
	wakefd int
	stream streamBuffer
	log    *slog.Logger

	// resizePending reports a resize notification not yet handled
	resizePending func() bool

	events [4]unix.EpollEvent
}

// newInputPoller creates the epoll instance and wake eventfd and registers
// both with fd. On error nothing is left open.
func newInputPoller(fd int, log *slog.Logger, resizePending func() bool) (*inputPoller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, newError(InitFailed, "creating epoll instance", err, "epoll_create1")
	}

	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, newError(InitFailed, "creating wake descriptor", err, "eventfd")
	}

	p := &inputPoller{
		fd:            fd,
		epfd:          epfd,
		wakefd:        wakefd,
		log:           log,
		resizePending: resizePending,
	}

	for _, reg := range []struct {
		fd     int
		events uint32
	}{
		{fd, unix.EPOLLIN | unix.EPOLLPRI},
		{wakefd, unix.EPOLLIN},
	} {
		ev := unix.EpollEvent{Events: reg.events, Fd: int32(reg.fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, reg.fd, &ev); err != nil {
			p.close()
			return nil, newError(InitFailed, "registering descriptor with epoll", err, "epoll_ctl")
		}
	}
	return p, nil
}

// close releases the epoll and wake descriptors; safe to repeat
func (p *inputPoller) close() {
	if p.epfd >= 0 {
		unix.Close(p.epfd)
		p.epfd = -1
	}
	if p.wakefd >= 0 {
		unix.Close(p.wakefd)
		p.wakefd = -1
	}
	p.stream.reset()
}

// eventfdOne increments an eventfd counter by one
var eventfdOne = [8]byte{1}

// wakeFd makes a wait blocked on the poller return. It only issues a
// write(2) so it is safe from the signal delivery goroutine.
func wakeFd(fd int) {
	unix.Write(fd, eventfdOne[:])
}

// poll waits up to timeoutMs (negative blocks) and reads once if the
// terminal is readable. Errors are logged, never returned.
func (p *inputPoller) poll(timeoutMs int) {
	n, err := unix.EpollWait(p.epfd, p.events[:], timeoutMs)
	if errors.Is(err, unix.EINTR) {
		if timeoutMs >= 0 && p.resizePending() {
			return
		}
		n, err = unix.EpollWait(p.epfd, p.events[:], timeoutMs)
	}
	if err != nil {
		if !errors.Is(err, unix.EINTR) {
			p.log.Warn("epoll wait failed", "err", err)
		}
		return
	}

	for i := 0; i < n; i++ {
		ev := p.events[i]
		switch int(ev.Fd) {
		case p.wakefd:
			var buf [8]byte
			unix.Read(p.wakefd, buf[:])
		case p.fd:
			if ev.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
				p.read()
			}
		}
	}
}

// read performs one non-blocking read into the free tail of the stream
func (p *inputPoller) read() {
	p.stream.compact()
	buf := p.stream.free()
	if len(buf) == 0 {
		return
	}

	n, err := unix.Read(p.fd, buf)
	if errors.Is(err, unix.EINTR) {
		n, err = unix.Read(p.fd, buf)
	}
	if err != nil {
		if !errors.Is(err, unix.EAGAIN) {
			p.log.Debug("terminal read failed", "err", err)
		}
		return
	}
	if n > 0 {
		p.stream.commit(n)
	}
}
