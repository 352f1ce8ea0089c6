//go:build unix

package terminal

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// resizeTarget receives resize notifications. notifyResize runs on the
// signal delivery goroutine and must only set a flag and wake the poller.
type resizeTarget interface {
	notifyResize()
}

// resizeSlot is the single process-wide owner of SIGWINCH. Signal
// disposition is per process, so ownership cannot be per session.
var resizeSlot struct {
	mu     sync.Mutex
	owner  resizeTarget
	sigCh  chan os.Signal
	stopCh chan struct{}
	doneCh chan struct{}
}

// acquireResizeSignal makes t the owner of SIGWINCH
func acquireResizeSignal(t resizeTarget) error {
	resizeSlot.mu.Lock()
	defer resizeSlot.mu.Unlock()

	if resizeSlot.owner != nil {
		if resizeSlot.owner == t {
			return nil
		}
		return newError(SigwinchAlreadyActive, "another session owns SIGWINCH", nil, "")
	}

	sigCh := make(chan os.Signal, 1)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGWINCH)

	go watchResize(t, sigCh, stopCh, doneCh)

	resizeSlot.owner = t
	resizeSlot.sigCh = sigCh
	resizeSlot.stopCh = stopCh
	resizeSlot.doneCh = doneCh
	return nil
}

// watchResize forwards each SIGWINCH to the owner
func watchResize(t resizeTarget, sigCh <-chan os.Signal, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-stopCh:
			return
		case <-sigCh:
			t.notifyResize()
		}
	}
}

// releaseResizeSignal gives up ownership if t holds it. When a third party
// has since set SIGWINCH to ignored, the disposition is left as they set it.
func releaseResizeSignal(t resizeTarget, log *slog.Logger) {
	resizeSlot.mu.Lock()
	defer resizeSlot.mu.Unlock()

	if resizeSlot.owner == nil || resizeSlot.owner != t {
		return
	}

	if signal.Ignored(syscall.SIGWINCH) {
		log.Warn("SIGWINCH disposition changed by another component, abandoning ownership")
	}
	signal.Stop(resizeSlot.sigCh)
	close(resizeSlot.stopCh)
	<-resizeSlot.doneCh

	resizeSlot.owner = nil
	resizeSlot.sigCh = nil
	resizeSlot.stopCh = nil
	resizeSlot.doneCh = nil
}

// resizeSignalOwner reports the current owner, nil when free
func resizeSignalOwner() resizeTarget {
	resizeSlot.mu.Lock()
	defer resizeSlot.mu.Unlock()
	return resizeSlot.owner
}
