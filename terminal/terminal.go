//go:build linux

package terminal

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/cellterm/terminfo"
)

// Session owns one terminal device: raw mode, input decoding and the
// double-buffered cell grid. A Session is not safe for concurrent use.
type Session struct {
	db   *terminfo.Database
	opts Options
	log  *slog.Logger

	caps       capCache
	decoder    keyDecoder
	cacheValid bool

	fd           int
	ownsFd       bool
	isOpen       bool
	orig         *unix.Termios
	poller       *inputPoller
	ownsSigwinch bool

	grid   cellGrid
	out    *outputBuffer
	render renderer

	caretX       int
	caretY       int
	caretVisible bool
	caretMoved   bool

	// Written by the signal delivery goroutine
	resizePending atomic.Bool
	wakeFd        atomic.Int32
}

// NewSession creates a closed session reading capabilities from db.
// A nil db is replaced by an empty one that must be loaded before Open.
func NewSession(db *terminfo.Database, opts Options) *Session {
	if db == nil {
		db = terminfo.New()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		db:   db,
		opts: opts,
		log:  log,
		fd:   -1,
	}
	s.render.caps = &s.caps
	s.wakeFd.Store(-1)

	if db.Initialized() {
		s.UpdateCache()
	}
	return s
}

// Database returns the capability source; reload it then call UpdateCache
func (s *Session) Database() *terminfo.Database {
	return s.db
}

// UpdateCache rebuilds the control sequences and key decoder from the database
func (s *Session) UpdateCache() {
	s.caps = buildCapCache(s.db, s.log)
	s.decoder = keyDecoder{trie: buildKeyTrie(s.db, s.log)}
	s.render.invalidate()
	s.cacheValid = true
}

// IsOpen reports whether a terminal is attached
func (s *Session) IsOpen() bool {
	return s.isOpen
}

// Width returns the grid width in cells
func (s *Session) Width() int {
	return s.grid.width
}

// Height returns the grid height in cells
func (s *Session) Height() int {
	return s.grid.height
}

// Open opens the terminal device at path and attaches to it.
// The descriptor is closed again by Close or by a failed Open.
func (s *Session) Open(path string, useResizeSignal bool) error {
	if err := s.checkOpenable(); err != nil {
		return err
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return newError(DeviceOpenFailed, path, err, "open")
	}
	return s.attach(fd, true, useResizeSignal)
}

// OpenFd attaches to an already open terminal descriptor, which stays
// owned by the caller
func (s *Session) OpenFd(fd int, useResizeSignal bool) error {
	if err := s.checkOpenable(); err != nil {
		return err
	}
	return s.attach(fd, false, useResizeSignal)
}

func (s *Session) checkOpenable() error {
	if s.isOpen {
		return newError(AlreadyOpen, "", nil, "")
	}
	if !s.db.Initialized() {
		return newError(InfoUninitialized, "load a terminfo description before opening", nil, "")
	}
	return nil
}

// attach performs the open sequence. Every completed step registers its
// inverse; on failure they run in reverse and the session stays closed.
func (s *Session) attach(fd int, ownsFd, useResizeSignal bool) (err error) {
	var undo []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		}
	}()

	if ownsFd {
		undo = append(undo, func() { unix.Close(fd) })
	}

	if !term.IsTerminal(fd) {
		return newError(InvalidFd, fmt.Sprintf("fd %d", fd), nil, "")
	}

	orig, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return newError(InitFailed, "reading terminal attributes", err, "tcgetattr")
	}
	raw := makeRaw(*orig)
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return newError(InitFailed, "entering raw mode", err, "tcsetattr")
	}
	undo = append(undo, func() { unix.IoctlSetTermios(fd, unix.TCSETS, orig) })

	if !s.cacheValid {
		s.UpdateCache()
	}

	poller, err := newInputPoller(fd, s.log, s.resizePending.Load)
	if err != nil {
		return err
	}
	s.wakeFd.Store(int32(poller.wakefd))
	undo = append(undo, func() {
		s.wakeFd.Store(-1)
		poller.close()
	})

	out := newOutputBuffer(fdWriter(fd), s.log)
	out.write(s.caps.get(capEnterAltScreen))
	out.write(s.caps.get(capKeypadXmit))
	if s.caretVisible {
		out.write(s.caps.get(capShowCaret))
	} else {
		out.write(s.caps.get(capHideCaret))
	}

	width, height, err := windowSize(fd)
	if err != nil {
		return newError(InitFailed, "querying window size", err, "ioctl TIOCGWINSZ")
	}

	if useResizeSignal {
		if err := acquireResizeSignal(s); err != nil {
			return err
		}
	}

	s.fd = fd
	s.ownsFd = ownsFd
	s.orig = orig
	s.poller = poller
	s.ownsSigwinch = useResizeSignal
	s.out = out
	s.render.out = out
	s.render.invalidate()
	s.decoder.reset()
	s.resizePending.Store(false)
	s.caretMoved = false

	s.grid.resize(width, height, false)
	out.write(s.caps.get(capClearScreen))
	s.isOpen = true
	out.flush()
	return nil
}

// makeRaw disables line discipline processing and sets non-blocking reads
func makeRaw(t unix.Termios) unix.Termios {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Iflag |= unix.IUTF8
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	return t
}

// windowSize returns the terminal size for a given fd
func windowSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// Close restores the terminal and releases everything Open acquired.
// Safe to call multiple times and on a session that was never opened.
func (s *Session) Close() {
	if !s.isOpen {
		return
	}

	if s.ownsSigwinch {
		releaseResizeSignal(s, s.log)
		s.ownsSigwinch = false
	}

	s.wakeFd.Store(-1)
	s.poller.close()
	s.poller = nil

	s.out.write(s.caps.get(capShowCaret))
	s.out.write(s.caps.get(capResetAttrs))
	s.out.write(s.caps.get(capClearScreen))
	s.grid.release()

	if err := unix.IoctlSetTermios(s.fd, unix.TCSETS, s.orig); err != nil {
		s.log.Warn("restoring terminal attributes failed", "err", err)
	}

	s.out.write(s.caps.get(capKeypadLocal))
	s.out.write(s.caps.get(capExitAltScreen))
	s.out.flush()

	if s.ownsFd {
		unix.Close(s.fd)
	}

	s.fd = -1
	s.ownsFd = false
	s.orig = nil
	s.out = nil
	s.render.out = nil
	s.render.invalidate()
	s.decoder.reset()
	s.resizePending.Store(false)
	s.isOpen = false
}

// notifyResize is called from the signal delivery goroutine
func (s *Session) notifyResize() {
	s.resizePending.Store(true)
	if fd := s.wakeFd.Load(); fd >= 0 {
		wakeFd(int(fd))
	}
}

// UpdateSize re-reads the window size and resizes the grid when it changed.
// The screen is cleared and fully redrawn on the next Present.
func (s *Session) UpdateSize() bool {
	if !s.isOpen {
		return false
	}
	width, height, err := windowSize(s.fd)
	if err != nil {
		s.log.Warn("querying window size failed", "err", err)
		return false
	}
	if width == s.grid.width && height == s.grid.height {
		return false
	}

	s.grid.resize(width, height, s.opts.RetainOnResize)
	s.out.write(s.caps.get(capClearScreen))
	s.grid.invalidateFront()
	return true
}

// SetCaretPos moves the logical caret; the terminal follows on Present
func (s *Session) SetCaretPos(x, y int) {
	if x == s.caretX && y == s.caretY {
		return
	}
	s.caretX = x
	s.caretY = y
	s.caretMoved = true
}

// SetCaretVisible shows or hides the terminal caret
func (s *Session) SetCaretVisible(visible bool) {
	if s.caretVisible == visible {
		return
	}
	s.caretVisible = visible
	if !s.isOpen {
		return
	}
	if visible {
		s.out.write(s.caps.get(capShowCaret))
	} else {
		s.out.write(s.caps.get(capHideCaret))
	}
	s.out.flush()
}

// PutCell writes one cell into the back buffer; out-of-bounds and absent
// cells are ignored
func (s *Session) PutCell(x, y int, c Cell) {
	s.grid.put(x, y, c)
}

// PutSequence writes cells left to right starting at x, y
func (s *Session) PutSequence(x, y int, cells []Cell) {
	s.grid.putSequence(x, y, cells)
}

// PutLine repeats c for length cells, rightward or downward
func (s *Session) PutLine(x, y, length int, vertical bool, c Cell) {
	s.grid.putLine(x, y, length, vertical, c)
}

// PutRect fills a w by h rectangle with c
func (s *Session) PutRect(x, y, w, h int, c Cell) {
	s.grid.putRect(x, y, w, h, c)
}

// Clear fills the whole back buffer with c
func (s *Session) Clear(c Cell) {
	s.grid.putRect(0, 0, s.grid.width, s.grid.height, c)
}

// CellAt returns the pending back-buffer cell
func (s *Session) CellAt(x, y int) (Cell, bool) {
	return s.grid.cell(x, y)
}

// Present sends back-buffer changes to the terminal
func (s *Session) Present() {
	if !s.isOpen {
		return
	}
	if !s.grid.anyDirty() && !s.caretMoved {
		return
	}
	s.render.present(&s.grid, s.caretX, s.caretY)
	s.caretMoved = false
}

// Sync clears the physical screen and redraws everything on the next Present
func (s *Session) Sync() {
	if !s.isOpen {
		return
	}
	s.out.write(s.caps.get(capClearScreen))
	s.grid.invalidateFront()
	s.render.invalidate()
}

// Poll returns the next event, waiting up to timeoutMs milliseconds.
// Zero does not block, a negative timeout waits indefinitely.
func (s *Session) Poll(timeoutMs int) Event {
	if !s.isOpen {
		return Event{}
	}

	if ev, ok := s.takeResize(); ok {
		return ev
	}

	// A pending escape gets one look at bytes that arrived since
	if s.decoder.pending.escape {
		s.poller.poll(0)
	}
	if ev, ok := s.decoder.next(&s.poller.stream); ok {
		return ev
	}

	// Buffered bytes after the escape that cannot complete a sequence are
	// decoded on this call, not after the timeout
	if s.decoder.resolvable(&s.poller.stream) {
		timeoutMs = 0
	}
	s.poller.poll(timeoutMs)

	if ev, ok := s.takeResize(); ok {
		return ev
	}
	ev, _ := s.decoder.next(&s.poller.stream)
	return ev
}

// takeResize converts a pending resize notification into an event
func (s *Session) takeResize() (Event, bool) {
	if !s.resizePending.Swap(false) {
		return Event{}, false
	}
	oldW, oldH := s.grid.width, s.grid.height
	if !s.UpdateSize() {
		return Event{}, false
	}
	return Event{Type: EventResize, OldWidth: oldW, OldHeight: oldH}, true
}
