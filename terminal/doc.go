// @focus: #sys { term }
// Package terminal drives a POSIX terminal from a terminfo description.
//
// Features:
//   - Raw mode setup and exact restoration, all-or-nothing Open
//   - Double-buffered cell grid with per-row dirty tracking
//   - Minimal output: run-coalesced cursor moves, cached SGR state
//   - Key decoding through a prefix trie built from terminfo key strings
//   - epoll-driven non-blocking input with a compacting stream buffer
//   - Process-wide SIGWINCH ownership shared safely between sessions
//
// Control sequences (caret, alternate screen, attributes, keypad mode) come
// from the loaded terminfo database; only cursor addressing and colour
// selection use fixed ANSI forms. EmergencyReset is the other exception: it
// runs without a Session and writes fixed xterm reset sequences.
//
// A Session is single-threaded: Poll, Present and the Put* primitives must
// be called from one goroutine. Always pair Open with a deferred Close.
package terminal
