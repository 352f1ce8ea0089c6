package terminal

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind classifies Session failures
type ErrorKind uint8

const (
	AlreadyOpen ErrorKind = iota + 1
	InfoUninitialized
	SigwinchAlreadyActive
	// SigactionFailed is kept for callers that switch over every kind;
	// os/signal registration itself cannot fail
	SigactionFailed
	DeviceOpenFailed
	InvalidFd
	InitFailed
)

var kindNames = map[ErrorKind]string{
	AlreadyOpen:           "terminal already open",
	InfoUninitialized:     "terminfo database not initialized",
	SigwinchAlreadyActive: "resize signal already owned",
	SigactionFailed:       "signal registration failed",
	DeviceOpenFailed:      "cannot open terminal device",
	InvalidFd:             "descriptor is not a terminal",
	InitFailed:            "terminal initialization failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown terminal error"
}

// Error carries a kind, a message and the OS cause when one exists
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a terminal Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// newError builds an Error; a non-nil cause is wrapped with the syscall name
func newError(kind ErrorKind, msg string, cause error, op string) error {
	if cause != nil && op != "" {
		cause = pkgerrors.Wrap(cause, op)
	}
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
