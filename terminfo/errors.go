package terminfo

import (
	pkgerrors "github.com/pkg/errors"
)

// ErrorKind classifies database failures
type ErrorKind uint8

const (
	// IOFailed means the underlying stream could not supply enough bytes
	IOFailed ErrorKind = iota + 1
	// DataMalformed means the bytes read do not form a valid description
	DataMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case IOFailed:
		return "serialization io failed"
	case DataMalformed:
		return "serialization data malformed"
	}
	return "unknown"
}

// Error is returned by every failing Database operation.
// Err, when set, already carries Msg as its context.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given kind anywhere in its chain
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return pkgerrors.As(err, &e) && e.Kind == kind
}

func malformed(msg string) error {
	return &Error{Kind: DataMalformed, Msg: msg}
}

func ioFailed(msg string, err error) error {
	if err == nil {
		return &Error{Kind: IOFailed, Msg: msg}
	}
	return &Error{Kind: IOFailed, Msg: msg, Err: pkgerrors.Wrap(err, msg)}
}
