package compiler

import "fmt"

type ErrorKind int

const (
	// Internal is a broken invariant inside the generator, e.g. a construct
	// that the checker should have rejected.
	Internal ErrorKind = iota + 1
	// Validation means the emitted module failed LLVM verification.
	Validation
	// Io means the IR text could not be written.
	Io
)

func (k ErrorKind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Validation:
		return "validation"
	case Io:
		return "io"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func internalErr(format string, args ...any) *Error {
	return &Error{Kind: Internal, Msg: fmt.Sprintf(format, args...)}
}
