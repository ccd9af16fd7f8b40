package serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrorKind classifies a port failure so callers can branch on it
// without parsing message text.
type ErrorKind int

const (
	// KindOpen means the device open syscall failed.
	KindOpen ErrorKind = iota + 1
	// KindGetAttr means reading the device's termios settings failed.
	KindGetAttr
	// KindSetAttr means committing modified termios settings failed.
	KindSetAttr
	// KindIO means a read or write syscall failed.
	KindIO
	// KindShortWrite means a write transferred fewer bytes than requested.
	// Writes are not retried; the caller decides whether to loop.
	KindShortWrite
	// KindClose means the close syscall failed. The port is still
	// considered closed.
	KindClose
	// KindClosed means the operation was attempted after Close.
	KindClosed
	// KindConfig means the Options were rejected before any syscall,
	// e.g. a baud rate outside the supported set.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindOpen:
		return "open failed"
	case KindGetAttr:
		return "get attributes failed"
	case KindSetAttr:
		return "set attributes failed"
	case KindIO:
		return "i/o error"
	case KindShortWrite:
		return "short write"
	case KindClose:
		return "close failed"
	case KindClosed:
		return "port closed"
	case KindConfig:
		return "invalid configuration"
	}
	return "unknown error"
}

// PortError is the error type returned by every operation in this
// package. Errno is zero when the failure did not come from a syscall.
type PortError struct {
	Kind  ErrorKind
	Op    string
	Path  string
	Errno unix.Errno
}

func (e *PortError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if desc := describeErrno(e.Errno); desc != "" {
		msg += ": " + desc
	}
	return msg
}

// Unwrap exposes the underlying errno so errors.Is(err, unix.ENOENT)
// and friends work.
func (e *PortError) Unwrap() error {
	if e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// describeErrno renders the OS message for an errno. Errno zero has no
// description and yields the empty string; this never fails.
func describeErrno(e unix.Errno) string {
	if e == 0 {
		return ""
	}
	return e.Error()
}

// errnoOf extracts the errno from a syscall error. The x/sys wrappers
// return unix.Errno directly, so this is the Go equivalent of reading
// the thread-local errno after a failed call.
func errnoOf(err error) unix.Errno {
	var e unix.Errno
	if errors.As(err, &e) {
		return e
	}
	return 0
}
