// Package process defines the platform-neutral contract for working with a
// foreign process: identifiers, flag sets, the error taxonomy and the
// interfaces the per-OS implementations satisfy.
package process

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrNullHandle is returned when an operation is attempted on a handle that
	// was never set or has already been closed.
	ErrNullHandle = errors.New("null handle")

	// ErrInvalidArgument is returned when a caller supplied parameter violates a
	// precondition (null address, empty buffer, region already freed).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOSCall matches every *OSCallError through errors.Is.
	ErrOSCall = errors.New("os call failed")

	// ErrRegionsOutstanding is returned when a process is closed while memory
	// regions allocated against it are still live.
	ErrRegionsOutstanding = errors.New("process has outstanding memory regions")

	ErrShortRead = errors.New("short read")
)

// OSCallError reports a failed host OS primitive.
type OSCallError struct {
	Op  string // name of the OS call, e.g. "OpenProcess"
	Err error
}

func NewOSCallError(op string, err error) *OSCallError {
	return &OSCallError{Op: op, Err: err}
}

func (e *OSCallError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OSCallError) Unwrap() error {
	return e.Err
}

func (e *OSCallError) Is(target error) bool {
	return target == ErrOSCall
}

// Code returns the OS error number, or 0 when the cause carries none.
func (e *OSCallError) Code() uint32 {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return uint32(errno)
	}
	return 0
}

// InvalidArgument builds an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
