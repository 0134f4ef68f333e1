package ldapboot

import (
	"errors"
	"syscall"
)

var (
	// ErrGeneralFailure reports that an operation failed, either because
	// a native call returned a failure code or because the request was a
	// configuration error. Details are in the operation's Result.
	ErrGeneralFailure = errors.New("ldap bootstrap: general failure")

	// ErrNotImplemented reports that the capability is entirely absent
	// from the linked toolkit. It is distinct from ErrGeneralFailure so
	// callers can tell "try a different configuration" apart from "this
	// request is simply broken".
	ErrNotImplemented = errors.New("ldap bootstrap: not implemented")
)

// Status classifies the outcome of a bootstrap operation.
type Status int

const (
	StatusSuccess Status = iota
	StatusGeneralFailure
	StatusNotImplemented
	StatusOSError
)

// String returns the status as a short label.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusGeneralFailure:
		return "general-failure"
	case StatusNotImplemented:
		return "not-implemented"
	case StatusOSError:
		return "os-error"
	default:
		return "unknown"
	}
}

// StatusOf classifies an operation error. Errors whose chain carries an
// OS-level errno (connection refused, host unreachable and friends)
// classify as StatusOSError; this stands in for the legacy fallback of
// fetching the thread-local OS error when a toolkit signals failure only
// through an unset handle.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNotImplemented):
		return StatusNotImplemented
	case hasErrno(err):
		return StatusOSError
	default:
		return StatusGeneralFailure
	}
}

// IsNotImplemented reports whether err carries ErrNotImplemented.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// IsGeneralFailure reports whether err carries ErrGeneralFailure.
func IsGeneralFailure(err error) bool {
	return errors.Is(err, ErrGeneralFailure)
}

func hasErrno(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno)
}
