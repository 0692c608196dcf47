package remote

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a remote call failed.
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindHTTP      ErrorKind = "http"
	KindMalformed ErrorKind = "malformed"
	KindRejected  ErrorKind = "rejected" // success=false
	KindEmpty     ErrorKind = "empty"    // success but no payload
)

var (
	ErrTimeout   = errors.New("remote call timed out")
	ErrTransport = errors.New("remote call failed")
	ErrHTTP      = errors.New("remote service returned an error status")
	ErrMalformed = errors.New("remote response could not be decoded")
	ErrRejected  = errors.New("remote service reported failure")
	ErrEmpty     = errors.New("remote response carried no data")
)

var kindSentinels = map[ErrorKind]error{
	KindTimeout:   ErrTimeout,
	KindTransport: ErrTransport,
	KindHTTP:      ErrHTTP,
	KindMalformed: ErrMalformed,
	KindRejected:  ErrRejected,
	KindEmpty:     ErrEmpty,
}

// Error describes a failed call to the information or booking service.
type Error struct {
	Op      string // codOpe of the call
	Kind    ErrorKind
	Status  int    // HTTP status for KindHTTP
	Message string // message returned by the service, if any
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, kindSentinels[e.Kind])
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match on the kind sentinels, e.g. errors.Is(err, remote.ErrTimeout).
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf extracts the kind of a remote error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}
