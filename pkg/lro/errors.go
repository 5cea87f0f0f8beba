package lro

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOperationHandle   = errors.New("response is missing an azure-asyncoperation or location header")
	ErrMalformedOperationHandle = errors.New("operation handle is not a valid url")
	ErrInvalidOperationHandle   = errors.New("operation handle has no operation id segment")
	ErrTransport                = errors.New("transport error")
	ErrUnrecognizedStatus       = errors.New("unrecognized operation status")
	ErrTimeout                  = errors.New("timed out waiting for operation")
)

// HandleError carries the header value that could not be turned into a Handle.
type HandleError struct {
	Kind   error
	Header string
	Value  string
	Err    error
}

func (e *HandleError) Error() string {
	msg := fmt.Sprintf("%v (%s: %q)", e.Kind, e.Header, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HandleError) Is(target error) bool {
	return target == e.Kind
}

func (e *HandleError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure of the remote call itself, as opposed to a
// failed operation reported by the provider.
type TransportError struct {
	OperationID string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("polling operation %s: %v", e.OperationID, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
