package interpreter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an interpretation could not be produced.
type ErrorKind string

const (
	KindNotConfigured ErrorKind = "not_configured"
	KindTransport     ErrorKind = "service_error"
	KindMalformed     ErrorKind = "malformed_response"
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a ServiceError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind, true
	}
	return "", false
}

func notConfigured(message string) *ServiceError {
	return &ServiceError{Kind: KindNotConfigured, Message: message}
}

func transport(err error) *ServiceError {
	return &ServiceError{Kind: KindTransport, Message: "interpretation service call failed", Err: err}
}

func malformed(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindMalformed, Message: message, Err: err}
}
