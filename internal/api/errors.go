package api

import (
	"fmt"
	"net/http"
)

// TransportError reports a failure to reach the service or to read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success status. Detail holds the server's
// human-readable reason when one was sent.
type ServiceError struct {
	Op     string
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	return e.Reason()
}

// Reason is the text shown to users: the server detail, or a message derived
// from the status code.
func (e *ServiceError) Reason() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.Status); text != "" {
		return fmt.Sprintf("HTTP error! status: %d %s", e.Status, text)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}
