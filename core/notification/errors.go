package notification

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHandlerPanicked is wrapped by a HandlerError when a handler panics.
	ErrHandlerPanicked = errors.New("notification handler panicked")

	// ErrPublisherClosed is returned when publishing to a closed publisher.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrHealthcheckFailed is joined with the cause when a publisher is unhealthy.
	ErrHealthcheckFailed = errors.New("healthcheck failed")

	// ErrQueueFull is wrapped by a HandlerError when a work item is dropped
	// because the publish queue has no free capacity.
	ErrQueueFull = errors.New("publish queue is full")

	// ErrNotificationTypeMismatch is returned when an executor receives a notification
	// of a type its handler does not accept.
	ErrNotificationTypeMismatch = errors.New("notification type mismatch")

	// ErrUnknownFailureBehavior is returned when parsing an unrecognised failure behavior.
	ErrUnknownFailureBehavior = errors.New("unknown failure behavior")

	// ErrUnknownQueuePolicy is returned when parsing an unrecognised full-queue policy.
	ErrUnknownQueuePolicy = errors.New("unknown full-queue policy")
)

// HandlerError reports a failure raised by one notification handler.
type HandlerError struct {
	Handler      string
	Notification string
	Err          error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s failed for %s: %v", e.Handler, e.Notification, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// AggregateError collects every handler failure of a single publish call.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d notification handler(s) failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the inner errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
