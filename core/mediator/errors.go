package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrHandlerNotFound is matched by HandlerNotFoundError.
	ErrHandlerNotFound = errors.New("no handler registered for request")

	// ErrHandlerAlreadyRegistered is returned when a request type already has a handler.
	ErrHandlerAlreadyRegistered = errors.New("handler already registered for request")

	// ErrNilHandler is returned when registering a nil handler or behavior.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerTypeMismatch is returned when the registered handler does not
	// match the request and response types of the call.
	ErrHandlerTypeMismatch = errors.New("handler type mismatch")

	// ErrBehaviorTypeMismatch is returned when a registered behavior does not
	// match the shape it was resolved for.
	ErrBehaviorTypeMismatch = errors.New("behavior type mismatch")

	// ErrRequestTypeMismatch is returned when an open behavior passes a request
	// of a different type to next.
	ErrRequestTypeMismatch = errors.New("request type mismatch")

	// ErrResponseTypeMismatch is returned when an open behavior returns a value
	// of a different type than the pipeline's response.
	ErrResponseTypeMismatch = errors.New("response type mismatch")

	// ErrHandlerPanicked is returned by RecoverBehavior when the pipeline panics.
	ErrHandlerPanicked = errors.New("request handler panicked")

	// ErrValidation wraps validation failures reported by ValidationBehavior.
	ErrValidation = errors.New("request validation failed")

	// ErrUnknownStrategy is returned when parsing an unrecognised publish strategy.
	ErrUnknownStrategy = errors.New("unknown publish strategy")
)

// HandlerNotFoundError reports that no handler is registered for a request type.
type HandlerNotFoundError struct {
	RequestType reflect.Type
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHandlerNotFound, typeName(e.RequestType))
}

// Is reports whether target is ErrHandlerNotFound.
func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}
