package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by requests that check their own invariants.
type Validatable interface {
	Validate() error
}

// ValidationBehavior rejects invalid requests before they reach the handler.
// Struct requests are checked against their `validate` tags; requests
// implementing Validatable are checked with Validate. Failures wrap ErrValidation.
// A nil v uses validator.New().
//
// Example:
//
//	type CreateUser struct {
//	    Email string `validate:"required,email"`
//	}
//
//	reg.RegisterOpenBehavior(mediator.ValidationBehavior(nil), mediator.WithOrder(-50))
func ValidationBehavior(v *validator.Validate) OpenBehavior {
	if v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}

	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		if isStruct(req) {
			if err := v.StructCtx(ctx, req); err != nil {
				return nil, formatValidationError(err)
			}
		}
		if val, ok := req.(Validatable); ok {
			if err := val.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrValidation, err)
			}
		}
		return next(ctx, req)
	})
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		if reflect.ValueOf(v).IsNil() {
			return false
		}
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("%w: %s: %w", ErrValidation, strings.Join(messages, "; "), verrs)
}
