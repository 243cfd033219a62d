package notification

import (
	"fmt"
	"strings"
)

// FailureBehavior selects how a publisher reacts to handler failures.
type FailureBehavior int

const (
	// StopOnFirstError returns the first failure; remaining handlers are not invoked.
	StopOnFirstError FailureBehavior = iota

	// ContinueAndAggregate runs every handler and returns an AggregateError
	// holding all failures.
	ContinueAndAggregate

	// ContinueAndLog runs every handler, logs failures and returns nil.
	ContinueAndLog
)

var failureBehaviorNames = map[FailureBehavior]string{
	StopOnFirstError:     "stop_on_first_error",
	ContinueAndAggregate: "continue_and_aggregate",
	ContinueAndLog:       "continue_and_log",
}

func (b FailureBehavior) String() string {
	if name, ok := failureBehaviorNames[b]; ok {
		return name
	}
	return fmt.Sprintf("FailureBehavior(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b FailureBehavior) MarshalText() ([]byte, error) {
	if _, ok := failureBehaviorNames[b]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFailureBehavior, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *FailureBehavior) UnmarshalText(text []byte) error {
	parsed, err := ParseFailureBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseFailureBehavior parses names such as "continue_and_log",
// "continue-and-log" or "ContinueAndLog".
func ParseFailureBehavior(s string) (FailureBehavior, error) {
	key := normalizeName(s)
	for b, name := range failureBehaviorNames {
		if normalizeName(name) == key {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFailureBehavior, s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// PublishContext carries the failure policy and optional parallelism limit of
// a publish call. It is immutable; build it with NewPublishContext.
type PublishContext struct {
	failure FailureBehavior
	maxDOP  int
}

// PublishOption configures a PublishContext.
type PublishOption func(*PublishContext)

// NewPublishContext creates a publish context with the given failure behavior.
//
// Example:
//
//	pc := notification.NewPublishContext(
//	    notification.ContinueAndAggregate,
//	    notification.WithMaxDegreeOfParallelism(4),
//	)
func NewPublishContext(failure FailureBehavior, opts ...PublishOption) PublishContext {
	pc := PublishContext{failure: failure}
	for _, opt := range opts {
		opt(&pc)
	}
	return pc
}

// WithMaxDegreeOfParallelism caps concurrent handler invocations.
// Values below 1 leave the limit unset.
func WithMaxDegreeOfParallelism(n int) PublishOption {
	return func(pc *PublishContext) {
		if n > 0 {
			pc.maxDOP = n
		}
	}
}

// FailureBehavior returns the configured failure behavior.
func (c PublishContext) FailureBehavior() FailureBehavior {
	return c.failure
}

// MaxDegreeOfParallelism returns the parallelism limit and whether one was set.
func (c PublishContext) MaxDegreeOfParallelism() (int, bool) {
	return c.maxDOP, c.maxDOP > 0
}
