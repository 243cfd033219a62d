package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mediator/core/notification"
)

func TestParseFailureBehavior(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want notification.FailureBehavior
	}{
		{"stop_on_first_error", notification.StopOnFirstError},
		{"StopOnFirstError", notification.StopOnFirstError},
		{"continue-and-aggregate", notification.ContinueAndAggregate},
		{" Continue And Log ", notification.ContinueAndLog},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := notification.ParseFailureBehavior(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := notification.ParseFailureBehavior("retry")
	assert.ErrorIs(t, err, notification.ErrUnknownFailureBehavior)
}

func TestFailureBehaviorText(t *testing.T) {
	t.Parallel()

	text, err := notification.ContinueAndLog.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "continue_and_log", string(text))

	var b notification.FailureBehavior
	require.NoError(t, b.UnmarshalText([]byte("continue_and_aggregate")))
	assert.Equal(t, notification.ContinueAndAggregate, b)

	_, err = notification.FailureBehavior(42).MarshalText()
	assert.ErrorIs(t, err, notification.ErrUnknownFailureBehavior)
	assert.Equal(t, "FailureBehavior(42)", notification.FailureBehavior(42).String())
}

func TestPublishContext(t *testing.T) {
	t.Parallel()

	pc := notification.NewPublishContext(notification.ContinueAndAggregate)
	assert.Equal(t, notification.ContinueAndAggregate, pc.FailureBehavior())
	_, ok := pc.MaxDegreeOfParallelism()
	assert.False(t, ok)

	pc = notification.NewPublishContext(notification.StopOnFirstError, notification.WithMaxDegreeOfParallelism(4))
	dop, ok := pc.MaxDegreeOfParallelism()
	assert.True(t, ok)
	assert.Equal(t, 4, dop)

	pc = notification.NewPublishContext(notification.StopOnFirstError, notification.WithMaxDegreeOfParallelism(0))
	_, ok = pc.MaxDegreeOfParallelism()
	assert.False(t, ok, "non-positive limits are ignored")
}
