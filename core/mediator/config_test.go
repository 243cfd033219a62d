package mediator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mediator/core/config"
	"github.com/dmitrymomot/mediator/core/mediator"
	"github.com/dmitrymomot/mediator/core/notification"
)

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("MEDIATOR_PUBLISH_STRATEGY", "queued")
	t.Setenv("MEDIATOR_FAILURE_BEHAVIOR", "continue_and_aggregate")
	t.Setenv("MEDIATOR_MAX_PARALLELISM", "3")
	t.Setenv("MEDIATOR_QUEUE_WORKERS", "2")
	t.Setenv("MEDIATOR_QUEUE_FULL_POLICY", "drop")
	t.Setenv("MEDIATOR_SHUTDOWN_TIMEOUT", "5s")

	var cfg mediator.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, mediator.StrategyQueued, cfg.PublishStrategy)
	assert.Equal(t, notification.ContinueAndAggregate, cfg.FailureBehavior)
	assert.Equal(t, 3, cfg.MaxParallelism)
	assert.Equal(t, 100, cfg.QueueCapacity)
	assert.Equal(t, 2, cfg.QueueWorkers)
	assert.Equal(t, notification.QueueDrop, cfg.QueueFullPolicy)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	pc := cfg.PublishContext()
	assert.Equal(t, notification.ContinueAndAggregate, pc.FailureBehavior())
	dop, ok := pc.MaxDegreeOfParallelism()
	assert.True(t, ok)
	assert.Equal(t, 3, dop)
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := mediator.DefaultConfig()
	assert.Equal(t, mediator.StrategySequential, cfg.PublishStrategy)
	assert.Equal(t, notification.StopOnFirstError, cfg.FailureBehavior)
	assert.Equal(t, 100, cfg.QueueCapacity)
	assert.Equal(t, 4, cfg.QueueWorkers)
	assert.Equal(t, notification.QueueWait, cfg.QueueFullPolicy)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	_, ok := cfg.PublishContext().MaxDegreeOfParallelism()
	assert.False(t, ok)
}

func TestConfig_NewPublisher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strategy mediator.Strategy
		want     any
	}{
		{mediator.StrategySequential, &notification.SequentialPublisher{}},
		{mediator.StrategyParallel, &notification.ParallelPublisher{}},
		{mediator.StrategyQueued, &notification.QueuedPublisher{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			t.Parallel()

			cfg := mediator.DefaultConfig()
			cfg.PublishStrategy = tt.strategy

			p, err := cfg.NewPublisher(nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)

			if q, ok := p.(*notification.QueuedPublisher); ok {
				assert.NoError(t, q.Close())
			}
		})
	}

	cfg := mediator.DefaultConfig()
	cfg.PublishStrategy = "broadcast"
	_, err := cfg.NewPublisher(nil)
	assert.ErrorIs(t, err, mediator.ErrUnknownStrategy)
}

func TestStrategy_UnmarshalText(t *testing.T) {
	t.Parallel()

	var s mediator.Strategy
	require.NoError(t, s.UnmarshalText([]byte(" Parallel ")))
	assert.Equal(t, mediator.StrategyParallel, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("fanout")), mediator.ErrUnknownStrategy)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	reg := mediator.NewRegistry()
	var calls int
	require.NoError(t, mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[Note](
		func(ctx context.Context, n Note) error {
			calls++
			return nil
		},
	)))

	cfg := mediator.DefaultConfig()
	cfg.PublishStrategy = mediator.StrategyQueued
	cfg.QueueWorkers = 1

	m, err := mediator.NewFromConfig(cfg, reg)
	require.NoError(t, err)

	require.NoError(t, m.Publish(context.Background(), Note{}))
	assert.Equal(t, 1, calls)
	require.NoError(t, m.Close())

	cfg.PublishStrategy = "unknown"
	_, err = mediator.NewFromConfig(cfg, reg)
	assert.ErrorIs(t, err, mediator.ErrUnknownStrategy)
}
