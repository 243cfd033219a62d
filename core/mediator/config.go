package mediator

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/core/notification"
)

// Strategy names a notification publisher.
type Strategy string

const (
	// StrategySequential runs handlers one after another on the caller's goroutine.
	StrategySequential Strategy = "sequential"

	// StrategyParallel runs handlers concurrently, bounded by the degree of parallelism.
	StrategyParallel Strategy = "parallel"

	// StrategyQueued hands handlers to a fixed pool of background workers.
	StrategyQueued Strategy = "queued"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	switch v := Strategy(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case StrategySequential, StrategyParallel, StrategyQueued:
		*s = v
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(text))
	}
}

// Config holds the publishing configuration.
// Designed for environment-based configuration with core/config.
type Config struct {
	// Publisher selection and failure policy
	PublishStrategy Strategy                     `env:"MEDIATOR_PUBLISH_STRATEGY" envDefault:"sequential"`
	FailureBehavior notification.FailureBehavior `env:"MEDIATOR_FAILURE_BEHAVIOR" envDefault:"stop_on_first_error"`
	MaxParallelism  int                          `env:"MEDIATOR_MAX_PARALLELISM" envDefault:"0"`

	// Queued publisher configuration
	QueueCapacity   int                          `env:"MEDIATOR_QUEUE_CAPACITY" envDefault:"100"`
	QueueWorkers    int                          `env:"MEDIATOR_QUEUE_WORKERS" envDefault:"4"`
	QueueFullPolicy notification.FullQueuePolicy `env:"MEDIATOR_QUEUE_FULL_POLICY" envDefault:"wait"`
	ShutdownTimeout time.Duration                `env:"MEDIATOR_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		PublishStrategy: StrategySequential,
		FailureBehavior: notification.StopOnFirstError,
		QueueCapacity:   notification.DefaultQueueCapacity,
		QueueWorkers:    notification.DefaultQueueWorkers,
		QueueFullPolicy: notification.QueueWait,
		ShutdownTimeout: notification.DefaultShutdownTimeout,
	}
}

// PublishContext builds the publish context described by the configuration.
func (c Config) PublishContext() notification.PublishContext {
	return notification.NewPublishContext(c.FailureBehavior,
		notification.WithMaxDegreeOfParallelism(c.MaxParallelism))
}

// NewPublisher builds the configured publisher.
// A queued publisher owns goroutines and must be closed.
func (c Config) NewPublisher(log *slog.Logger) (notification.Publisher, error) {
	switch c.PublishStrategy {
	case StrategySequential, "":
		return notification.NewSequentialPublisher(notification.WithLogger(log)), nil
	case StrategyParallel:
		return notification.NewParallelPublisher(notification.WithLogger(log)), nil
	case StrategyQueued:
		return notification.NewQueuedPublisher(
			notification.WithQueueCapacity(c.QueueCapacity),
			notification.WithWorkers(c.QueueWorkers),
			notification.WithFullQueuePolicy(c.QueueFullPolicy),
			notification.WithShutdownTimeout(c.ShutdownTimeout),
			notification.WithQueueLogger(log),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(c.PublishStrategy))
	}
}

// NewFromConfig creates a mediator whose publisher and publish context come
// from cfg. Additional options override config values.
//
// Example:
//
//	var cfg mediator.Config
//	config.MustLoad(&cfg)
//	m, err := mediator.NewFromConfig(cfg, reg, mediator.WithLogger(log))
func NewFromConfig(cfg Config, registry HandlerRegistry, opts ...Option) (*Mediator, error) {
	o := &mediatorOptions{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	allOpts := []Option{WithPublishContext(cfg.PublishContext())}

	// A publisher passed in opts wins; building one here would leak its workers.
	if o.publisher == nil {
		publisher, err := cfg.NewPublisher(o.logger)
		if err != nil {
			return nil, err
		}
		allOpts = append(allOpts, WithPublisher(publisher))
	}

	return New(registry, append(allOpts, opts...)...), nil
}
