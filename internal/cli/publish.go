package cli

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/core/mediator"
	"github.com/dmitrymomot/mediator/core/notification"
)

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	var (
		count       int
		concurrency int
		failEvery   int64
		strategy    string
		failure     string
		maxDOP      int
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish OrderPlaced notifications",
		Long: `Publish a batch of OrderPlaced notifications concurrently. Each notification
fans out to the receipt, inventory and payment handlers; the payment handler
fails on every Nth call when --fail-every is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fb *notification.FailureBehavior
			if failure != "" {
				parsed, err := notification.ParseFailureBehavior(failure)
				if err != nil {
					return err
				}
				fb = &parsed
			}

			override := func(cfg *mediator.Config) {
				if strategy != "" {
					cfg.PublishStrategy = mediator.Strategy(strategy)
				}
				if fb != nil {
					cfg.FailureBehavior = *fb
				}
				if maxDOP > 0 {
					cfg.MaxParallelism = maxDOP
				}
			}

			m, stats, err := newMediator(appOptions{timeout: 5 * time.Second, failEvery: failEvery}, override)
			if err != nil {
				return err
			}
			defer m.Close()

			log := newLogger()
			var ok, failed atomic.Int64
			start := time.Now()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for i := range count {
				g.Go(func() error {
					err := m.Publish(ctx, OrderPlaced{ID: fmt.Sprintf("order-%04d", i), Amount: i})
					switch {
					case err == nil:
						ok.Add(1)
					case errors.Is(err, notification.ErrPublisherClosed):
						return err
					default:
						failed.Add(1)
						log.DebugContext(ctx, "publish failed",
							logger.Notification("OrderPlaced"),
							logger.Errors(handlerErrors(err)...))
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Published %d notifications in %s\n", count, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(out, "  Succeeded: %d\n", ok.Load())
			fmt.Fprintf(out, "  Failed:    %d\n", failed.Load())
			fmt.Fprintf(out, "  Handlers:  %s\n", stats)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of notifications to publish")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Concurrent publish calls")
	cmd.Flags().Int64Var(&failEvery, "fail-every", 0, "Fail the payment handler on every Nth call (0 = never)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Publisher: sequential, parallel or queued (overrides MEDIATOR_PUBLISH_STRATEGY)")
	cmd.Flags().StringVar(&failure, "failure", "", "Failure behavior (overrides MEDIATOR_FAILURE_BEHAVIOR)")
	cmd.Flags().IntVar(&maxDOP, "max-parallelism", 0, "Max handlers in flight per publish (overrides MEDIATOR_MAX_PARALLELISM)")

	return cmd
}

// handlerErrors flattens an aggregated publish failure into its handler errors.
func handlerErrors(err error) []error {
	var agg *notification.AggregateError
	if errors.As(err, &agg) {
		return agg.Errors
	}
	return []error{err}
}
