// Package notification fans a notification out to every handler registered
// for its type.
//
// Handlers are wrapped into type-erased Executors so a single Publisher serves
// all notification types. Three publishers are provided:
//
//   - SequentialPublisher runs handlers one after another in registration order.
//   - ParallelPublisher runs handlers concurrently behind a counting gate sized
//     by the degree of parallelism.
//   - QueuedPublisher hands work to a fixed pool of background workers through
//     a bounded queue and waits for the items of each call.
//
// Every call takes a PublishContext that selects a FailureBehavior:
//
//	StopOnFirstError      return the first failure, invoke nothing after it
//	ContinueAndAggregate  run all handlers, return an *AggregateError
//	ContinueAndLog        run all handlers, log failures, return nil
//
// Cancellation of the caller's context is always reported as ctx.Err() and is
// never recorded as a handler failure.
//
// # Usage
//
//	handlers := notification.Executors[OrderPlaced](
//	    notification.HandlerFunc[OrderPlaced](sendReceipt),
//	    notification.HandlerFunc[OrderPlaced](updateStock),
//	)
//
//	p := notification.NewParallelPublisher(notification.WithLogger(log))
//	err := p.Publish(ctx, OrderPlaced{ID: "o-1"}, handlers,
//	    notification.NewPublishContext(notification.ContinueAndAggregate,
//	        notification.WithMaxDegreeOfParallelism(4)))
//
//	var agg *notification.AggregateError
//	if errors.As(err, &agg) {
//	    for _, e := range agg.Errors {
//	        log.Error("handler failed", "error", e)
//	    }
//	}
//
// QueuedPublisher owns goroutines and must be closed:
//
//	q := notification.NewQueuedPublisher(notification.WithWorkers(4))
//	defer q.Close()
//
// Handler panics are recovered and reported as errors wrapping ErrHandlerPanicked.
package notification
