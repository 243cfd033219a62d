// Package mediator routes requests to their single handler through an
// ordered chain of behaviors and publishes notifications to every registered
// handler.
//
// # Requests
//
// Each request type has exactly one handler. Value-returning requests use
// RequestHandler and Send; void requests use VoidHandler and SendVoid:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterHandler(reg, mediator.HandlerFunc[Ping, string](
//	    func(ctx context.Context, p Ping) (string, error) { return p.Text, nil },
//	))
//
//	d := mediator.NewDispatcher(reg)
//	resp, err := mediator.Send[string](ctx, d, Ping{Text: "hi"})
//
// A request without a handler fails with *HandlerNotFoundError, which matches
// ErrHandlerNotFound:
//
//	if errors.Is(err, mediator.ErrHandlerNotFound) { ... }
//
// # Behaviors
//
// Behaviors wrap the handler like middleware. They run in ascending Order,
// ties broken by name, so the lowest order is the outermost wrapper:
//
//	mediator.RegisterBehavior(reg, mediator.BehaviorFunc[Ping, string](
//	    func(ctx context.Context, p Ping, next mediator.Next[Ping, string]) (string, error) {
//	        resp, err := next(ctx, p)
//	        return strings.ToUpper(resp), err
//	    },
//	), mediator.WithOrder(5))
//
// Three kinds are supported:
//
//   - Behavior[TReq, TResp] for one value-returning request shape.
//   - VoidBehavior[TReq], or Behavior[TReq, Unit] via RegisterUnifiedBehavior,
//     for void requests.
//   - OpenBehavior for every request. Logging, recovery, timeouts, request IDs,
//     retries, validation, tracing, metrics and rate limiting are provided as
//     open behaviors.
//
// The dispatcher remembers per shape whether any behavior applies; shapes
// without behaviors call the handler directly. Register everything before the
// first Send.
//
// # Notifications
//
// A Mediator adds notification publishing on top of the dispatcher:
//
//	mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[OrderPlaced](sendReceipt))
//	mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[OrderPlaced](updateStock))
//
//	m := mediator.New(reg,
//	    mediator.WithPublisher(notification.NewParallelPublisher()),
//	    mediator.WithPublishContext(notification.NewPublishContext(notification.ContinueAndAggregate)),
//	)
//	defer m.Close()
//
//	err := m.Publish(ctx, OrderPlaced{ID: "o-1"})
//
// # Configuration
//
// Config reads the publisher strategy, failure behavior and queue sizing from
// MEDIATOR_* environment variables:
//
//	var cfg mediator.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	m, err := mediator.NewFromConfig(cfg, reg, mediator.WithLogger(log))
package mediator
