package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/mediator/core/mediator"
	"github.com/dmitrymomot/mediator/core/notification"
)

type Greet struct {
	Name string
}

type UserSignedUp struct {
	Email string
}

func ExampleSend() {
	reg := mediator.NewRegistry()

	_ = mediator.RegisterHandler(reg, mediator.HandlerFunc[Greet, string](
		func(ctx context.Context, g Greet) (string, error) {
			return "hello, " + g.Name, nil
		},
	))
	_ = mediator.RegisterBehavior(reg, mediator.BehaviorFunc[Greet, string](
		func(ctx context.Context, g Greet, next mediator.Next[Greet, string]) (string, error) {
			resp, err := next(ctx, g)
			return strings.ToUpper(resp), err
		},
	))

	d := mediator.NewDispatcher(reg)
	resp, err := mediator.Send[string](context.Background(), d, Greet{Name: "gopher"})
	fmt.Println(resp, err)
	// Output: HELLO, GOPHER <nil>
}

func ExampleMediator_Publish() {
	reg := mediator.NewRegistry()

	_ = mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[UserSignedUp](
		func(ctx context.Context, e UserSignedUp) error {
			fmt.Println("welcome email to", e.Email)
			return nil
		},
	))
	_ = mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[UserSignedUp](
		func(ctx context.Context, e UserSignedUp) error {
			return errors.New("crm unavailable")
		},
	))

	m := mediator.New(reg,
		mediator.WithPublishContext(notification.NewPublishContext(notification.ContinueAndAggregate)),
	)
	defer m.Close()

	err := m.Publish(context.Background(), UserSignedUp{Email: "a@example.com"})

	var agg *notification.AggregateError
	if errors.As(err, &agg) {
		fmt.Println(len(agg.Errors), "handler failed")
	}
	// Output:
	// welcome email to a@example.com
	// 1 handler failed
}
