package mediator_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mediator/core/mediator"
	"github.com/dmitrymomot/mediator/core/notification"
)

type Note struct{}

type Alert interface {
	Level() string
}

type diskAlert struct{}

func (diskAlert) Level() string { return "warn" }

func noteRegistry(t *testing.T, good *atomic.Int32, errBad error) *mediator.Registry {
	t.Helper()

	reg := mediator.NewRegistry()
	goodHandler := notification.HandlerFunc[Note](func(ctx context.Context, n Note) error {
		good.Add(1)
		return nil
	})
	require.NoError(t, mediator.RegisterNotificationHandler(reg, goodHandler))
	require.NoError(t, mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[Note](
		func(ctx context.Context, n Note) error { return errBad },
	)))
	require.NoError(t, mediator.RegisterNotificationHandler(reg, goodHandler))
	return reg
}

func TestMediator_NoteScenario(t *testing.T) {
	t.Parallel()

	publishers := map[string]func() notification.Publisher{
		"sequential": func() notification.Publisher { return notification.NewSequentialPublisher() },
		"parallel":   func() notification.Publisher { return notification.NewParallelPublisher() },
		"queued":     func() notification.Publisher { return notification.NewQueuedPublisher(notification.WithWorkers(2)) },
	}

	for name, newPublisher := range publishers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var good atomic.Int32
			errBad := errors.New("bad handler")
			m := mediator.New(noteRegistry(t, &good, errBad),
				mediator.WithPublisher(newPublisher()),
				mediator.WithPublishContext(notification.NewPublishContext(notification.ContinueAndAggregate)),
			)

			err := m.Publish(context.Background(), Note{})

			var agg *notification.AggregateError
			require.ErrorAs(t, err, &agg)
			require.Len(t, agg.Errors, 1)
			assert.ErrorIs(t, agg.Errors[0], errBad)
			assert.Equal(t, int32(2), good.Load())

			assert.NoError(t, m.Close())
		})
	}
}

func TestMediator_DefaultsToStopOnFirst(t *testing.T) {
	t.Parallel()

	var good atomic.Int32
	errBad := errors.New("bad handler")
	m := mediator.New(noteRegistry(t, &good, errBad))

	err := m.Publish(context.Background(), Note{})
	require.ErrorIs(t, err, errBad)

	var herr *notification.HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "Note", herr.Notification)
	assert.Equal(t, int32(1), good.Load(), "the handler after the failure must not run")

	good.Store(0)
	err = m.PublishWith(context.Background(), Note{}, notification.NewPublishContext(notification.ContinueAndLog))
	require.NoError(t, err)
	assert.Equal(t, int32(2), good.Load())
}

func TestMediator_PublishWithoutHandlers(t *testing.T) {
	t.Parallel()

	m := mediator.New(mediator.NewRegistry())
	assert.NoError(t, m.Publish(context.Background(), Note{}))
	assert.NoError(t, mediator.Publish(context.Background(), m, Note{}))
}

func TestMediator_GenericPublishResolvesInterfaces(t *testing.T) {
	t.Parallel()

	reg := mediator.NewRegistry()
	var calls atomic.Int32
	require.NoError(t, mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[diskAlert](
		func(ctx context.Context, a diskAlert) error {
			calls.Add(1)
			return nil
		},
	)))
	m := mediator.New(reg)

	require.NoError(t, mediator.Publish(context.Background(), m, diskAlert{}))

	var a Alert = diskAlert{}
	require.NoError(t, mediator.Publish(context.Background(), m, a))
	assert.Equal(t, int32(2), calls.Load())
}

func TestMediator_SendThroughFacade(t *testing.T) {
	t.Parallel()

	reg := mediator.NewRegistry()
	require.NoError(t, mediator.RegisterHandler(reg, pingHandler(nil)))
	m := mediator.New(reg)

	resp, err := mediator.Send[string](context.Background(), m, Ping{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp)

	resp, err = mediator.Send[string](context.Background(), m.Dispatcher(), Ping{Text: "again"})
	require.NoError(t, err)
	assert.Equal(t, "again", resp)
}

func TestMediator_CloseWithQueuedPublisher(t *testing.T) {
	t.Parallel()

	reg := mediator.NewRegistry()
	require.NoError(t, mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[Note](
		func(ctx context.Context, n Note) error { return nil },
	)))

	m := mediator.New(reg, mediator.WithPublisher(notification.NewQueuedPublisher()))
	require.NoError(t, m.Publish(context.Background(), Note{}))
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Publish(context.Background(), Note{}), notification.ErrPublisherClosed)
}
