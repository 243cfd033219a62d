package mediator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct{}

type countingRegistry struct {
	*Registry
	resolves int
}

func (r *countingRegistry) ResolveBehaviors(shape Shape) []BehaviorEntry {
	r.resolves++
	return r.Registry.ResolveBehaviors(shape)
}

func TestDispatcher_PresenceCache(t *testing.T) {
	t.Parallel()

	reg := &countingRegistry{Registry: NewRegistry()}
	require.NoError(t, RegisterHandler(reg.Registry, HandlerFunc[probe, int](
		func(ctx context.Context, p probe) (int, error) { return 7, nil },
	)))
	d := NewDispatcher(reg)

	for range 3 {
		n, err := Send[int](context.Background(), d, probe{})
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	}

	has, ok := d.presence.Load(ShapeOf[probe, int]())
	require.True(t, ok)
	assert.False(t, has)
	// Typed and open shapes are resolved once; later sends take the fast path.
	assert.Equal(t, 2, reg.resolves)
}

func TestDispatcher_PresenceCacheWithBehaviors(t *testing.T) {
	t.Parallel()

	reg := &countingRegistry{Registry: NewRegistry()}
	require.NoError(t, RegisterVoidHandler(reg.Registry, VoidHandlerFunc[probe](
		func(ctx context.Context, p probe) error { return nil },
	)))
	require.NoError(t, RegisterUnifiedBehavior(reg.Registry, BehaviorFunc[probe, Unit](
		func(ctx context.Context, p probe, next Next[probe, Unit]) (Unit, error) { return next(ctx, p) },
	)))
	d := NewDispatcher(reg)

	require.NoError(t, SendVoid(context.Background(), d, probe{}))

	has, ok := d.presence.Load(VoidShapeOf[probe]())
	require.True(t, ok)
	assert.True(t, has)
}
