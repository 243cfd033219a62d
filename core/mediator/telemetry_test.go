package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dmitrymomot/mediator/core/mediator"
)

func TestTracingBehavior(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	errFail := errors.New("fail")
	reg := mediator.NewRegistry()
	require.NoError(t, mediator.RegisterHandler(reg, mediator.HandlerFunc[Ping, string](
		func(ctx context.Context, p Ping) (string, error) {
			if p.Text == "fail" {
				return "", errFail
			}
			return p.Text, nil
		},
	)))
	require.NoError(t, reg.RegisterOpenBehavior(mediator.TracingBehavior(tp.Tracer("test"))))
	d := mediator.NewDispatcher(reg)

	_, err := mediator.Send[string](context.Background(), d, Ping{Text: "ok"})
	require.NoError(t, err)
	_, err = mediator.Send[string](context.Background(), d, Ping{Text: "fail"})
	require.ErrorIs(t, err, errFail)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "mediator.send Ping", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "fail", spans[1].Status().Description)
	require.NotEmpty(t, spans[1].Events())
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestMetricsBehavior(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	b, err := mediator.MetricsBehavior(mp)
	require.NoError(t, err)

	reg := mediator.NewRegistry()
	require.NoError(t, mediator.RegisterHandler(reg, mediator.HandlerFunc[Ping, string](
		func(ctx context.Context, p Ping) (string, error) {
			if p.Text == "" {
				return "", errors.New("empty")
			}
			return p.Text, nil
		},
	)))
	require.NoError(t, reg.RegisterOpenBehavior(b))
	d := mediator.NewDispatcher(reg)

	for _, text := range []string{"a", "b", ""} {
		_, _ = mediator.Send[string](context.Background(), d, Ping{Text: text})
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	got := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		got[m.Name] = m
	}

	requests, ok := got["mediator_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, requests.DataPoints, 1)
	assert.Equal(t, int64(3), requests.DataPoints[0].Value)
	v, ok := requests.DataPoints[0].Attributes.Value("mediator.request")
	require.True(t, ok)
	assert.Equal(t, "Ping", v.AsString())

	failures, ok := got["mediator_request_failures_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)

	duration, ok := got["mediator_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(3), duration.DataPoints[0].Count)
}
