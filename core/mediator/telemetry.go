package mediator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/dmitrymomot/mediator"

var requestAttrKey = attribute.Key("mediator.request")

// TracingBehavior wraps every request in a span named after the request type.
// Failed requests record the error and set the span status to Error.
//
// Example:
//
//	tracer := otel.Tracer("orders")
//	reg.RegisterOpenBehavior(mediator.TracingBehavior(tracer), mediator.WithOrder(-200))
func TracingBehavior(tracer trace.Tracer) OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		name := requestName(ctx, req)

		ctx, span := tracer.Start(ctx, "mediator.send "+name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(requestAttrKey.String(name)),
		)
		defer span.End()

		if id := RequestID(ctx); id != "" {
			span.SetAttributes(attribute.String("mediator.request_id", id))
		}

		resp, err := next(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		span.SetStatus(codes.Ok, "")
		return resp, nil
	})
}

// MetricsBehavior counts requests and failures and records request duration
// in seconds, labelled with the request type.
//
// Example:
//
//	b, err := mediator.MetricsBehavior(otel.GetMeterProvider())
//	if err != nil {
//	    return err
//	}
//	reg.RegisterOpenBehavior(b, mediator.WithOrder(-150))
func MetricsBehavior(mp metric.MeterProvider) (OpenBehavior, error) {
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter(
		"mediator_requests_total",
		metric.WithDescription("Total number of dispatched requests"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"mediator_request_failures_total",
		metric.WithDescription("Total number of requests that returned an error"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"mediator_request_duration_seconds",
		metric.WithDescription("Time taken to handle a request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		attrs := metric.WithAttributes(requestAttrKey.String(requestName(ctx, req)))
		start := time.Now()

		requests.Add(ctx, 1, attrs)
		resp, err := next(ctx, req)
		duration.Record(ctx, time.Since(start).Seconds(), attrs)

		if err != nil {
			failures.Add(ctx, 1, attrs)
		}
		return resp, err
	}), nil
}
