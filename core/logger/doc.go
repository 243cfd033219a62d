// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers a small logger factory with environment presets, context-aware
// attribute extraction, and attribute helpers for the mediator's dispatch and
// publish paths.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/mediator/core/logger"
//
//	// Development: text format, debug level, source locations
//	log := logger.New(logger.WithDevelopment("billing"))
//
//	// Production: JSON format, info level
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("mediator ready",
//		logger.Component("mediator"),
//		logger.Strategy("parallel"),
//	)
//
// Libraries in this module default to Discard() when no logger is injected.
//
// # Context Extraction
//
// Records logged through the *Context methods can be enriched from the context:
//
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := mediator.RequestID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// passed unconditionally:
//
//	log.ErrorContext(ctx, "notification handler failed",
//		logger.Handler(name),
//		logger.Notification("OrderPlaced"),
//		logger.Error(err),
//	)
//
//	log.InfoContext(ctx, "request completed",
//		logger.Request("CreateOrder"),
//		logger.Duration(time.Since(start)),
//	)
package logger
