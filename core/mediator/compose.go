package mediator

import "context"

// Compose folds behaviors around terminal, right to left, so behaviors[0]
// becomes the outermost wrapper. An empty list returns terminal unchanged.
//
// Example:
//
//	next := mediator.Compose([]mediator.Behavior[Ping, string]{logging, auth}, handler.Handle)
//	resp, err := next(ctx, Ping{Text: "hi"})
//
// Execution order: logging -> auth -> handler
func Compose[TReq, TResp any](behaviors []Behavior[TReq, TResp], terminal Next[TReq, TResp]) Next[TReq, TResp] {
	if len(behaviors) == 0 {
		return terminal
	}

	next := terminal
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, inner := behaviors[i], next
		next = func(ctx context.Context, req TReq) (TResp, error) {
			return b.Handle(ctx, req, inner)
		}
	}
	return next
}

// ComposeVoid is Compose for void pipelines. Behaviors are adapted to the
// Unit-returning shape and the Unit is discarded on the way out.
// An empty list returns terminal unchanged.
func ComposeVoid[TReq any](behaviors []VoidBehavior[TReq], terminal VoidNext[TReq]) VoidNext[TReq] {
	if len(behaviors) == 0 {
		return terminal
	}

	unified := make([]Behavior[TReq, Unit], len(behaviors))
	for i, b := range behaviors {
		unified[i] = AsUnified(b)
	}
	return discardUnit(Compose(unified, unitTerminal(terminal)))
}

func unitTerminal[TReq any](terminal VoidNext[TReq]) Next[TReq, Unit] {
	return func(ctx context.Context, req TReq) (Unit, error) {
		return Unit{}, terminal(ctx, req)
	}
}

func discardUnit[TReq any](next Next[TReq, Unit]) VoidNext[TReq] {
	return func(ctx context.Context, req TReq) error {
		_, err := next(ctx, req)
		return err
	}
}
