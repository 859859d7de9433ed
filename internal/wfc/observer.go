package wfc

import "context"

// Observer receives solver progress. Collapsed fires once per observation,
// so implementations must be cheap. A single Observer may be shared by
// solvers running in parallel and must then be safe for concurrent use.
type Observer interface {
	// SolveStarted returns the context passed to the remaining callbacks of this solve
	SolveStarted(ctx context.Context, width, height, patterns int) context.Context
	AttemptStarted(ctx context.Context, attempt int)
	Collapsed(ctx context.Context, x, y, pattern int)
	Contradicted(ctx context.Context, attempt, x, y int)
	// SolveFinished receives the number of attempts made and the final error, if any
	SolveFinished(ctx context.Context, attempts int, err error)
}

// NopObserver ignores every event. Embed it to implement a subset of Observer
type NopObserver struct{}

func (NopObserver) SolveStarted(ctx context.Context, _, _, _ int) context.Context { return ctx }
func (NopObserver) AttemptStarted(context.Context, int)                           {}
func (NopObserver) Collapsed(context.Context, int, int, int)                      {}
func (NopObserver) Contradicted(context.Context, int, int, int)                   {}
func (NopObserver) SolveFinished(context.Context, int, error)                     {}

// Observers fans events out to every non-nil observer in order
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return NopObserver{}
	case 1:
		return list[0]
	default:
		return list
	}
}

type multiObserver []Observer

func (m multiObserver) SolveStarted(ctx context.Context, width, height, patterns int) context.Context {
	for _, o := range m {
		ctx = o.SolveStarted(ctx, width, height, patterns)
	}
	return ctx
}

func (m multiObserver) AttemptStarted(ctx context.Context, attempt int) {
	for _, o := range m {
		o.AttemptStarted(ctx, attempt)
	}
}

func (m multiObserver) Collapsed(ctx context.Context, x, y, pattern int) {
	for _, o := range m {
		o.Collapsed(ctx, x, y, pattern)
	}
}

func (m multiObserver) Contradicted(ctx context.Context, attempt, x, y int) {
	for _, o := range m {
		o.Contradicted(ctx, attempt, x, y)
	}
}

func (m multiObserver) SolveFinished(ctx context.Context, attempts int, err error) {
	for _, o := range m {
		o.SolveFinished(ctx, attempts, err)
	}
}
