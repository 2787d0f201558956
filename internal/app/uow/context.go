package uow

import "context"

type currentKey struct{}

type deferrer interface {
	deferAfterCommit(fn func(context.Context) error)
}

func withCurrent(ctx context.Context, d deferrer) context.Context {
	return context.WithValue(ctx, currentKey{}, d)
}

// Defer queues fn on the unit of work whose handler is running in ctx.
// fn runs in AfterCommit, after the hooks registered with OnAfterCommit, and
// is dropped if the unit of work rolls back. Its error is logged. It reports
// false when ctx carries no running unit of work, leaving the caller to run
// fn itself.
func Defer(ctx context.Context, fn func(context.Context) error) bool {
	d, ok := ctx.Value(currentKey{}).(deferrer)
	if !ok {
		return false
	}
	d.deferAfterCommit(fn)
	return true
}
