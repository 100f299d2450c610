package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicContextKey is the context key holding the *newrelic.Application.
type NewRelicContextKey struct{}

// NewContext returns a context carrying app for custom metrics and events.
// A nil app returns ctx unchanged.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	if app == nil {
		return ctx
	}
	return context.WithValue(ctx, NewRelicContextKey{}, app)
}

// StartTransaction starts a New Relic transaction for a unit of background
// work, such as a scenario run, and returns a context carrying it. When no
// application is configured the returned transaction is nil, which is safe
// to End.
func StartTransaction(ctx context.Context, name string) (context.Context, *newrelic.Transaction) {
	app := appFromContext(ctx)
	if app == nil {
		return ctx, nil
	}

	txn := app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), txn
}
