package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments, and exposes the session store to Prometheus.
func initMetrics(ctx context.Context, store *calculator.Store) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	if err := observability.RegisterCollectors(store.Collector()); err != nil {
		return nil, err
	}

	return shutdown, nil
}
