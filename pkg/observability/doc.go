/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log lines.

Both are delivered as domain.LifecycleHooks, so they can be merged and
passed to lectern.WithLifecycleHooks:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	wb, _ := lectern.New(ctx, lectern.WithLifecycleHooks(hooks))
*/
package observability
