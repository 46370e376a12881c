// Package middleware provides the HTTP middleware stack for the console
// server.
//
// This package includes:
//   - Prometheus metrics for requests, route resolutions and navigation
//     sessions
//   - OpenTelemetry tracing for requests and resolutions
//   - slog request logging
//
// # Prometheus Metrics
//
// Metrics are registered on a caller-supplied registry so tests and
// embedded servers do not collide on the default one:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	resolver, _ := console.NewResolver(router.WithObserver(m.Observer()))
//
// # OpenTelemetry
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure the provider in main() before starting the server.
//
//	t := middleware.NewTracing(middleware.WithTracerName("hkt"))
//	r.Use(t.Handler)
package middleware
