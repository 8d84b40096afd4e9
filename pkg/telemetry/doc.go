// Package telemetry bundles the observability stack of polyglot.
//
// # Components
//
//   - logging: slog loggers with context fields and literal redaction
//   - metrics: Prometheus translation and strategy metrics
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness and readiness endpoints for watch mode
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr, health.NewVersionInfo(version, commit, date))
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	opts := []translator.Option{
//		translator.WithLogger(tel.Logger()),
//		translator.WithObserver(tel.Metrics()),
//		translator.WithTracer(tel.Tracer().Tracer()),
//	}
package telemetry
