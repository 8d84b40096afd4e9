// Package tracing sets up OpenTelemetry tracing for polyglot.
//
// Tracing is off by default and New then returns a noop tracer. When
// enabled, spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    sample_ratio: 0.5
//
// Spans produced:
//
//	polyglot.<command>        one per CLI invocation
//	batch.run / batch.job     batch mode
//	watch.process             one per changed file in watch mode
//	translator.translate      one per target
//	strategy.construct        one per strategy construction
//
// A command started with TRACEPARENT in its environment joins that trace
// (see ExtractFromEnv).
package tracing
