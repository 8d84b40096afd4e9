package tracing

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Environment variables carrying W3C trace context into a CLI process, as
// set by CI systems and wrapper scripts.
const (
	EnvTraceParent = "TRACEPARENT"
	EnvTraceState  = "TRACESTATE"
)

// Propagator returns the global text map propagator.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// ExtractFromEnv returns ctx carrying the remote span context described by
// TRACEPARENT and TRACESTATE, so that a command's spans join the caller's
// trace. Missing or malformed values leave ctx unchanged.
func ExtractFromEnv(ctx context.Context) context.Context {
	return extractFromLookup(ctx, os.Getenv)
}

func extractFromLookup(ctx context.Context, getenv func(string) string) context.Context {
	tp := getenv(EnvTraceParent)
	if !ValidateTraceParent(tp) {
		return ctx
	}
	carrier := propagation.MapCarrier{"traceparent": tp}
	if ts := getenv(EnvTraceState); ts != "" {
		carrier["tracestate"] = ts
	}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}

// InjectToMap writes the trace context of ctx into carrier.
func InjectToMap(ctx context.Context, carrier map[string]string) {
	propagation.TraceContext{}.Inject(ctx, propagation.MapCarrier(carrier))
}

// ValidateTraceParent reports whether traceparent is a well-formed W3C
// traceparent value: version-trace_id-parent_id-trace_flags, for example
// 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01.
func ValidateTraceParent(traceparent string) bool {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return false
	}
	version, traceID, parentID, flags := parts[0], parts[1], parts[2], parts[3]

	if len(version) != 2 || !isHexString(version) || version == "ff" {
		return false
	}
	if len(traceID) != 32 || !isHexString(traceID) || traceID == strings.Repeat("0", 32) {
		return false
	}
	if len(parentID) != 16 || !isHexString(parentID) || parentID == strings.Repeat("0", 16) {
		return false
	}
	return len(flags) == 2 && isHexString(flags)
}

func isHexString(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
