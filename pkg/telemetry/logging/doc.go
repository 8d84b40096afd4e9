// Package logging builds the structured loggers used across polyglot.
//
// Loggers are plain *slog.Logger values backed by a Handler that
//   - writes JSON, key=value text, or timestamp-free console output
//   - attaches request ID, target and source fields stored in the context
//     and the active OpenTelemetry trace and span IDs
//   - masks quoted literal text so user data in queries stays out of logs
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", RedactLiterals: true})
//	ctx = logging.WithRequestID(ctx, uuid.NewString())
//	ctx = logging.WithSource(ctx, "people.yaml")
//	logger.InfoContext(ctx, "translated", "translated", "g.V('marko')")
//	// {"level":"INFO","msg":"translated","request_id":"...","source":"people.yaml","translated":"g.V('***')"}
//
// Fields are attached only by the *Context logging methods.
package logging
