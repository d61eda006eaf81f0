package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards everything until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger installs the production JSON logger. With a non-empty
// outputPath logs go to that file instead of stderr, which keeps a terminal
// UI clean.
func InitLogger(outputPath string) error {
	cfg := zap.NewProductionConfig()
	if outputPath != "" {
		cfg.OutputPaths = []string{outputPath}
		cfg.ErrorOutputPaths = []string{outputPath}
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Logger = l
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself rides along as zap.Any("context", ctx): the otelzap bridge
// treats a context-valued field as the context for log.Logger.Emit, so
// exported OTLP records carry the native TraceID/SpanID. The string fields
// keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
