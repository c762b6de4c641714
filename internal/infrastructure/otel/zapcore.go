package otel

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"

	"github.com/bravo68web/folio/pkg/logger"
)

// ZapCore is a zapcore.Core that sends logs to OpenTelemetry. Loggers built
// with a component field emit under their own instrumentation scope, and
// trace_id/span_id fields become the record's trace context.
type ZapCore struct {
	zapcore.LevelEnabler
	provider *Provider // flushed on Sync; nil when built from a bare LoggerProvider
	loggers  log.LoggerProvider
	service  string
	logger   log.Logger
	fields   []zapcore.Field
}

// NewZapCore creates a new ZapCore that exports logs to OTEL
func NewZapCore(provider *Provider, level zapcore.Level) *ZapCore {
	c := newZapCore(provider.LoggerProvider(), provider.Config().ServiceName, level)
	c.provider = provider
	return c
}

func newZapCore(loggers log.LoggerProvider, service string, level zapcore.LevelEnabler) *ZapCore {
	return &ZapCore{
		LevelEnabler: level,
		loggers:      loggers,
		service:      service,
		logger:       loggers.Logger(service),
	}
}

// scopeName is the instrumentation scope of a component's logs
func (c *ZapCore) scopeName(component string) string {
	return c.service + "/" + component
}

// With creates a new ZapCore with additional fields
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(slices.Clone(c.fields), fields...)

	for _, f := range fields {
		if f.Key == logger.KeyComponent && f.Type == zapcore.StringType {
			clone.logger = c.loggers.Logger(c.scopeName(f.String))
		}
	}
	return &clone
}

// Check implements zapcore.Core
func (c *ZapCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write implements zapcore.Core
func (c *ZapCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	record := log.Record{}
	record.SetTimestamp(entry.Time)
	record.SetSeverity(zapLevelToOTELSeverity(entry.Level))
	record.SetSeverityText(entry.Level.String())
	record.SetBody(log.StringValue(entry.Message))

	attrs := make([]log.KeyValue, 0, len(all)+4)
	if entry.Caller.Defined {
		attrs = append(attrs,
			log.String("caller", entry.Caller.TrimmedPath()),
			log.Int("caller_line", entry.Caller.Line),
			log.String("caller_function", entry.Caller.Function),
		)
	}
	if entry.LoggerName != "" {
		attrs = append(attrs, log.String("logger", entry.LoggerName))
	}
	if entry.Stack != "" {
		attrs = append(attrs, log.String("stacktrace", entry.Stack))
	}

	var traceID, spanID string
	// namespaces prefix the keys of every field that follows them
	prefix := ""
	for _, field := range all {
		switch {
		case field.Type == zapcore.NamespaceType:
			prefix += field.Key + "."
			continue
		case prefix == "" && field.Key == logger.KeyTraceID:
			traceID = field.String
			continue
		case prefix == "" && field.Key == logger.KeySpanID:
			spanID = field.String
			continue
		}
		if attr := zapFieldToOTELAttribute(field); attr.Key != "" {
			attr.Key = prefix + attr.Key
			attrs = append(attrs, attr)
		}
	}
	record.AddAttributes(attrs...)

	ctx := context.Background()
	if sc, ok := spanContext(traceID, spanID); ok {
		ctx = trace.ContextWithSpanContext(ctx, sc)
	} else {
		// ids that do not parse are kept as plain attributes
		if traceID != "" {
			record.AddAttributes(log.String(logger.KeyTraceID, traceID))
		}
		if spanID != "" {
			record.AddAttributes(log.String(logger.KeySpanID, spanID))
		}
	}

	c.logger.Emit(ctx, record)
	return nil
}

// spanContext rebuilds the span context that logger.WithContext flattened
// into hex fields
func spanContext(traceID, spanID string) (trace.SpanContext, bool) {
	tid, err := trace.TraceIDFromHex(traceID)
	if err != nil {
		return trace.SpanContext{}, false
	}
	sid, err := trace.SpanIDFromHex(spanID)
	if err != nil {
		return trace.SpanContext{}, false
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return sc, sc.IsValid()
}

// Sync implements zapcore.Core
func (c *ZapCore) Sync() error {
	if c.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.provider.ForceFlush(ctx)
}

// Provider returns the underlying OTEL provider
func (c *ZapCore) Provider() *Provider {
	return c.provider
}

// zapLevelToOTELSeverity converts zap log level to OTEL severity
func zapLevelToOTELSeverity(level zapcore.Level) log.Severity {
	switch level {
	case zapcore.DebugLevel:
		return log.SeverityDebug
	case zapcore.InfoLevel:
		return log.SeverityInfo
	case zapcore.WarnLevel:
		return log.SeverityWarn
	case zapcore.ErrorLevel:
		return log.SeverityError
	case zapcore.DPanicLevel:
		return log.SeverityError
	case zapcore.PanicLevel:
		return log.SeverityFatal
	case zapcore.FatalLevel:
		return log.SeverityFatal
	default:
		return log.SeverityInfo
	}
}

// zapFieldToOTELAttribute converts a zap field to an OTEL attribute
func zapFieldToOTELAttribute(field zapcore.Field) log.KeyValue {
	switch field.Type {
	case zapcore.BoolType:
		return log.Bool(field.Key, field.Integer == 1)

	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return log.Int64(field.Key, field.Integer)

	case zapcore.Uint64Type:
		if uint64(field.Integer) > math.MaxInt64 {
			return log.String(field.Key, fmt.Sprintf("%d", uint64(field.Integer)))
		}
		return log.Int64(field.Key, field.Integer)

	case zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return log.Int64(field.Key, field.Integer)

	case zapcore.Float64Type:
		return log.Float64(field.Key, math.Float64frombits(uint64(field.Integer)))

	case zapcore.Float32Type:
		return log.Float64(field.Key, float64(math.Float32frombits(uint32(field.Integer))))

	case zapcore.StringType:
		return log.String(field.Key, field.String)

	case zapcore.TimeType:
		// zap stores the instant as unix nanos and the zone in Interface
		t := time.Unix(0, field.Integer)
		if loc, ok := field.Interface.(*time.Location); ok {
			t = t.In(loc)
		}
		return log.String(field.Key, t.Format(time.RFC3339Nano))

	case zapcore.TimeFullType:
		if t, ok := field.Interface.(time.Time); ok {
			return log.String(field.Key, t.Format(time.RFC3339Nano))
		}
		return log.KeyValue{}

	case zapcore.DurationType:
		return log.String(field.Key, time.Duration(field.Integer).String())

	case zapcore.ErrorType:
		if field.Interface != nil {
			if err, ok := field.Interface.(error); ok {
				return log.String(field.Key, err.Error())
			}
		}
		return log.KeyValue{}

	case zapcore.StringerType:
		if field.Interface != nil {
			if s, ok := field.Interface.(fmt.Stringer); ok {
				return log.String(field.Key, s.String())
			}
		}
		return log.KeyValue{}

	case zapcore.BinaryType:
		if field.Interface != nil {
			if b, ok := field.Interface.([]byte); ok {
				return log.Bytes(field.Key, b)
			}
		}
		return log.KeyValue{}

	case zapcore.ByteStringType:
		if field.Interface != nil {
			if b, ok := field.Interface.([]byte); ok {
				return log.String(field.Key, string(b))
			}
		}
		return log.KeyValue{}

	case zapcore.SkipType:
		return log.KeyValue{}

	default:
		if field.Interface != nil {
			return log.String(field.Key, fmt.Sprintf("%v", field.Interface))
		}
		return log.KeyValue{}
	}
}

// NewCombinedCore tees a local core with the OTEL bridge
func NewCombinedCore(localCore zapcore.Core, provider *Provider, level zapcore.Level) zapcore.Core {
	return zapcore.NewTee(localCore, NewZapCore(provider, level))
}

var _ zapcore.Core = (*ZapCore)(nil)
