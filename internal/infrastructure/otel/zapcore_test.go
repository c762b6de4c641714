package otel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bravo68web/folio/pkg/logger"
)

// emitted is one record as the bridge handed it over
type emitted struct {
	scope string
	body  string
	attrs map[string]log.Value
	span  trace.SpanContext
}

type recordingProvider struct {
	embedded.LoggerProvider
	records *[]emitted
}

func (p recordingProvider) Logger(name string, _ ...log.LoggerOption) log.Logger {
	return recordingLogger{scope: name, records: p.records}
}

type recordingLogger struct {
	embedded.Logger
	scope   string
	records *[]emitted
}

func (l recordingLogger) Emit(ctx context.Context, r log.Record) {
	e := emitted{
		scope: l.scope,
		body:  r.Body().AsString(),
		attrs: make(map[string]log.Value),
		span:  trace.SpanContextFromContext(ctx),
	}
	r.WalkAttributes(func(kv log.KeyValue) bool {
		e.attrs[kv.Key] = kv.Value
		return true
	})
	*l.records = append(*l.records, e)
}

func (l recordingLogger) Enabled(context.Context, log.EnabledParameters) bool { return true }

func newRecordingCore() (*ZapCore, *[]emitted) {
	var records []emitted
	return newZapCore(recordingProvider{records: &records}, "folio", zapcore.DebugLevel), &records
}

func TestZapFieldToOTELAttribute(t *testing.T) {
	t.Parallel()

	kv := zapFieldToOTELAttribute(zap.Float64("progress", 42.5))
	assert.Equal(t, log.KindFloat64, kv.Value.Kind())
	assert.InDelta(t, 42.5, kv.Value.AsFloat64(), 1e-9)

	kv = zapFieldToOTELAttribute(zap.Float32("ratio", 0.25))
	assert.InDelta(t, 0.25, kv.Value.AsFloat64(), 1e-9)

	kv = zapFieldToOTELAttribute(zap.Int("rows", 7))
	assert.Equal(t, int64(7), kv.Value.AsInt64())

	kv = zapFieldToOTELAttribute(zap.Bool("ok", true))
	assert.True(t, kv.Value.AsBool())

	kv = zapFieldToOTELAttribute(zap.Duration("latency", 1500*time.Millisecond))
	assert.Equal(t, "1.5s", kv.Value.AsString())

	kv = zapFieldToOTELAttribute(zap.Error(errors.New("boom")))
	assert.Equal(t, "error", kv.Key)
	assert.Equal(t, "boom", kv.Value.AsString())

	at := time.Date(2024, 1, 2, 14, 30, 0, 0, time.FixedZone("PST", -8*3600))
	kv = zapFieldToOTELAttribute(zap.Time("cutoff", at))
	assert.Equal(t, "2024-01-02T14:30:00-08:00", kv.Value.AsString())

	kv = zapFieldToOTELAttribute(zap.Skip())
	assert.Empty(t, kv.Key)
}

func TestZapLevelToOTELSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, log.SeverityDebug, zapLevelToOTELSeverity(zapcore.DebugLevel))
	assert.Equal(t, log.SeverityWarn, zapLevelToOTELSeverity(zapcore.WarnLevel))
	assert.Equal(t, log.SeverityFatal, zapLevelToOTELSeverity(zapcore.FatalLevel))
}

func TestZapCoreScopesByComponent(t *testing.T) {
	t.Parallel()

	core, records := newRecordingCore()
	zl := zap.New(core)

	zl.Info("startup")
	zl.With(logger.Component("meta")).Info("Commit log loaded", logger.Rows(3))

	require.Len(t, *records, 2)
	assert.Equal(t, "folio", (*records)[0].scope)

	loaded := (*records)[1]
	assert.Equal(t, "folio/meta", loaded.scope)
	assert.Equal(t, "Commit log loaded", loaded.body)
	assert.Equal(t, int64(3), loaded.attrs["rows"].AsInt64())
	assert.Equal(t, "meta", loaded.attrs[logger.KeyComponent].AsString())
}

func TestZapCoreCarriesTraceContext(t *testing.T) {
	t.Parallel()

	core, records := newRecordingCore()
	zl := zap.New(core)

	const traceID, spanID = "4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7"
	zl.With(logger.TraceID(traceID), logger.SpanID(spanID)).Info("GET /meta/")
	zl.With(logger.TraceID("nope")).Info("bad ids")

	require.Len(t, *records, 2)

	traced := (*records)[0]
	require.True(t, traced.span.IsValid())
	assert.Equal(t, traceID, traced.span.TraceID().String())
	assert.Equal(t, spanID, traced.span.SpanID().String())
	assert.NotContains(t, traced.attrs, logger.KeyTraceID)

	untraced := (*records)[1]
	assert.False(t, untraced.span.IsValid())
	assert.Equal(t, "nope", untraced.attrs[logger.KeyTraceID].AsString())
}

func TestZapCoreNamespacesPrefixKeys(t *testing.T) {
	t.Parallel()

	core, records := newRecordingCore()
	zap.New(core).Info("reload", zap.Namespace("dataset"), zap.Int("commits", 2))

	require.Len(t, *records, 1)
	assert.Equal(t, int64(2), (*records)[0].attrs["dataset.commits"].AsInt64())
}
