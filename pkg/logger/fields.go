package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Float64 constructs a field with the given key and value
func Float64(key string, val float64) Field {
	return zap.Float64(key, val)
}

// Bool constructs a field with the given key and value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Time constructs a field with the given key and value
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// Any takes a key and an arbitrary value and chooses the best way to represent them
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// ByteString constructs a field that carries UTF-8 encoded text as a []byte
func ByteString(key string, val []byte) Field {
	return zap.ByteString(key, val)
}

// Stringer constructs a field with the given key and the output of the value's String method
func Stringer(key string, val fmt.Stringer) Field {
	return zap.Stringer(key, val)
}

// HTTP request fields

func RequestID(id string) Field     { return String("request_id", id) }
func TraceID(id string) Field       { return String(KeyTraceID, id) }
func SpanID(id string) Field        { return String(KeySpanID, id) }
func Method(method string) Field    { return String("method", method) }
func Path(path string) Field        { return String("path", path) }
func Route(route string) Field      { return String("route", route) }
func Query(q string) Field          { return String("query", q) }
func StatusCode(code int) Field     { return Int("status_code", code) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
func ClientIP(ip string) Field      { return String("client_ip", ip) }
func UserAgent(ua string) Field     { return String("user_agent", ua) }
func BodySize(size int) Field       { return Int("body_size", size) }

// Keys the OTEL bridge reads back out of log fields
const (
	KeyComponent = "component"
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
)

// Component constructs a field for component name
func Component(name string) Field {
	return String(KeyComponent, name)
}

// Operation constructs a field for operation name
func Operation(name string) Field {
	return String("operation", name)
}

// Dataset fields

// Source names where a dataset was read from (a storage key or "database")
func Source(name string) Field {
	return String("source", name)
}

// Commit constructs a field for a commit hash
func Commit(hash string) Field {
	return String("commit", hash)
}

// File constructs a field for a file path inside the analysed repository
func File(path string) Field {
	return String("file", path)
}

// Rows constructs a field for a row count
func Rows(n int) Field {
	return Int("rows", n)
}

// Skipped constructs a field for the number of rejected rows
func Skipped(n int) Field {
	return Int("skipped", n)
}

// Progress constructs a field for a timeline progress percentage
func Progress(p float64) Field {
	return Float64("progress", p)
}

// Fingerprint constructs a field for an SSH public key fingerprint
func Fingerprint(fp string) Field {
	return String("fingerprint", fp)
}
