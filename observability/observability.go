// Package observability holds the logging and metrics hooks used while
// building and drawing tables. Everything defaults to a no-op.
package observability

// Logger is a leveled, structured logger. With returns a logger that adds
// fields to every entry.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log entry.
type Field interface {
	Key() string
	Value() interface{}
}

type field struct {
	key string
	val interface{}
}

func (f field) Key() string        { return f.key }
func (f field) Value() interface{} { return f.val }

func String(key, value string) Field          { return field{key, value} }
func Int(key string, value int) Field         { return field{key, value} }
func Float64(key string, value float64) Field { return field{key, value} }
func Bool(key string, value bool) Field       { return field{key, value} }

// Error attaches err. A nil error is logged as a nil value.
func Error(key string, err error) Field { return field{key, err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Metric names exported by the Prometheus implementation.
const (
	MetricPages        = "pdftable_pages_total"
	MetricRows         = "pdftable_rows_total"
	MetricDrawDuration = "pdftable_draw_duration_seconds"
	MetricImportTime   = "pdftable_import_duration_seconds"
)
