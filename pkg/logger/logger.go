package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Config holds logger configuration
type Config struct {
	Level  string
	Format string // "text" (default) or "json"
	Output io.Writer
}

// Logger represents a structured logger
type Logger struct {
	level     Level
	json      bool
	component string
	out       io.Writer
	logger    *log.Logger
}

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// New creates a new logger
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	return &Logger{
		level:  parseLevel(cfg.Level),
		json:   strings.EqualFold(cfg.Format, "json"),
		out:    output,
		logger: log.New(output, "", log.LstdFlags),
	}
}

// NewFile creates a logger appending to path, creating it if needed.
// The returned closer must be closed by the caller.
func NewFile(cfg Config, path string) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	cfg.Output = f
	return New(cfg), f, nil
}

// WithComponent creates a child logger with a component prefix
func (l *Logger) WithComponent(component string) *Logger {
	child := &Logger{
		level:     l.level,
		json:      l.json,
		component: component,
		out:       l.out,
	}
	if !l.json {
		child.logger = log.New(l.out, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	} else {
		child.logger = l.logger
	}
	return child
}

// Enabled reports whether messages at level would be written
func (l *Logger) Enabled(level Level) bool {
	return l.level <= level
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	if l.level <= DebugLevel {
		l.log(DebugLevel, msg, fields...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	if l.level <= InfoLevel {
		l.log(InfoLevel, msg, fields...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	if l.level <= WarnLevel {
		l.log(WarnLevel, msg, fields...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	if l.level <= ErrorLevel {
		l.log(ErrorLevel, msg, fields...)
	}
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if l.json {
		l.logJSON(level, msg, fields)
		return
	}

	if len(fields) == 0 {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}

	fieldStrs := make([]string, 0, len(fields))
	for _, f := range fields {
		fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}

	l.logger.Printf("[%s] %s %s", level, msg, strings.Join(fieldStrs, " "))
}

func (l *Logger) logJSON(level Level, msg string, fields []Field) {
	entry := make(map[string]interface{}, len(fields)+4)
	for _, f := range fields {
		entry[f.Key] = f.Value
	}
	entry["time"] = time.Now().Format(time.RFC3339)
	entry["level"] = strings.ToLower(level.String())
	entry["msg"] = msg
	if l.component != "" {
		entry["component"] = l.component
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"error","msg":"unencodable log entry: %s"}`, err))
	}
	_, _ = l.out.Write(append(data, '\n'))
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field constructors

// String creates a string field
func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

// Int creates an int field
func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

// Uint64 creates a uint64 field
func Uint64(key string, val uint64) Field {
	return Field{Key: key, Value: val}
}

// Bool creates a bool field
func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

// Float64 creates a float64 field
func Float64(key string, val float64) Field {
	return Field{Key: key, Value: val}
}

// Stringer creates a field rendered through String()
func Stringer(key string, val fmt.Stringer) Field {
	if val == nil {
		return Field{Key: key, Value: "nil"}
	}
	return Field{Key: key, Value: val.String()}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "nil"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any creates a field with any value
func Any(key string, val interface{}) Field {
	return Field{Key: key, Value: val}
}
