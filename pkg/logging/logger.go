package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		enc:    jsonEncoder{},
		level:  level,
		fields: make([]Field, 0),
		mu:     &sync.Mutex{},
	}
}

// NewConsoleLogger creates a logger that writes styled key=value lines
func NewConsoleLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		enc:    newConsoleEncoder(),
		level:  level,
		fields: make([]Field, 0),
		mu:     &sync.Mutex{},
	}
}

// New creates a logger for the given format
func New(writer io.Writer, level Level, format Format) *JSONLogger {
	if format == FormatConsole {
		return NewConsoleLogger(writer, level)
	}
	return NewJSONLogger(writer, level)
}

// log is the internal logging method
func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	// Build field map
	fieldMap := make(map[string]any)

	// Add pre-set fields
	for _, f := range l.fields {
		fieldMap[f.Key] = f.Value
	}

	// Add new fields
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}

	// Only include fields if there are any
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	data, err := l.enc.encode(entry)
	if err != nil {
		// Fallback to simple text logging if encoding fails
		fmt.Fprintf(l.writer, "[ERROR] Failed to encode log entry: %v\n", err)
		return
	}

	l.writer.Write(append(data, '\n'))
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set. Children share the
// parent's writer lock so lines from concurrent workers never interleave.
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Create a copy of existing fields
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JSONLogger{
		writer: l.writer,
		enc:    l.enc,
		level:  l.level,
		fields: newFields,
		mu:     l.mu,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

type jsonEncoder struct{}

func (jsonEncoder) encode(entry LogEntry) ([]byte, error) {
	return json.Marshal(entry)
}

type consoleEncoder struct {
	levels map[string]lipgloss.Style
	key    lipgloss.Style
	time   lipgloss.Style
}

func newConsoleEncoder() consoleEncoder {
	return consoleEncoder{
		levels: map[string]lipgloss.Style{
			DebugLevel.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			InfoLevel.String():  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			WarnLevel.String():  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			ErrorLevel.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		key:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		time: lipgloss.NewStyle().Faint(true),
	}
}

func (c consoleEncoder) encode(entry LogEntry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(c.time.Render(entry.Time))
	b.WriteByte(' ')
	b.WriteString(c.levels[entry.Level].Render(fmt.Sprintf("%-5s", entry.Level)))
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	// Sorted keys keep console lines stable between runs
	for _, k := range slices.Sorted(maps.Keys(entry.Fields)) {
		fmt.Fprintf(&b, " %s=%v", c.key.Render(k), entry.Fields[k])
	}
	return []byte(b.String()), nil
}

// Global default logger
var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
	once          sync.Once
)

// DefaultLogger returns the global default logger
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
			level = ParseLevel(levelStr)
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stderr, level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger sets the global default logger and returns the one it replaces
func SetDefaultLogger(logger Logger) (previous Logger) {
	previous = DefaultLogger()
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
	return previous
}

// ErrorLog logs an error-level message using the default logger
// Named ErrorLog to avoid conflict with Error field constructor
func ErrorLog(msg string, fields ...Field) {
	DefaultLogger().Error(msg, fields...)
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the operation started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation with its duration
func (t *TimedOperation) End(fields ...Field) {
	t.logger.Info(t.msg, t.collect(fields)...)
}

// EndWithLevel logs the operation at the specified level with its duration
func (t *TimedOperation) EndWithLevel(level Level, msg string, fields ...Field) {
	all := t.collect(fields)
	switch level {
	case DebugLevel:
		t.logger.Debug(msg, all...)
	case InfoLevel:
		t.logger.Info(msg, all...)
	case WarnLevel:
		t.logger.Warn(msg, all...)
	case ErrorLevel:
		t.logger.Error(msg, all...)
	}
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, t.collect([]Field{Error(err)})...)
}

func (t *TimedOperation) collect(extra []Field) []Field {
	all := make([]Field, 0, len(t.fields)+len(extra)+1)
	all = append(all, t.fields...)
	all = append(all, extra...)
	return append(all, Latency(time.Since(t.start)))
}
