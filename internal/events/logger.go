package events

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Lorandel/Warehouse-Ramps/internal/config"
)

// LogLevel represents logging severity.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger provides structured logging.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	format string
	color  bool
	output io.Writer
	fields map[string]interface{}
}

// NewLogger creates a logger from config.
func NewLogger(cfg *config.LogConfig) (*Logger, error) {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
	}

	return &Logger{
		level:  level,
		format: cfg.Format,
		color:  cfg.Color && cfg.File == "",
		output: output,
		fields: make(map[string]interface{}),
	}, nil
}

// NewTestLogger creates a logger for testing.
func NewTestLogger(level LogLevel, format string, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
		fields: make(map[string]interface{}),
	}
}

// WithField returns a logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &Logger{
		level:  l.level,
		format: l.format,
		color:  l.color,
		output: l.output,
		fields: newFields,
	}
}

// WithError adds an error field.
func (l *Logger) WithError(err error) *Logger {
	return l.WithField("error", err.Error())
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) {
	l.log(DebugLevel, msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string) {
	l.log(InfoLevel, msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string) {
	l.log(WarnLevel, msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string) {
	l.log(ErrorLevel, msg)
}

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().UTC().Format(time.RFC3339Nano)

	if l.format == "json" {
		l.writeJSON(ts, level, msg)
	} else {
		l.writeText(ts, level, msg)
	}
}

// writeJSON outputs one JSON object per line. Fields are emitted in a
// stable order so log output is diffable.
func (l *Logger) writeJSON(ts string, level LogLevel, msg string) {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(fmt.Sprintf(`"time":"%s","level":"%s","msg":"%s"`,
		ts, levelString(level), escapeJSON(msg)))

	for _, k := range sortedKeys(l.fields) {
		sb.WriteString(fmt.Sprintf(`,"%s":`, escapeJSON(k)))

		switch val := l.fields[k].(type) {
		case string:
			sb.WriteString(fmt.Sprintf(`"%s"`, escapeJSON(val)))
		case int, int64, float64, bool:
			sb.WriteString(fmt.Sprintf("%v", val))
		default:
			sb.WriteString(fmt.Sprintf(`"%s"`, escapeJSON(fmt.Sprintf("%v", val))))
		}
	}

	sb.WriteString("}\n")
	_, _ = l.output.Write([]byte(sb.String()))
}

// writeText outputs human-readable format: TIME [LEVEL] Message key=value.
func (l *Logger) writeText(ts string, level LogLevel, msg string) {
	levelStr := strings.ToUpper(levelString(level))

	var levelColor, reset string
	if l.color {
		reset = "\033[0m"
		switch level {
		case DebugLevel:
			levelColor = "\033[36m"
		case InfoLevel:
			levelColor = "\033[32m"
		case WarnLevel:
			levelColor = "\033[33m"
		case ErrorLevel:
			levelColor = "\033[31m"
		}
	}

	fmt.Fprintf(l.output, "%s %s[%s]%s %s", ts, levelColor, levelStr, reset, msg)

	for _, k := range sortedKeys(l.fields) {
		fmt.Fprintf(l.output, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintln(l.output)
}

// Helper functions

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func levelString(l LogLevel) string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

func escapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
