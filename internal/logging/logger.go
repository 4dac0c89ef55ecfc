package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel maps a user-supplied level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger provides structured logging with context support. Formatting
// requests carry a request ID in their context which is attached to every
// entry logged during the request.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, err error, fields ...Field)
	WithFields(fields ...Field) Logger
}

// NoOp discards all log entries.
type NoOp struct{}

func (NoOp) Debug(context.Context, string, ...Field)        {}
func (NoOp) Info(context.Context, string, ...Field)         {}
func (NoOp) Warn(context.Context, string, ...Field)         {}
func (NoOp) Error(context.Context, string, error, ...Field) {}
func (n NoOp) WithFields(...Field) Logger                   { return n }

// Std writes timestamped structured lines to a writer.
type Std struct {
	fields   []Field
	minLevel Level
	logger   *log.Logger
}

// NewStd creates a logger filtering below minLevel. A nil writer discards
// everything.
func NewStd(minLevel Level, w io.Writer) *Std {
	if w == nil {
		w = io.Discard
	}
	return &Std{minLevel: minLevel, logger: log.New(w, "", 0)}
}

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

func (s *Std) write(ctx context.Context, level Level, msg string, err error, fields []Field) {
	if levelRank[level] < levelRank[s.minLevel] {
		return
	}

	all := append(append([]Field{}, s.fields...), fields...)
	if id := RequestID(ctx); id != "" {
		all = append(all, F("request_id", id))
	}

	parts := []string{
		fmt.Sprintf("[%s]", time.Now().Format(time.RFC3339)),
		fmt.Sprintf("[%s]", level),
	}
	if err != nil {
		parts = append(parts, fmt.Sprintf("[error=%q]", err.Error()))
	}
	parts = append(parts, msg)
	if len(all) > 0 {
		kv := make([]string, 0, len(all))
		for _, f := range all {
			kv = append(kv, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(kv, " ")))
	}
	s.logger.Println(strings.Join(parts, " "))
}

func (s *Std) Debug(ctx context.Context, msg string, fields ...Field) {
	s.write(ctx, LevelDebug, msg, nil, fields)
}

func (s *Std) Info(ctx context.Context, msg string, fields ...Field) {
	s.write(ctx, LevelInfo, msg, nil, fields)
}

func (s *Std) Warn(ctx context.Context, msg string, fields ...Field) {
	s.write(ctx, LevelWarn, msg, nil, fields)
}

func (s *Std) Error(ctx context.Context, msg string, err error, fields ...Field) {
	s.write(ctx, LevelError, msg, err, fields)
}

func (s *Std) WithFields(fields ...Field) Logger {
	return &Std{
		fields:   append(append([]Field{}, s.fields...), fields...),
		minLevel: s.minLevel,
		logger:   s.logger,
	}
}

type requestIDKey struct{}

// WithRequestID attaches a formatting-request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID extracts the formatting-request ID from the context, if present.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
