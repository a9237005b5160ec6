package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface used throughout the service.
// Callers may provide their own implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NoOpLogger discards all log messages. Useful for tests or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// CallLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. It is cheap to copy via the With* methods.
type CallLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	callID    string
	agentID   string
}

// LoggerConfig configures construction of a CallLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	CallID      string
	CustomAttrs map[string]any
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, CustomAttrs: map[string]any{}}
}

// NewLogger builds a CallLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *CallLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &CallLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]any{}, component: cfg.Component, callID: cfg.CallID}
}

// NewSlogLogger creates a new CallLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *CallLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *CallLogger) clone() *CallLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute attached to every log entry.
func (l *CallLogger) WithContext(key string, value any) *CallLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (agent, orchestrator, executor).
func (l *CallLogger) WithComponent(c string) *CallLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithCall attaches the call identifier.
func (l *CallLogger) WithCall(callID string) *CallLogger {
	nl := l.clone()
	nl.callID = callID
	return nl
}

// WithAgent attaches the agent identifier.
func (l *CallLogger) WithAgent(agentID string) *CallLogger {
	nl := l.clone()
	nl.agentID = agentID
	return nl
}

func (l *CallLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.callID != "" {
		attrs = append(attrs, slog.String("call_id", l.callID))
	}
	if l.agentID != "" {
		attrs = append(attrs, slog.String("agent_id", l.agentID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *CallLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	attrs := append(l.buildAttrs(), argsToAttrs(args)...)
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// argsToAttrs converts slog-style key/value pairs into attributes. Malformed
// pairs (non-string key, dangling value) are kept under a fallback key rather
// than dropped.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 < len(args) {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		} else {
			attrs = append(attrs, slog.Any("arg", args[i]))
		}
	}
	return attrs
}

// Debug logs at debug level.
func (l *CallLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *CallLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *CallLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *CallLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogAgentTurn records one agent invocation: which agent ran, the detected
// intent, the confidence of the result and the latency.
func (l *CallLogger) LogAgentTurn(agentID, intent string, confidence float64, dur time.Duration) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("agent_id", agentID),
		slog.String("intent", intent),
		slog.Float64("confidence", confidence),
		slog.Duration("duration", dur),
	)
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Agent turn completed", attrs...)
}

// LogEscalation records a deliberate hand-off to a human operator.
func (l *CallLogger) LogEscalation(agentID, reason, department string) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("agent_id", agentID),
		slog.String("reason", reason),
		slog.String("department", department),
	)
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, "Call escalated to human operator", attrs...)
}

// LogCallEvent records a call lifecycle transition.
func (l *CallLogger) LogCallEvent(callID, event, state string) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("call_id", callID),
		slog.String("event", event),
		slog.String("state", state),
	)
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Call event", attrs...)
}

// LogActionExecution records the outcome of one executed agent action.
func (l *CallLogger) LogActionExecution(actionType string, priority int, success bool, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("action_type", actionType),
		slog.Int("priority", priority),
		slog.Bool("success", success),
	)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Action executed"
	if !success {
		level = slog.LevelError
		msg = "Action execution failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// StartTimer returns a closure that logs the elapsed duration when invoked.
func (l *CallLogger) StartTimer(op string) func() {
	start := time.Now()
	return func() { l.Info("Operation completed", "operation", op, "duration", time.Since(start)) }
}
