package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w at the given level name
func NewWithWriter(w io.Writer, levelName string) *Logger {
	level := getLogLevel(levelName)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text output is easier to read while developing
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler).With(slog.String("service", "antesala")),
	}
}

// Discard returns a logger that drops everything, handy in tests
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithComponent tags every record with the emitting component
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", name)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request. The level follows the response status.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	status := c.Writer.Status()
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	l.Logger.Log(c.Request.Context(), level,
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", c.GetString("request_id")),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogReservationSaved logs when a reservation is committed to the list
func (l *Logger) LogReservationSaved(ctx context.Context, reservationID, eventDate, totalCost string) {
	l.Logger.InfoContext(ctx,
		"Reservation Saved",
		slog.String("reservation_id", reservationID),
		slog.String("event_date", eventDate),
		slog.String("total_cost", totalCost),
	)
}

// LogReservationRemoved logs a delete, or the removal half of an edit
func (l *Logger) LogReservationRemoved(ctx context.Context, reservationID, reason string) {
	l.Logger.InfoContext(ctx,
		"Reservation Removed",
		slog.String("reservation_id", reservationID),
		slog.String("reason", reason),
	)
}

// LogDepositToggled logs a deposit status flip
func (l *Logger) LogDepositToggled(ctx context.Context, reservationID string, paid bool) {
	l.Logger.InfoContext(ctx,
		"Deposit Toggled",
		slog.String("reservation_id", reservationID),
		slog.Bool("deposit_paid", paid),
	)
}

// LogPersistenceFallback logs a remote write that landed in the local store instead
func (l *Logger) LogPersistenceFallback(ctx context.Context, backend string, err error) {
	l.Logger.WarnContext(ctx,
		"Persistence Fallback",
		slog.String("backend", backend),
		slog.String("error", err.Error()),
	)
}

// LogChangefeedReplace logs a full-list replace pushed by another instance
func (l *Logger) LogChangefeedReplace(ctx context.Context, origin string, count int) {
	l.Logger.InfoContext(ctx,
		"Reservations Replaced From Changefeed",
		slog.String("origin", origin),
		slog.Int("count", count),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
