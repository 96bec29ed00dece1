// Package log provides a simple wrapper around logrus
// with a familiar API (Infof, Errorf, etc.) and request-id aware output.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"example.com/tripplanner/reqctx"
	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger = logrus.New()

// CustomFormatter formats entries as [<time>] [LEVEL] <message> [req:<id>]
type CustomFormatter struct {
	TimestampFormat string
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "[%s] ", entry.Time.Format(f.TimestampFormat))
	fmt.Fprintf(b, "[%s] ", strings.ToUpper(entry.Level.String()))
	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		if requestID, ok := entry.Data["request_id"].(string); ok && requestID != "" {
			fmt.Fprintf(b, " [req:%s]", requestID)
		}
		for key, value := range entry.Data {
			if key != "request_id" {
				fmt.Fprintf(b, " %s=%v", key, value)
			}
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// withRequestIDField attaches the request ID from the context, if any
func withRequestIDField(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return Logger.WithField("request_id", "")
	}
	return Logger.WithField("request_id", reqctx.RequestIDFromContext(ctx))
}

// Infof logs formatted message at info level
func Infof(ctx context.Context, format string, args ...interface{}) {
	withRequestIDField(ctx).Infof(format, args...)
}

// Info logs a message at info level
func Info(ctx context.Context, args ...interface{}) {
	withRequestIDField(ctx).Info(args...)
}

// Debugf logs formatted message at debug level
func Debugf(ctx context.Context, format string, args ...interface{}) {
	withRequestIDField(ctx).Debugf(format, args...)
}

// Debug logs a message at debug level
func Debug(ctx context.Context, args ...interface{}) {
	withRequestIDField(ctx).Debug(args...)
}

// Warnf logs formatted message at warning level
func Warnf(ctx context.Context, format string, args ...interface{}) {
	withRequestIDField(ctx).Warnf(format, args...)
}

// Warn logs a message at warning level
func Warn(ctx context.Context, args ...interface{}) {
	withRequestIDField(ctx).Warn(args...)
}

// Errorf logs formatted message at error level
func Errorf(ctx context.Context, format string, args ...interface{}) {
	withRequestIDField(ctx).Errorf(format, args...)
}

// Error logs a message at error level
func Error(ctx context.Context, args ...interface{}) {
	withRequestIDField(ctx).Error(args...)
}

// Fatalf logs formatted message at fatal level and exits
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	withRequestIDField(ctx).Fatalf(format, args...)
}

// SetLevel sets the global log level
func SetLevel(level logrus.Level) {
	Logger.SetLevel(level)
}

// SetOutput sets the global log output
func SetOutput(out io.Writer) {
	Logger.SetOutput(out)
}

// Init initializes the logger with default settings
func Init() {
	Logger.SetFormatter(&CustomFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// WithField creates a logger with a predefined field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}
