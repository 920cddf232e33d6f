// Package logger provides context-scoped structured logging on top of
// logrus. Code logs through G(ctx); callers narrow the entry for a unit of
// work with With, so a page build logs every line with its page.
package logger

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// G is short for GetLogger.
	G = GetLogger
	// L is the global entry, used when the context carries none.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// Options configures the global logger.
type Options struct {
	Level  string // logrus level name; empty keeps the current level
	Format string // "fmt", "text" or "json"
	Output io.Writer
}

// Configure applies o to the global logger.
func Configure(o Options) error {
	if o.Level != "" {
		level, err := logrus.ParseLevel(o.Level)
		if err != nil {
			return err
		}
		L.Logger.SetLevel(level)
	}
	L.Logger.SetFormatter(formatter(o.Format))
	if o.Output != nil {
		L.Logger.SetOutput(o.Output)
	}
	return nil
}

// WithLogger attaches entry to ctx.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// With returns ctx carrying the entry of ctx extended with key=value.
func With(ctx context.Context, key string, value interface{}) context.Context {
	return WithLogger(ctx, G(ctx).WithField(key, value))
}

// GetLogger returns the entry attached to ctx, or L bound to ctx.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(formatter("fmt"))
	return l
}

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	}
	return &logrus.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
}
