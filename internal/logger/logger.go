package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var (
	ErrLoggerInvalidLogLevel  = errors.New("invalid log level")
	ErrLoggerInvalidLogFormat = errors.New("invalid log format")
)

type options struct {
	out   io.Writer
	attrs []any
}

type Option func(o *options)

func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.out = out
	}
}

// WithAttrs adds attributes to every record written by the logger, e.g. host and version.
func WithAttrs(attrs ...any) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

func NewLogger(logLevel, logFormat string, opts ...Option) (*slog.Logger, error) {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	slogLevel, err := getSlogLevel(logLevel)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: slogLevel})
	case "text":
		handler = slog.NewTextHandler(o.out, &slog.HandlerOptions{Level: slogLevel})
	case "tint":
		handler = tint.NewHandler(o.out, &tint.Options{Level: slogLevel})
	default:
		return nil, errors.Join(ErrLoggerInvalidLogFormat, fmt.Errorf("log format: %s", logFormat))
	}

	logger := slog.New(handler)
	if len(o.attrs) > 0 {
		logger = logger.With(o.attrs...)
	}

	return logger, nil
}

func getSlogLevel(logLevel string) (slog.Level, error) {
	switch strings.ToUpper(logLevel) {
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	}

	return slog.LevelInfo, errors.Join(ErrLoggerInvalidLogLevel, fmt.Errorf("log level: %s", logLevel))
}
