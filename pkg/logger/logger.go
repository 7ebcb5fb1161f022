package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. It is replaced by Setup.
var Logger zerolog.Logger

// Options configures the process-wide logger.
type Options struct {
	Service     string
	Version     string
	Development bool
	// Level is a zerolog level name. Unknown or empty names mean info.
	Level string
	// Out defaults to stdout.
	Out io.Writer
}

// Setup builds Logger from opts and installs it as zerolog's global logger.
func Setup(opts Options) {
	var out io.Writer = os.Stdout
	if opts.Out != nil {
		out = opts.Out
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	if opts.Development {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	fields := zerolog.New(out).With().Timestamp().Str("service", opts.Service)
	if opts.Version != "" {
		fields = fields.Str("version", opts.Version)
	}
	Logger = fields.Logger()
	log.Logger = Logger

	SetLevel(opts.Level)
}

// SetLevel sets the global level and returns the level applied.
func SetLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// WithContext returns Logger annotated with the span found in ctx, if any.
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Logger
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With().
			Stringer("trace_id", sc.TraceID()).
			Stringer("span_id", sc.SpanID()).
			Logger()
	}
	return &l
}

func Info(ctx context.Context) *zerolog.Event  { return WithContext(ctx).Info() }
func Error(ctx context.Context) *zerolog.Event { return WithContext(ctx).Error() }
func Debug(ctx context.Context) *zerolog.Event { return WithContext(ctx).Debug() }
func Warn(ctx context.Context) *zerolog.Event  { return WithContext(ctx).Warn() }

// Fatal exits the process once the event is sent.
func Fatal(ctx context.Context) *zerolog.Event { return WithContext(ctx).Fatal() }
