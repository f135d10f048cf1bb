package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. Args are attached as fields; an odd
// trailing arg is logged under "!BADKEY" like slog does.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// NewConsoleZerologLogger writes colourless console lines to w.
func NewConsoleZerologLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Debug(), ctx, args).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Info(), ctx, args).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Warn(), ctx, args).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Error(), ctx, args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for k, v := range pairs(args) {
		c = c.Interface(k, v)
	}
	return &ZerologLogger{l: c.Logger()}
}

func (z *ZerologLogger) event(e *zerolog.Event, ctx context.Context, args []any) *zerolog.Event {
	if e == nil {
		// level disabled; zerolog methods are nil-safe
		return e
	}
	return e.Ctx(ctx).Fields(pairs(args))
}

func pairs(args []any) map[string]any {
	m := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			m["!BADKEY"] = args[i]
			break
		}
		m[fmt.Sprint(args[i])] = args[i+1]
	}
	return m
}

// New builds a Logger for the named backend ("slog" or "zerolog"), writing
// text lines to w. Unknown backends fall back to slog.
func New(backend string, w io.Writer, debug bool) Logger {
	if backend == BackendZerolog {
		level := zerolog.InfoLevel
		if debug {
			level = zerolog.DebugLevel
		}
		return NewConsoleZerologLogger(w, level)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return NewTextSlogLogger(w, level)
}
