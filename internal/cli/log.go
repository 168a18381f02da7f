package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackgraph/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Compiled graph.mmd (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// cacheLogger reports cache traffic at debug level.
type cacheLogger struct {
	logger *log.Logger
}

var _ observability.CacheHooks = cacheLogger{}

func (c cacheLogger) OnCacheHit(_ context.Context, keyType string) {
	c.logger.Debug("cache hit", "type", keyType)
}

func (c cacheLogger) OnCacheMiss(_ context.Context, keyType string) {
	c.logger.Debug("cache miss", "type", keyType)
}

func (c cacheLogger) OnCacheSet(_ context.Context, keyType string, size int) {
	c.logger.Debug("cache write", "type", keyType, "bytes", size)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
