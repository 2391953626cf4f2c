package shapematch

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested Match calls (unions inside unions, models
// inside unions) when the context carries no explicit limit.
const DefaultMaxDepth = 64

type contextKey int

const (
	_ctxKeyLogger contextKey = iota
	_ctxKeyMaxDepth
	_ctxKeyDepth
)

// WithLogger returns a child context carrying l. Matching logs at debug level
// only.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, _ctxKeyLogger, l)
}

// Logger returns the context logger or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(_ctxKeyLogger).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithMaxDepth returns a child context that limits nested Match calls to n.
// Values below 1 restore DefaultMaxDepth.
func WithMaxDepth(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, _ctxKeyMaxDepth, n)
}

// MaxDepth reports the nesting limit in effect for ctx.
func MaxDepth(ctx context.Context) int {
	if n, ok := ctx.Value(_ctxKeyMaxDepth).(int); ok && n > 0 {
		return n
	}
	return DefaultMaxDepth
}

func depthOf(ctx context.Context) int {
	d, _ := ctx.Value(_ctxKeyDepth).(int)
	return d
}

// enter descends one level. ok is false once the limit is exceeded.
func enter(ctx context.Context) (context.Context, bool) {
	d := depthOf(ctx) + 1
	if d > MaxDepth(ctx) {
		return ctx, false
	}
	return context.WithValue(ctx, _ctxKeyDepth, d), true
}

func depthExceeded(ctx context.Context, c Candidate, v Value) *Result {
	Logger(ctx).Debug("match depth exceeded",
		zap.String("candidate", c.Name()),
		zap.Int("max", MaxDepth(ctx)))
	r := newResult(c, c.Context().Shape, v)
	return r.fail(rootPath.issue(CodeDepthExceeded, map[string]string{"max": strconv.Itoa(MaxDepth(ctx))}, nil))
}
