package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// coreWithLevel replaces the level check of the wrapped core.
type coreWithLevel struct {
	zapcore.Core

	// level is the minimum level written through this core.
	level zapcore.Level
}

// Enabled reports whether l passes the replacement level.
func (c *coreWithLevel) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to ce when the entry passes the replacement level.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *coreWithLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With keeps the replacement level on child cores.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel is a zap option that makes a logger write entries from lvl upwards,
// regardless of the level it was built with.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return &coreWithLevel{Core: core, level: lvl}
		})
}

// EnsureLevel returns a context whose logger writes entries at lvl and above.
// A logger that is already that verbose is left untouched.
func EnsureLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	current := FromContext(ctx)
	if current.Desugar().Core().Enabled(lvl) {
		return ctx
	}

	return ToContext(ctx, current.WithOptions(WithLevel(lvl)))
}
