package logger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm/logger"
)

// GormLogger adapts gorm.io/gorm/logger.Interface onto slog so database
// logs share the process-wide schema and request ids.
type GormLogger struct {
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(level string) *GormLogger {
	var lvl logger.LogLevel
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "warn", "warning":
		lvl = logger.Warn
	default:
		lvl = logger.Info
	}
	return &GormLogger{logLevel: lvl, slowThreshold: 200 * time.Millisecond}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{logLevel: level, slowThreshold: g.slowThreshold}
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Info {
		FromContext(ctx).Info("gorm", "detail", msg, "data", data)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Warn {
		FromContext(ctx).Warn("gorm", "detail", msg, "data", data)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.logLevel >= logger.Error {
		FromContext(ctx).Error("gorm", "detail", msg, "data", data)
	}
}

// Trace logs each statement with rows affected and elapsed time.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.logLevel == logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()

	attrs := []any{
		"sql", sql,
		"rows", rows,
		"elapsed_ms", float64(elapsed.Microseconds()) / 1000.0,
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		if g.logLevel >= logger.Error {
			FromContext(ctx).Error("gorm trace", append(attrs, "err", err)...)
		}
		return
	}

	if g.slowThreshold > 0 && elapsed > g.slowThreshold {
		if g.logLevel >= logger.Warn {
			FromContext(ctx).Warn("gorm trace slow", append(attrs, "threshold_ms", float64(g.slowThreshold.Microseconds())/1000.0)...)
		}
		return
	}

	if g.logLevel >= logger.Info {
		FromContext(ctx).Info("gorm trace", attrs...)
	}
}
