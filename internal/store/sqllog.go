package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/preston-bernstein/game-catalog-service/internal/logging"
)

const slowQueryThreshold = 200 * time.Millisecond

// sqlLogger routes gorm's statement and error logging through slog.
type sqlLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
}

func newSQLLogger(logger *slog.Logger, logSQL bool) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Discard
	}
	level := gormlogger.Warn
	if logSQL {
		level = gormlogger.Info
	}
	return &sqlLogger{logger: logger, level: level}
}

func (l *sqlLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *sqlLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		logging.Info(logging.FromContext(ctx, l.logger), fmt.Sprintf(msg, args...))
	}
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		logging.Warn(logging.FromContext(ctx, l.logger), fmt.Sprintf(msg, args...))
	}
}

func (l *sqlLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		logging.Error(logging.FromContext(ctx, l.logger), fmt.Sprintf(msg, args...), nil)
	}
}

func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	logger := logging.FromContext(ctx, l.logger)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logging.Error(logger, "sql failed", err, sqlAttrs(sql, rows, elapsed)...)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logging.Warn(logger, "sql slow", sqlAttrs(sql, rows, elapsed)...)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logging.Info(logger, "sql", sqlAttrs(sql, rows, elapsed)...)
	}
}

func sqlAttrs(sql string, rows int64, elapsed time.Duration) []any {
	return []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}
