package logging

import (
	"context"
	"errors"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts runtime.Logger to gorm's logger interface.
type GormLogger struct {
	logger        runtime.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger logs warnings and errors only, flagging queries slower than 200ms.
func NewGormLogger(logger runtime.Logger) *GormLogger {
	return &GormLogger{
		logger:        logger,
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormlogger.Warn,
	}
}

// LogMode sets the log level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		l.logger.Info(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		l.logger.Warn(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		l.logger.Error(msg, data...)
	}
}

// Trace logs failed and slow statements, and every statement at Info level.
// Not-found lookups are expected and never logged as errors.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		sql, rows := fc()
		l.fields(sql, rows, elapsed).Error("gorm query failed: %v", err)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		l.fields(sql, rows, elapsed).Warn("gorm slow query (>%v)", l.SlowThreshold)
	case l.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		l.fields(sql, rows, elapsed).Debug("gorm query")
	}
}

func (l *GormLogger) fields(sql string, rows int64, elapsed time.Duration) runtime.Logger {
	return l.logger.WithFields(map[string]interface{}{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1e6,
	})
}
