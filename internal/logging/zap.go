// Package logging provides runtime.Logger implementations for code running outside Nakama
// and bridges gorm's SQL logging onto runtime.Logger.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
)

// ZapLogger implements runtime.Logger on top of a zap logger.
type ZapLogger struct {
	base   *zap.Logger
	fields map[string]interface{}
}

var _ runtime.Logger = (*ZapLogger)(nil)

// NewZap builds a production (JSON) or development (console) zap logger.
func NewZap(format string) (*ZapLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch format {
	case "", "json", "production":
		l, err = zap.NewProduction()
	case "console", "development":
		l, err = zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return WrapZap(l), nil
}

// WrapZap adapts an existing zap logger.
func WrapZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{base: l.WithOptions(zap.AddCallerSkip(1)), fields: map[string]interface{}{}}
}

func (l *ZapLogger) Debug(format string, v ...interface{}) { l.base.Debug(fmt.Sprintf(format, v...)) }
func (l *ZapLogger) Info(format string, v ...interface{})  { l.base.Info(fmt.Sprintf(format, v...)) }
func (l *ZapLogger) Warn(format string, v ...interface{})  { l.base.Warn(fmt.Sprintf(format, v...)) }
func (l *ZapLogger) Error(format string, v ...interface{}) { l.base.Error(fmt.Sprintf(format, v...)) }

func (l *ZapLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *ZapLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	zfields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		zfields = append(zfields, zap.Any(k, v))
	}
	return &ZapLogger{base: l.base.With(zfields...), fields: merged}
}

func (l *ZapLogger) Fields() map[string]interface{} {
	return l.fields
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}
