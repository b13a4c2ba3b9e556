package logger

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger passed to every component
type Logger struct {
	*zap.SugaredLogger
}

func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(levelFromConfig(cfg))

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// NewNopLogger discards everything
func NewNopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger that adds the key value pairs to every entry
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// WithContext adds the request and tenant ids carried by ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var fields []interface{}
	if id := types.GetRequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id := types.GetTenantID(ctx); id != "" {
		fields = append(fields, "tenant_id", id)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func levelFromConfig(cfg *config.Configuration) zapcore.Level {
	if cfg == nil {
		return zapcore.InfoLevel
	}
	switch cfg.Logging.Level {
	case types.LogLevelDebug:
		return zapcore.DebugLevel
	case types.LogLevelWarn:
		return zapcore.WarnLevel
	case types.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
