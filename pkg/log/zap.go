package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production JSON logger for the given component name.
// The logger is passed explicitly into each component at construction;
// this package keeps no global state.
func New(name string) *zap.Logger {
	return NewAtLevel(name, zap.InfoLevel)
}

// NewAtLevel builds a logger with an explicit minimum level.
func NewAtLevel(name string, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.CallerKey = "logger_name"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return zap.New(core,
		zap.Fields(zap.String("logName", name)),
		zap.AddCaller(),
	)
}
