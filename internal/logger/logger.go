package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. environment "production" selects the production
// preset; format "json" selects JSON encoding, anything else console.
func New(environment, level, format string) (*zap.Logger, error) {
	var config zap.Config
	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(parsed)

	if format == "json" {
		config.Encoding = "json"
	} else {
		config.Encoding = "console"
	}

	// stdout is reserved for command output
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": "songpeaks",
	}

	return config.Build()
}

// Must is New that falls back to a no-op logger
func Must(environment, level, format string) *zap.Logger {
	l, err := New(environment, level, format)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
