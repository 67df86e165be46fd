package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log      = zap.NewNop()
	onceInit sync.Once
)

// Init construit le logger console une seule fois par processus.
func Init(level zapcore.Level, meta ...zap.Field) error {
	var err error
	onceInit.Do(func() {
		var instance *zap.Logger
		instance, err = configure(level).Build()
		if err != nil {
			return
		}
		Log = instance.With(meta...)
	})
	if err != nil {
		return errors.Wrap(err, "logger not initialized")
	}
	return nil
}

// Use remplace le logger (tests).
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

func configure(level zapcore.Level) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}
