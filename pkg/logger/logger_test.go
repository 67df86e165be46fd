package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitOnce(t *testing.T) {
	assert.NoError(t, Init(zapcore.WarnLevel, zap.String("service", "logger-test")))
	first := Log
	assert.NoError(t, Init(zapcore.DebugLevel))
	assert.Same(t, first, Log)
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
}

func TestUseNil(t *testing.T) {
	prev := Log
	defer Use(prev)

	Use(nil)
	assert.NotNil(t, Log)
}
