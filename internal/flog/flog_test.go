package flog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	assert.NotNil(t, L())
	assert.False(t, L().Core().Enabled(zapcore.ErrorLevel))
}

func TestSetInstallsLogger(t *testing.T) {
	defer Set(zap.NewNop())

	real, err := NewCLILogger(false)
	assert.NoError(t, err)
	Set(real)
	assert.Same(t, real, L())
}

func TestSetIgnoresNil(t *testing.T) {
	prior := L()
	Set(nil)
	assert.Same(t, prior, L())
}
