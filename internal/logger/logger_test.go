package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	l, err := New("dev", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotNil(t, Nop().Logger)
}
