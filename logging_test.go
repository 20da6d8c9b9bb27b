package pubfront

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatermillLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWatermillLogger(zap.New(core))

	l.Info("subscribed", watermill.LogFields{"topic": "cms.revalidate"})
	l.With(watermill.LogFields{"handler": "purge"}).Error("handler failed", errors.New("boom"), nil)
	l.Trace("tick", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "cms.revalidate", entries[0].ContextMap()["topic"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "purge", entries[1].ContextMap()["handler"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}
