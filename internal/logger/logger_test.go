package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"production", Config{Level: "info"}},
		{"development", Config{Level: "debug", Development: true}},
		{"default level", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, log)

			log.Info("test message", String("k", "v"))
			_ = log.Sync()
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	require.NotNil(t, log)

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error", Error(errors.New("boom")))
	require.NotNil(t, log.With(String("key", "value")))
	_ = log.Sync()
}

func TestFromZap_WithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(String("component", "test"))

	log.Warn("slow call",
		Int("attempt", 1),
		Int64("post_id", 42),
		Bool("cached", false),
		Duration("elapsed", 2*time.Second),
		Any("tags", []string{"seo"}),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow call", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "test", ctx["component"])
	assert.Equal(t, int64(42), ctx["post_id"])
	assert.Equal(t, false, ctx["cached"])
}
