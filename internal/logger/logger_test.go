package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	prodLogger := New(config.EnvProd)
	require.NotNil(t, prodLogger)
	assert.False(t, prodLogger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prodLogger.Enabled(ctx, slog.LevelInfo))

	devLogger := New(config.EnvDev)
	require.NotNil(t, devLogger)
	assert.True(t, devLogger.Enabled(ctx, slog.LevelDebug))

	localLogger := New(config.EnvLocal)
	require.NotNil(t, localLogger)
	assert.True(t, localLogger.Enabled(ctx, slog.LevelDebug))
}
