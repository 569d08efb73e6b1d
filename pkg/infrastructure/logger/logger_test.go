package logger_test

import (
	"testing"

	"todo-web/pkg/infrastructure/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWithOptions(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{name: "production default", level: "", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "development default", level: "", development: true, enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "explicit warn", level: "warn", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.NewWithOptions(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, l.Core().Enabled(tt.enabled))
			require.False(t, l.Core().Enabled(tt.disabled))
		})
	}
}
