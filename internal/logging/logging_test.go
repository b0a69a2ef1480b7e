package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	if cfg.Encoding != "console" {
		t.Errorf("encoding: got %q", cfg.Encoding)
	}
	if !cfg.DisableStacktrace {
		t.Error("stack traces should be disabled")
	}
	if cfg.Level.Level() != zap.InfoLevel {
		t.Errorf("level: got %v", cfg.Level.Level())
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Errorf("output paths: got %v", cfg.OutputPaths)
	}
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*zap.SugaredLogger, error)
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"default", func() (*zap.SugaredLogger, error) { return New("kinorrt", false) }, zap.InfoLevel, zap.DebugLevel},
		{"verbose", func() (*zap.SugaredLogger, error) { return New("kinorrt", true) }, zap.DebugLevel, zap.DebugLevel - 1},
		{"quiet", func() (*zap.SugaredLogger, error) { return Quiet("kinorrt") }, zap.WarnLevel, zap.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			core := logger.Desugar().Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("%v should be enabled", tt.enabled)
			}
			if core.Enabled(tt.muted) {
				t.Errorf("%v should be muted", tt.muted)
			}
		})
	}
}
