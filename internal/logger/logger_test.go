package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		verbose bool
		debug   bool
	}{
		{name: "production", env: "", verbose: false, debug: false},
		{name: "development", env: "dev", verbose: false, debug: true},
		{name: "production verbose", env: "production", verbose: true, debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.env)
			Initialize(tt.verbose)
			defer Sync()

			if Log == nil {
				t.Fatal("Expected logger to be initialized")
			}
			if got := Log.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
		})
	}
}
