package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		format string
		level  string
		want   zerolog.Level
	}{
		{"json", "debug", zerolog.DebugLevel},
		{"text", "warn", zerolog.WarnLevel},
		{"text", "", zerolog.InfoLevel},
		{"json", "loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.level, func(t *testing.T) {
			if got := Setup(tt.format, tt.level).GetLevel(); got != tt.want {
				t.Errorf("Setup(%q, %q) level = %s, want %s", tt.format, tt.level, got, tt.want)
			}
		})
	}
}
