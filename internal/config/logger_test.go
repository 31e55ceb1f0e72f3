package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("expected error for nil log config")
	}
}

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text", Color: boolPtr(false)})
			if err != nil {
				t.Fatalf("SetupLogger: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.Background(), tt.want) {
				t.Errorf("level %v should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && log.Enabled(context.Background(), tt.want-1) {
				t.Errorf("level %v should be disabled", tt.want-1)
			}
			if slog.Default().Handler() != log.Handler() {
				t.Error("SetupLogger did not install the slog default")
			}
		})
	}
}

func TestSetupLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backoffice.log")

	log, err := SetupLogger(&LogConfig{Level: "info", Format: "json", FilePath: path, MaxSizeMB: 5})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	log.Info("order submitted", "orderNumber", "SO-1")
	log.Debug("hidden")
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "order submitted") || !strings.Contains(out, "SO-1") {
		t.Errorf("log file missing record: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	const console = 4
	const file = console + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"console text", &LogConfig{Level: "info", Format: "text"}, console},
		{"console custom format", &LogConfig{Format: "pretty", Color: boolPtr(true)}, console},
		{"file without rotation", &LogConfig{Format: "json", FilePath: "/var/log/backoffice.log"}, file},
		{"file ignores zero rotation", &LogConfig{FilePath: "/var/log/backoffice.log", MaxSizeMB: 0, MaxBackups: 0}, file},
		{"rotation without file is ignored", &LogConfig{MaxSizeMB: 10, RetentionDays: 7}, console},
		{"explicit compress false counts", &LogConfig{FilePath: "x.log", CompressRotated: boolPtr(false)}, file + 1},
		{"full rotation", &LogConfig{
			Format: "json", FilePath: "x.log",
			MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5, CompressRotated: boolPtr(true),
		}, file + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("option count = %d, want %d", got, tt.want)
			}
		})
	}

	if BuildLoggerOpts(nil) != nil {
		t.Error("nil config should produce no options")
	}
}

func TestBuildLoggerOpts_DefaultConfigFile(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	log, err := logger.New(BuildLoggerOpts(&cfg.Log)...)
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	defer log.Close()

	if !log.Enabled(context.Background(), parseLevel(cfg.Log.Level)) {
		t.Errorf("configured level %q is not enabled", cfg.Log.Level)
	}
}
