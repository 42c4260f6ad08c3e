package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecadweather.log")

	if err := InitWithFile(false, FileOptions{Path: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("InitWithFile: %v", err)
	}
	t.Cleanup(func() {
		_ = Init(false)
	})

	Infow("station catalog loaded", "stations", 2)
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "station catalog loaded") {
		t.Errorf("log file missing entry: %s", data)
	}
	if !strings.Contains(string(data), `"stations":2`) {
		t.Errorf("log file missing structured field: %s", data)
	}
}

func TestGetSugaredLoggerFallback(t *testing.T) {
	log = nil
	baseLogger = nil

	if GetSugaredLogger() == nil {
		t.Fatal("expected fallback logger")
	}
	if GetZapLogger() == nil {
		t.Fatal("expected fallback zap logger")
	}
}
