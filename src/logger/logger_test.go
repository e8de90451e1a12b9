package logger

import (
	"bytes"
	"strings"
	"testing"

	"milk-admin/src/models"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, &models.MConfig{LogLevel: "WARNING"}, "Inventory")

	l.Info("hidden %d", 1)
	l.Warning("stock clamped at %s", "0")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected INFO message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "stock clamped at 0") {
		t.Errorf("Expected warning message, got %q", out)
	}
	if !strings.Contains(out, "Inventory") {
		t.Errorf("Expected component name in output, got %q", out)
	}
}

func TestLogger_NilConfigDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, nil, "Test")

	l.Debug("debug line")
	l.Info("info line")

	if strings.Contains(buf.String(), "debug line") {
		t.Errorf("Expected DEBUG to be filtered at default level")
	}
	if !strings.Contains(buf.String(), "info line") {
		t.Errorf("Expected INFO line, got %q", buf.String())
	}
}
