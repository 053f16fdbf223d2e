package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		Enable()
	})
}

func TestSetupFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "arc.log")
	if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := Setup(Options{File: path})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if out.Sink == nil {
		t.Fatal("expected a log sink when logging to a file")
	}

	Infof("launched %s", "arc")
	Debugf("hidden at info level")
	if _, err := out.Sink.Write([]byte("browser output\n")); err != nil {
		t.Fatalf("sink write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "existing\n") {
		t.Error("log file should be appended to, not truncated")
	}
	if !strings.Contains(content, "launched arc") {
		t.Errorf("missing info line in %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(content, "browser output") {
		t.Error("sink output missing")
	}
}

func TestSetupDebugAndDisable(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "debug.log")

	out, err := Setup(Options{File: path, Debug: true, JSON: true})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer out.Close()

	Debugf("visible debug")
	Disable()
	Errorf("suppressed error")
	Enable()
	Warnf("visible warning")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, `"msg":"visible debug"`) {
		t.Errorf("debug line missing in %q", content)
	}
	if strings.Contains(content, "suppressed error") {
		t.Error("Disable did not suppress logging")
	}
	if !strings.Contains(content, "visible warning") {
		t.Error("Enable did not restore logging")
	}
}

func TestSetupStderr(t *testing.T) {
	restoreDefault(t)

	out, err := Setup(Options{})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if out.Sink != nil {
		t.Error("no sink expected without a log file")
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close without file failed: %v", err)
	}
}

func TestSetupBadPath(t *testing.T) {
	restoreDefault(t)

	_, err := Setup(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if err == nil {
		t.Error("expected error for unwritable log path")
	}
}
