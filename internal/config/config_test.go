package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.APIURL == "" {
		t.Error("expected default API URL to be set")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.LogLevel)
	}
	if !cfg.DesktopNotifications {
		t.Error("expected desktop notifications enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EDUPI_API_URL", "http://localhost:8000")
	t.Setenv("EDUPI_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("expected env override for API URL, got %q", cfg.APIURL)
	}
	// SocketURL falls back to the API URL when not configured.
	if cfg.SocketURL != cfg.APIURL {
		t.Errorf("expected socket URL to default to API URL, got %q", cfg.SocketURL)
	}
}

func TestLoad_ConfigFileFollowsDataDir(t *testing.T) {
	dir := t.TempDir()
	content := []byte("api_url: http://relocated:8000\nlog_level: debug\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDUPI_DATA_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The config file is read from the relocated data dir, not ~/.edupi.
	if cfg.APIURL != "http://relocated:8000" {
		t.Errorf("expected config.yaml from EDUPI_DATA_DIR applied, got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected relocated log level, got %q", cfg.LogLevel)
	}
	if cfg.DataDir != dir {
		t.Errorf("expected data dir %q, got %q", dir, cfg.DataDir)
	}
}

func TestLoad_SocketURLIndependent(t *testing.T) {
	t.Setenv("EDUPI_API_URL", "http://localhost:8000")
	t.Setenv("EDUPI_SOCKET_URL", "http://localhost:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SocketURL != "http://localhost:9000" {
		t.Errorf("expected independent socket URL, got %q", cfg.SocketURL)
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	in := Config{
		APIURL:    "http://localhost:8000",
		SocketURL: "http://localhost:8000",
		LogLevel:  "debug",
	}

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Config
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.APIURL != in.APIURL || out.LogLevel != in.LogLevel {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: [broken"), 0600); err != nil {
		t.Fatal(err)
	}

	// Point HOME at the temp dir so ~/.edupi resolves inside it.
	t.Setenv("HOME", filepath.Dir(dir))
	t.Setenv("EDUPI_DATA_DIR", "")

	// The config file lives at <data-dir>/config.yaml; simulate by writing
	// into the resolved location.
	edupiDir := filepath.Join(filepath.Dir(dir), ".edupi")
	if err := os.MkdirAll(edupiDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(edupiDir, "config.yaml"), []byte("api_url: [broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
