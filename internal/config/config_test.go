package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cnnvideo/internal/extract"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ManifestBase != extract.DefaultManifestBase {
		t.Errorf("default manifest_base = %q, want %q", cfg.ManifestBase, extract.DefaultManifestBase)
	}
	if cfg.Format != "best" {
		t.Errorf("default format = %q, want best", cfg.Format)
	}
	if cfg.MaxRedirects != extract.DefaultMaxRedirects {
		t.Errorf("default max_redirects = %d, want %d", cfg.MaxRedirects, extract.DefaultMaxRedirects)
	}
	if !cfg.Archive {
		t.Error("default archive should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"https manifest base", func(c *Config) { c.ManifestBase = "https://mirror.example/video/data/3.0" }, false},
		{"ftp manifest base", func(c *Config) { c.ManifestBase = "ftp://example.com/data" }, true},
		{"empty cdn base", func(c *Config) { c.CDNBase = "" }, true},
		{"cdn base without host", func(c *Config) { c.CDNBase = "http:///cnn/big" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"zero redirects", func(c *Config) { c.MaxRedirects = 0 }, true},
		{"redirects at limit", func(c *Config) { c.MaxRedirects = MaxRedirectsLimit }, false},
		{"redirects over limit", func(c *Config) { c.MaxRedirects = MaxRedirectsLimit + 1 }, true},
		{"blank format", func(c *Config) { c.Format = "  " }, true},
		{"format id", func(c *Config) { c.Format = "640x360_800k" }, false},
		{"valid vlc", func(c *Config) { c.Player = "vlc" }, false},
		{"invalid player", func(c *Config) { c.Player = "notepad" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	content := `
manifest_base = "https://mirror.example/video/data/3.0"
user_agent = "test-agent/1.0"
timeout = 10
max_redirects = 3
format = "worst"
archive = false
log_json = true
`
	dir := filepath.Join(tmpDir, "cnnvideo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ManifestBase != "https://mirror.example/video/data/3.0" {
		t.Errorf("manifest_base = %q", cfg.ManifestBase)
	}
	if cfg.CDNBase != extract.DefaultCDNBase {
		t.Errorf("cdn_base should keep its default, got %q", cfg.CDNBase)
	}
	if cfg.UserAgent != "test-agent/1.0" {
		t.Errorf("user_agent = %q", cfg.UserAgent)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.RequestTimeout())
	}
	if cfg.MaxRedirects != 3 {
		t.Errorf("max_redirects = %d, want 3", cfg.MaxRedirects)
	}
	if cfg.Format != "worst" {
		t.Errorf("format = %q, want worst", cfg.Format)
	}
	if cfg.Archive {
		t.Error("archive should be false")
	}
	if !cfg.LogJSON {
		t.Error("log_json should be true")
	}

	opts := cfg.ExtractOptions()
	if opts.ManifestBase != cfg.ManifestBase || opts.CDNBase != cfg.CDNBase {
		t.Errorf("ExtractOptions() = %+v", opts)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid value", "max_redirects = 50\n"},
		{"unknown key", "quality = \"1080\"\n"},
		{"not TOML", "timeout = = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("LoadFile() should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Format != "best" {
		t.Errorf("missing file should return defaults, got format = %q", cfg.Format)
	}
}

func TestExpandDownloadDir(t *testing.T) {
	cfg := Default()
	cfg.DownloadDir = "/tmp/test-downloads"

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		t.Fatalf("ExpandDownloadDir() error: %v", err)
	}
	if dir != "/tmp/test-downloads" {
		t.Errorf("got %q, want /tmp/test-downloads", dir)
	}
}

func TestArchivePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	path, err := ArchivePath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/data", "cnnvideo", "archive.tsv") {
		t.Errorf("ArchivePath() = %q", path)
	}
}
