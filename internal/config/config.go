// Package config handles TOML-based configuration loading and validation.
// Values are layered: built-in defaults, then the config file, then CLI flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cnnvideo/internal/extract"
	"cnnvideo/internal/player"
)

const appName = "cnnvideo"

// MaxRedirectsLimit is the largest redirect bound the config accepts.
const MaxRedirectsLimit = 20

// Config holds all application configuration.
type Config struct {
	ManifestBase string `toml:"manifest_base"`
	CDNBase      string `toml:"cdn_base"`
	UserAgent    string `toml:"user_agent"`
	Timeout      int    `toml:"timeout"` // seconds
	MaxRedirects int    `toml:"max_redirects"`
	Format       string `toml:"format"`
	DownloadDir  string `toml:"download_dir"`
	Player       string `toml:"player"`
	Archive      bool   `toml:"archive"`
	Debug        bool   `toml:"debug"`
	LogJSON      bool   `toml:"log_json"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ManifestBase: extract.DefaultManifestBase,
		CDNBase:      extract.DefaultCDNBase,
		Timeout:      30,
		MaxRedirects: extract.DefaultMaxRedirects,
		Format:       "best",
		DownloadDir:  "~/Videos/cnnvideo",
		Player:       "mpv",
		Archive:      true,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if err := validateBase("manifest_base", c.ManifestBase); err != nil {
		return err
	}
	if err := validateBase("cdn_base", c.CDNBase); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}

	if c.MaxRedirects < 1 || c.MaxRedirects > MaxRedirectsLimit {
		return fmt.Errorf("max_redirects must be between 1 and %d, got %d", MaxRedirectsLimit, c.MaxRedirects)
	}

	if strings.TrimSpace(c.Format) == "" {
		return fmt.Errorf("format cannot be empty")
	}

	if _, err := player.New(c.Player); err != nil {
		return err
	}

	return nil
}

func validateBase(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host", key)
	}
	return nil
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ExtractOptions returns the endpoint settings the extractors need.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{ManifestBase: c.ManifestBase, CDNBase: c.CDNBase}
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// ArchivePath returns the path to the download archive.
func ArchivePath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, "archive.tsv"), nil
}
