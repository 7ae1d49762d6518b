/*
Package config manages the TOML configuration of ahi.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/ahi/suggest"
)

var log = commonlog.GetLogger("ahi.config")

// Config holds the entire config structure.
type Config struct {
	Grammar GrammarConfig `toml:"grammar"`
	Suggest SuggestConfig `toml:"suggest"`
	Server  ServerConfig  `toml:"server"`

	// dir is the directory of the file the config was read from.
	dir string
}

// GrammarConfig selects the grammar completions are computed for.
type GrammarConfig struct {
	Path   string   `toml:"path"`
	Start  string   `toml:"start"`
	Hidden []string `toml:"hidden"`
}

// SuggestConfig holds completion options.
type SuggestConfig struct {
	Case    string   `toml:"case"`
	Timeout Duration `toml:"timeout"`
}

// ServerConfig has options shared by the LSP and IPC servers.
type ServerConfig struct {
	MaxResults int `toml:"max_results"`
}

// Duration is a time.Duration written as a string such as "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Grammar: GrammarConfig{
			Hidden: []string{},
		},
		Suggest: SuggestConfig{
			Case:    string(suggest.CaseBoth),
			Timeout: Duration{2 * time.Second},
		},
		Server: ServerConfig{
			MaxResults: 64,
		},
	}
}

// DefaultPath returns ~/.config/ahi/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ahi", "config.toml"), nil
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/ahi/config.toml
// 3. Builtin defaults
//
// It returns the path the config came from, empty for the defaults. An
// explicitly requested file that cannot be read is an error.
func LoadWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := Load(customPath)
		if err != nil {
			return nil, "", err
		}
		log.Debugf("loaded config from %s", customPath)
		return cfg, customPath, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		log.Warningf("cannot determine default config path: %v; using built-in defaults", err)
		return Default(), "", nil
	}
	if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	cfg, err := Load(defaultPath)
	if err != nil {
		log.Warningf("%v; using built-in defaults", err)
		return Default(), "", nil
	}
	log.Debugf("loaded config from %s", defaultPath)
	return cfg, defaultPath, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, cfg)
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	if _, err := c.CasePreference(); err != nil {
		return err
	}
	if c.Suggest.Timeout.Duration < 0 {
		return fmt.Errorf("negative suggest timeout %s", c.Suggest.Timeout)
	}
	if c.Server.MaxResults < 0 {
		return fmt.Errorf("negative max_results %d", c.Server.MaxResults)
	}
	return nil
}

// CasePreference parses the configured case preference.
func (c *Config) CasePreference() (suggest.CasePreference, error) {
	return suggest.ParseCasePreference(c.Suggest.Case)
}

// GrammarPath returns the grammar path, resolved against the directory of
// the config file when relative.
func (c *Config) GrammarPath() string {
	p := c.Grammar.Path
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
