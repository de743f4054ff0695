// internal/config/config.go
//
// This package handles configuration and the .spells directory layout.
// `spells init` creates .spells/ in the project root with a commented
// config.yaml; every other command loads it and then applies environment
// overrides.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// SpellsDir is the name of the directory holding config and logs.
	SpellsDir = ".spells"

	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8765
	DefaultReplayWindow = 1024
	DefaultLogMode      = LogModeDevelopment

	LogModeDevelopment = "development"
	LogModeProduction  = "production"
)

const defaultConfigYAML = `# spells-for-muggle configuration
version: 1

# HTTP endpoint the voice platform posts events to.
server:
  enabled: true
  host: 127.0.0.1
  port: 8765
  max_body_bytes: 1048576
  # Number of recent request ids whose responses are replayed on retry.
  replay_window: 1024

skill:
  # Only accept events from these application ids. Leave empty to accept all.
  application_ids: []
  # Optional roster file replacing the built-in spells (relative to .spells/).
  # catalog_file: roster.yaml

log:
  # development (console) or production (json)
  mode: development
  # Leave empty to log to stderr. Relative paths resolve against .spells/.
  # file: logs/spells.log
`

// ServerConfig configures the HTTP event bridge.
type ServerConfig struct {
	Enabled      *bool  `yaml:"enabled,omitempty"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	MaxBodyBytes int64  `yaml:"max_body_bytes,omitempty"`
	ReplayWindow int    `yaml:"replay_window,omitempty"`
}

// SkillConfig configures the skill itself.
type SkillConfig struct {
	ApplicationIDs []string `yaml:"application_ids,omitempty"`
	CatalogFile    string   `yaml:"catalog_file,omitempty"`
}

// LogConfig selects the log encoder and destination.
type LogConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file,omitempty"`
}

// FileConfig models .spells/config.yaml.
type FileConfig struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Skill   SkillConfig  `yaml:"skill"`
	Log     LogConfig    `yaml:"log"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the command ran against
	ProjectDir string

	// SpellsProjectDir is ProjectDir/.spells
	SpellsProjectDir string

	File FileConfig
}

// envOverrides lists the variables that win over config.yaml.
type envOverrides struct {
	Enabled        *bool    `env:"SPELLS_BRIDGE_ENABLED"`
	Host           string   `env:"SPELLS_BRIDGE_HOST"`
	Port           int      `env:"SPELLS_BRIDGE_PORT"`
	LogMode        string   `env:"SPELLS_LOG_MODE"`
	LogFile        string   `env:"SPELLS_LOG_FILE"`
	CatalogFile    string   `env:"SPELLS_CATALOG_FILE"`
	ApplicationIDs []string `env:"SPELLS_APPLICATION_ID" envSeparator:","`
}

// InitDir creates the .spells directory structure in projectDir.
//
// Structure created:
// .spells/
// ├── config.yaml   <- written once, never overwritten
// └── logs/         <- console and server logs
func InitDir(projectDir string) error {
	dir := filepath.Join(projectDir, SpellsDir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", dir, err)
	}
	return ensureConfigFile(filepath.Join(dir, "config.yaml"))
}

// Load reads .spells/config.yaml (defaults when missing) and applies
// environment overrides.
func Load(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", projectDir, err)
	}
	cfg := &Config{
		ProjectDir:       abs,
		SpellsProjectDir: filepath.Join(abs, SpellsDir),
		File:             defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.File.applyEnv(); err != nil {
		return nil, err
	}
	cfg.File.normalize(cfg.SpellsProjectDir)
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.SpellsProjectDir, "config.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SpellsProjectDir, "logs")
}

// LogFile returns the resolved log file, or "" for stderr.
func (c *Config) LogFile() string {
	return c.File.Log.File
}

// LogMode returns development or production.
func (c *Config) LogMode() string {
	return c.File.Log.Mode
}

// CatalogFile returns the resolved roster file, or "" for the built-in roster.
func (c *Config) CatalogFile() string {
	return c.File.Skill.CatalogFile
}

// ApplicationIDs returns the accepted application ids.
func (c *Config) ApplicationIDs() []string {
	return c.File.Skill.ApplicationIDs
}

// ServerEnabled reports whether the HTTP bridge should start.
func (c *Config) ServerEnabled() bool {
	if c.File.Server.Enabled == nil {
		return true
	}
	return *c.File.Server.Enabled
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReplayWindow: DefaultReplayWindow,
		},
		Log: LogConfig{Mode: DefaultLogMode},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Server.Host) == "" {
		fc.Server.Host = DefaultHost
	}
	if fc.Server.Port == 0 {
		fc.Server.Port = DefaultPort
	}
	if strings.TrimSpace(fc.Log.Mode) == "" {
		fc.Log.Mode = DefaultLogMode
	}
}

func (fc *FileConfig) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if overrides.Enabled != nil {
		enabled := *overrides.Enabled
		fc.Server.Enabled = &enabled
	}
	if host := strings.TrimSpace(overrides.Host); host != "" {
		fc.Server.Host = host
	}
	if overrides.Port != 0 {
		fc.Server.Port = overrides.Port
	}
	if mode := strings.TrimSpace(overrides.LogMode); mode != "" {
		fc.Log.Mode = mode
	}
	if file := strings.TrimSpace(overrides.LogFile); file != "" {
		fc.Log.File = file
	}
	if file := strings.TrimSpace(overrides.CatalogFile); file != "" {
		fc.Skill.CatalogFile = file
	}
	if len(overrides.ApplicationIDs) > 0 {
		fc.Skill.ApplicationIDs = overrides.ApplicationIDs
	}
	return nil
}

func (fc *FileConfig) normalize(base string) {
	fc.Server.Host = strings.TrimSpace(fc.Server.Host)
	fc.Log.Mode = strings.ToLower(strings.TrimSpace(fc.Log.Mode))
	fc.Log.File = resolvePath(base, fc.Log.File)
	fc.Skill.CatalogFile = resolvePath(base, fc.Skill.CatalogFile)
	ids := make([]string, 0, len(fc.Skill.ApplicationIDs))
	for _, id := range fc.Skill.ApplicationIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" && !contains(ids, trimmed) {
			ids = append(ids, trimmed)
		}
	}
	fc.Skill.ApplicationIDs = ids
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if fc.Server.Port < 1 || fc.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if fc.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	if fc.Server.ReplayWindow < 0 {
		return fmt.Errorf("server.replay_window must not be negative")
	}
	switch fc.Log.Mode {
	case LogModeDevelopment, LogModeProduction:
	default:
		return fmt.Errorf("log.mode must be '%s' or '%s'", LogModeDevelopment, LogModeProduction)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
