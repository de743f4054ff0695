package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	dir := filepath.Join(projectDir, SpellsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.File.Version)
	}
	if cfg.File.Server.Host != DefaultHost || cfg.File.Server.Port != DefaultPort {
		t.Fatalf("expected default address, got %s:%d", cfg.File.Server.Host, cfg.File.Server.Port)
	}
	if !cfg.ServerEnabled() {
		t.Fatalf("expected server enabled by default")
	}
	if cfg.LogMode() != LogModeDevelopment || cfg.LogFile() != "" {
		t.Fatalf("expected development logging to stderr, got %s %q", cfg.LogMode(), cfg.LogFile())
	}
	if cfg.CatalogFile() != "" {
		t.Fatalf("expected built-in catalog, got %s", cfg.CatalogFile())
	}
}

func TestInitDirWritesLoadableTemplate(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, SpellsDir, "logs")); err != nil {
		t.Fatalf("expected logs dir: %v", err)
	}
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("Load template: %v", err)
	}
	if cfg.File.Server.ReplayWindow != DefaultReplayWindow {
		t.Fatalf("expected replay window %d, got %d", DefaultReplayWindow, cfg.File.Server.ReplayWindow)
	}
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir should be idempotent: %v", err)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
server:
  enabled: false
  host: 0.0.0.0
  port: 9000
skill:
  application_ids:
    - amzn1.ask.skill.one
    - " amzn1.ask.skill.one "
    - amzn1.ask.skill.two
  catalog_file: roster.yaml
log:
  mode: PRODUCTION
  file: logs/spells.log
`)
	cfg, err := Load(projectDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerEnabled() {
		t.Fatalf("expected server disabled")
	}
	if cfg.File.Server.Port != 9000 || cfg.File.Server.Host != "0.0.0.0" {
		t.Fatalf("unexpected server config %+v", cfg.File.Server)
	}
	if got := cfg.ApplicationIDs(); len(got) != 2 {
		t.Fatalf("expected 2 deduplicated application ids, got %v", got)
	}
	if cfg.LogMode() != LogModeProduction {
		t.Fatalf("expected production mode, got %s", cfg.LogMode())
	}
	if want := filepath.Join(cfg.SpellsProjectDir, "roster.yaml"); cfg.CatalogFile() != want {
		t.Fatalf("expected catalog path %s, got %s", want, cfg.CatalogFile())
	}
	if !strings.HasPrefix(cfg.LogFile(), cfg.LogsDir()) {
		t.Fatalf("expected log file under %s, got %s", cfg.LogsDir(), cfg.LogFile())
	}
}

func TestLoadValidation(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
log:
  mode: verbose
`)
	if _, err := Load(projectDir); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestValidateRejectsPortOutsideRange(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		fc := defaultFileConfig()
		fc.Server.Port = port
		if err := fc.validate(); err == nil {
			t.Fatalf("port %d: expected validation error", port)
		}
	}
	fc := defaultFileConfig()
	fc.Server.Port = 65535
	if err := fc.validate(); err != nil {
		t.Fatalf("expected port 65535 to be valid, got %v", err)
	}
}

func TestLoadHonorsEnv(t *testing.T) {
	t.Setenv("SPELLS_BRIDGE_PORT", "9001")
	t.Setenv("SPELLS_BRIDGE_HOST", "0.0.0.0")
	t.Setenv("SPELLS_BRIDGE_ENABLED", "false")
	t.Setenv("SPELLS_LOG_MODE", "production")
	t.Setenv("SPELLS_CATALOG_FILE", "/tmp/roster.yaml")
	t.Setenv("SPELLS_APPLICATION_ID", "app-a,app-b")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File.Server.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.File.Server.Port)
	}
	if cfg.File.Server.Host != "0.0.0.0" {
		t.Fatalf("expected host override, got %s", cfg.File.Server.Host)
	}
	if cfg.ServerEnabled() {
		t.Fatalf("expected enabled=false from env override")
	}
	if cfg.LogMode() != LogModeProduction {
		t.Fatalf("expected production mode, got %s", cfg.LogMode())
	}
	if cfg.CatalogFile() != "/tmp/roster.yaml" {
		t.Fatalf("expected absolute catalog path kept, got %s", cfg.CatalogFile())
	}
	if ids := cfg.ApplicationIDs(); len(ids) != 2 || ids[1] != "app-b" {
		t.Fatalf("expected application ids from env, got %v", ids)
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("SPELLS_BRIDGE_PORT", "not-a-port")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for malformed port")
	}
}
