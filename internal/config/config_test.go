package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "0.0.0.0"
  port: 8080

logging:
  dir: "/var/log/cursorbridge"
  retention_days: 14
  level: debug
  format: console

bridge:
  enabled: false
  trigger_keyword: "@cursor"
  dir: "/app/backend/data/bridge"

webhook:
  secret: "shh"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Logging: LoggingConfig{
			Dir:           "/var/log/cursorbridge",
			RetentionDays: 14,
			Level:         "debug",
			Format:        "console",
		},
		Bridge: BridgeConfig{
			Enabled:        false,
			TriggerKeyword: "@cursor",
			Dir:            "/app/backend/data/bridge",
		},
		Webhook: WebhookConfig{Secret: "shh"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_DefaultsKeptWhenOmitted(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
bridge:
  dir: /tmp/bridge
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Bridge.Enabled {
		t.Error("Bridge.Enabled = false, want default true")
	}
	if cfg.Bridge.TriggerKeyword != "s2cursor" {
		t.Errorf("Bridge.TriggerKeyword = %q, want %q", cfg.Bridge.TriggerKeyword, "s2cursor")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BRIDGE_DIR", "/srv/bridge")
	t.Setenv("TEST_WEBHOOK_TOKEN", "token-123")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
bridge:
  dir: "${TEST_BRIDGE_DIR}"
webhook:
  token: "${TEST_WEBHOOK_TOKEN}"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bridge.Dir != "/srv/bridge" {
		t.Errorf("Bridge.Dir = %q, want %q", cfg.Bridge.Dir, "/srv/bridge")
	}
	if cfg.Webhook.Token != "token-123" {
		t.Errorf("Webhook.Token = %q, want %q", cfg.Webhook.Token, "token-123")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Bridge.Dir = "/tmp/bridge"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing dir",
			mutate:  func(c *Config) { c.Bridge.Dir = "" },
			wantErr: true,
		},
		{
			name:    "missing keyword",
			mutate:  func(c *Config) { c.Bridge.TriggerKeyword = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.Logging.RetentionDays = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:   "disabled bridge is still valid",
			mutate: func(c *Config) { c.Bridge.Enabled = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
