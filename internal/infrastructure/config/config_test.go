package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads full config", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: "/tmp/catalog.db"
  wal_mode: false
  busy_timeout: 10

api:
  host: "127.0.0.1"
  port: 9090
  timeouts:
    read: 15
    write: 20
    idle: 90

mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 8883
    tls: true
    client_id: "blemapper-test"
  qos: 2

logging:
  level: debug
  format: text
  output: stderr
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.Path != "/tmp/catalog.db" {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.Database.WALMode {
			t.Error("WALMode = true, want false")
		}
		if cfg.API.Port != 9090 {
			t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
		}
		if !cfg.MQTT.Enabled || !cfg.MQTT.Broker.TLS {
			t.Errorf("MQTT = %+v, want enabled with TLS", cfg.MQTT)
		}
		if cfg.MQTT.QoS != 2 {
			t.Errorf("MQTT.QoS = %d, want 2", cfg.MQTT.QoS)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
		}
	})

	t.Run("applies defaults for missing values", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: "/tmp/catalog.db"
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.API.Port != 8080 {
			t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
		}
		if cfg.MQTT.Enabled {
			t.Error("MQTT.Enabled = true, want default false")
		}
		if cfg.MQTT.Broker.ClientID != "blemapper-core" {
			t.Errorf("ClientID = %q, want default blemapper-core", cfg.MQTT.Broker.ClientID)
		}
		if cfg.Logging.Format != "json" {
			t.Errorf("Logging.Format = %q, want default json", cfg.Logging.Format)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		if _, err := Load("/nonexistent/config.yaml"); err == nil {
			t.Error("Load() error = nil, want read error")
		}
	})

	t.Run("malformed yaml returns error", func(t *testing.T) {
		path := writeConfig(t, "{not yaml:::")
		if _, err := Load(path); err == nil {
			t.Error("Load() error = nil, want parse error")
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("BLEMAP_DATABASE_PATH", "/env/override.db")
		t.Setenv("BLEMAP_API_PORT", "9999")

		path := writeConfig(t, `
database:
  path: "/tmp/catalog.db"
api:
  port: 8080
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.Path != "/env/override.db" {
			t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
		}
		if cfg.API.Port != 9999 {
			t.Errorf("API.Port = %d, want 9999", cfg.API.Port)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	t.Run("default config is valid", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("empty database path", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Path = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "database.path") {
			t.Errorf("Validate() error = %v, want database.path error", err)
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := valid()
		cfg.API.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() error = nil, want port error")
		}
	})

	t.Run("invalid qos", func(t *testing.T) {
		cfg := valid()
		cfg.MQTT.QoS = 3
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() error = nil, want qos error")
		}
	})

	t.Run("mqtt enabled without broker host", func(t *testing.T) {
		cfg := valid()
		cfg.MQTT.Enabled = true
		cfg.MQTT.Broker.Host = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() error = nil, want broker host error")
		}
	})

	t.Run("collects multiple errors", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Path = ""
		cfg.MQTT.QoS = 9
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), ";") {
			t.Errorf("Validate() error = %v, want joined errors", err)
		}
	})
}

func TestAPIConfig_Timeouts(t *testing.T) {
	cfg := APIConfig{Timeouts: APITimeoutConfig{Read: 15, Write: 20, Idle: 90}}

	if cfg.GetReadTimeout() != 15*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 15s", cfg.GetReadTimeout())
	}
	if cfg.GetWriteTimeout() != 20*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 20s", cfg.GetWriteTimeout())
	}
	if cfg.GetIdleTimeout() != 90*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 90s", cfg.GetIdleTimeout())
	}
}
