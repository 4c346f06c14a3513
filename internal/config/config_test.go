package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Host != "0.0.0.0" {
		t.Fatalf("expected default host 0.0.0.0, got %q", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Fatalf("expected default read timeout 10s, got %s", cfg.HTTP.ReadTimeout)
	}
	if !cfg.HTTP.MetricsEnabled {
		t.Fatal("expected metrics enabled by default")
	}
	if cfg.Data.Dir != "data" {
		t.Fatalf("expected default data dir %q, got %q", "data", cfg.Data.Dir)
	}
	if cfg.Graph.MaxConnections != 10 {
		t.Fatalf("expected default graph max connections 10, got %d", cfg.Graph.MaxConnections)
	}
	if cfg.Export.Workers != 4 || cfg.Export.BatchSize != 500 {
		t.Fatalf("expected default export tuning 4/500, got %d/%d", cfg.Export.Workers, cfg.Export.BatchSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("expected default logging info/text, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("SERVER_METRICS_ENABLED", "false")
	t.Setenv("DATA_DIR", "/srv/datasets")
	t.Setenv("GRAPH_URI", "neo4j://graph:7687")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")
	t.Setenv("EXPORT_WORKERS", "8")
	t.Setenv("EXPORT_BATCH_SIZE", "100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 30*time.Second {
		t.Fatalf("expected read timeout 30s, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if cfg.Data.Dir != "/srv/datasets" {
		t.Fatalf("expected data dir /srv/datasets, got %q", cfg.Data.Dir)
	}
	if cfg.Graph.URI != "neo4j://graph:7687" {
		t.Fatalf("expected graph uri neo4j://graph:7687, got %q", cfg.Graph.URI)
	}
	if cfg.Graph.MaxConnections != 25 {
		t.Fatalf("expected graph max connections 25, got %d", cfg.Graph.MaxConnections)
	}
	if cfg.Export.Workers != 8 || cfg.Export.BatchSize != 100 {
		t.Fatalf("expected export tuning 8/100, got %d/%d", cfg.Export.Workers, cfg.Export.BatchSize)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("expected logging debug/json, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	content := `http:
  port: 9000
  allowed_origins: "https://zurichwoof.ch"
data:
  dir: /srv/datasets
graph:
  uri: neo4j://localhost:7687
  username: neo4j
  password: wordpass
logging:
  level: warn
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Port != 9000 {
		t.Fatalf("expected port 9000 from file, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.AllowedOriginsCSV != "https://zurichwoof.ch" {
		t.Fatalf("expected allowed origins from file, got %q", cfg.HTTP.AllowedOriginsCSV)
	}
	if cfg.Graph.URI != "neo4j://localhost:7687" || cfg.Graph.Username != "neo4j" {
		t.Fatalf("expected graph settings from file, got %q/%q", cfg.Graph.URI, cfg.Graph.Username)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected logging level warn from file, got %q", cfg.Logging.Level)
	}
	// Defaults still fill what the file leaves out.
	if cfg.Export.Workers != 4 {
		t.Fatalf("expected default export workers 4, got %d", cfg.Export.Workers)
	}
}

func TestLoad_EnvironmentBeatsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Port != 9999 {
		t.Fatalf("expected env port 9999 to beat file, got %d", cfg.HTTP.Port)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"zero graph connections", func(c *Config) { c.Graph.MaxConnections = 0 }},
		{"zero export workers", func(c *Config) { c.Export.Workers = 0 }},
		{"zero export batch size", func(c *Config) { c.Export.BatchSize = 0 }},
		{"unknown logging format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestEnvKeyPath(t *testing.T) {
	tests := []struct {
		key  string
		path string
	}{
		{"SERVER_PORT", "http.port"},
		{"DATA_DIR", "data.dir"},
		{"GRAPH_PASSWORD", "graph.password"},
		{"EXPORT_BATCH_SIZE", "export.batch_size"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tc := range tests {
		if got := envKeyPath(tc.key); got != tc.path {
			t.Fatalf("envKeyPath(%q) = %q, expected %q", tc.key, got, tc.path)
		}
	}
}
