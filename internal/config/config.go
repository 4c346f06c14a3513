package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Data    DataConfig    `koanf:"data"`
	Graph   GraphConfig   `koanf:"graph"`
	Export  ExportConfig  `koanf:"export"`
	Logging LoggingConfig `koanf:"logging"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	MetricsEnabled    bool          `koanf:"metrics_enabled"`
	AllowedOriginsCSV string        `koanf:"allowed_origins"`
}

// DataConfig locates the CSV datasets on disk.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// GraphConfig describes connectivity to the graph database (Neo4j).
type GraphConfig struct {
	URI            string `koanf:"uri"`
	Database       string `koanf:"database"`
	Username       string `koanf:"username"`
	Password       string `koanf:"password"`
	MaxConnections int    `koanf:"max_connections"`
}

// ExportConfig tunes how aggressively the exporter writes to the graph
// database.
type ExportConfig struct {
	Workers   int `koanf:"workers"`
	BatchSize int `koanf:"batch_size"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `koanf:"level"`
	Format        string `koanf:"format"` // text|json
	Colored       bool   `koanf:"colored"`
	IncludeCaller bool   `koanf:"include_caller"`
}

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/zurichwoof/config.yaml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "CONFIG_PATH"

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultDataDir          = "data"
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultExportWorkers    = 4
	defaultExportBatchSize  = 500
)

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			MetricsEnabled:  true,
		},
		Data: DataConfig{
			Dir: defaultDataDir,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
		},
		Export: ExportConfig{
			Workers:   defaultExportWorkers,
			BatchSize: defaultExportBatchSize,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load assembles configuration from three layers: built-in defaults, an
// optional YAML file, and environment variables. Later layers override
// earlier ones.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyPath), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the application cannot work with.
func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.HTTP.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if c.Graph.MaxConnections < 1 {
		return fmt.Errorf("graph max connections must be positive, got %d", c.Graph.MaxConnections)
	}
	if c.Export.Workers < 1 {
		return fmt.Errorf("export workers must be positive, got %d", c.Export.Workers)
	}
	if c.Export.BatchSize < 1 {
		return fmt.Errorf("export batch size must be positive, got %d", c.Export.BatchSize)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

// findConfigFile returns the first config file that exists, or empty when
// none does.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envKeyPath maps environment variable names onto config paths. Unknown
// variables are dropped so unrelated environment noise cannot leak into the
// configuration.
func envKeyPath(key string) string {
	mappings := map[string]string{
		"server_host":             "http.host",
		"server_port":             "http.port",
		"server_read_timeout":     "http.read_timeout",
		"server_write_timeout":    "http.write_timeout",
		"server_idle_timeout":     "http.idle_timeout",
		"server_shutdown_timeout": "http.shutdown_timeout",
		"server_metrics_enabled":  "http.metrics_enabled",
		"server_allowed_origins":  "http.allowed_origins",

		"data_dir": "data.dir",

		"graph_uri":             "graph.uri",
		"graph_database":        "graph.database",
		"graph_username":        "graph.username",
		"graph_password":        "graph.password",
		"graph_max_connections": "graph.max_connections",

		"export_workers":    "export.workers",
		"export_batch_size": "export.batch_size",

		"log_level":          "logging.level",
		"log_format":         "logging.format",
		"log_color":          "logging.colored",
		"log_include_caller": "logging.include_caller",
	}
	if path, ok := mappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
