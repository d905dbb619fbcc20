package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort        = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultLogLevel        = "info"
	DefaultModelPath       = "model.json"
	DefaultScalerPath      = "scaler.json"
)

// Config is the top-level configuration parsed from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
}

// ServerConfig holds the HTTP listener and logging settings.
type ServerConfig struct {
	// HTTPPort is the port POST /predict, /healthz and /metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// ReadTimeout and WriteTimeout bound a single request on the listener.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is how long in-flight requests get after SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
}

// SlogLevel maps LogLevel to its slog equivalent.
func (s ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ArtifactsConfig locates the fitted model and scaler exported by the
// model-build pipeline. Relative paths resolve against the working directory.
type ArtifactsConfig struct {
	ModelPath  string `yaml:"model_path"`
	ScalerPath string `yaml:"scaler_path"`

	// Watch logs a warning when either file changes on disk. Artifacts are
	// never reloaded; a restart is required to pick up new ones.
	Watch bool `yaml:"watch"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// LoadOptional behaves like Load but returns Defaults when the file does not
// exist. Used when the operator did not pass -config explicitly.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        DefaultHTTPPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			LogLevel:        DefaultLogLevel,
		},
		Artifacts: ArtifactsConfig{
			ModelPath:  DefaultModelPath,
			ScalerPath: DefaultScalerPath,
			Watch:      true,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must not be negative")
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Artifacts.ModelPath == "" {
		return fmt.Errorf("artifacts.model_path must not be empty")
	}
	if cfg.Artifacts.ScalerPath == "" {
		return fmt.Errorf("artifacts.scaler_path must not be empty")
	}
	return nil
}
