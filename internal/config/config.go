// Package config provides configuration loading for convoport.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvConfigPath names the environment variable that points at an alternate
// YAML config file.
const EnvConfigPath = "CONVOPORT_CONFIG"

const defaultExportDir = "exported_chats"

type Config struct {
	Platform PlatformConfig `koanf:"platform"`
	Export   ExportConfig   `koanf:"export"`
	Mirror   MirrorConfig   `koanf:"mirror"`
	Serve    ServeConfig    `koanf:"serve"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlatformConfig holds credentials and routing for the hosted chat platform.
type PlatformConfig struct {
	APIKey       string `koanf:"api_key"`
	BaseURL      string `koanf:"base_url"`
	DeploymentID string `koanf:"deployment_id"`
}

type ExportConfig struct {
	Dir string `koanf:"dir"`
}

// MirrorConfig configures the optional off-host artifact copy. Disabled
// unless an endpoint is set.
type MirrorConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
}

func (m MirrorConfig) Enabled() bool { return m.Endpoint != "" }

type ServeConfig struct {
	Addr string `koanf:"addr"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads configuration with the following precedence, highest first:
//
//  1. Environment variables (PLATFORM_API_KEY, EXPORT_DIR, SERVE_ADDR, ...)
//  2. YAML config file (CONVOPORT_CONFIG, or the path passed in)
//  3. Defaults
//
// A .env file in the working directory is folded into the environment first,
// so secrets can live next to the project instead of the shell profile.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}
	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	// Environment variables override the file. The transformer splits on the
	// first underscore: PLATFORM_API_KEY -> platform.api_key.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaultExportDir
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8700"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Mirror.Enabled() && cfg.Mirror.Bucket == "" {
		cfg.Mirror.Bucket = "convoport-exports"
	}
}

func (c *Config) Validate() error {
	if c.Platform.APIKey == "" {
		return fmt.Errorf("platform api key is required: set PLATFORM_API_KEY or platform.api_key")
	}
	if c.Mirror.Enabled() && (c.Mirror.AccessKey == "" || c.Mirror.SecretKey == "") {
		return fmt.Errorf("mirror endpoint is set but credentials are missing")
	}
	return nil
}
