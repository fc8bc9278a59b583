// Package config provides configuration management for weaver using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// Configuration comes from .weaver.yml, WEAVER_-prefixed environment
// variables, and flags, with defaults applied for everything else.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Components    ComponentsConfig    `yaml:"components" mapstructure:"components"`
	Encapsulation EncapsulationConfig `yaml:"encapsulation" mapstructure:"encapsulation"`
	Development   DevelopmentConfig   `yaml:"development" mapstructure:"development"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
	// URL is the externally visible base URL stamped on encapsulation
	// wrappers. Derived from host/port when empty.
	URL            string   `yaml:"url" mapstructure:"url"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Environment    string   `yaml:"environment" mapstructure:"environment"`
}

type CacheConfig struct {
	// TTLMillis is the default render cache lifetime. Views may
	// override it individually.
	TTLMillis int `yaml:"ttl_ms" mapstructure:"ttl_ms"`
	// SweepSeconds is the interval of the expired-entry sweep loop.
	SweepSeconds int `yaml:"sweep_seconds" mapstructure:"sweep_seconds"`
}

type ComponentsConfig struct {
	// ScanPaths are searched for view definition files.
	ScanPaths       []string `yaml:"scan_paths" mapstructure:"scan_paths"`
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
}

type EncapsulationConfig struct {
	Tag     string   `yaml:"tag" mapstructure:"tag"`
	Classes []string `yaml:"classes" mapstructure:"classes"`
}

type DevelopmentConfig struct {
	HotReload bool `yaml:"hot_reload" mapstructure:"hot_reload"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Development reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ServerURL returns the configured external URL or one derived from
// host and port.
func (c *Config) ServerURL() string {
	if c.Server.URL != "" {
		return c.Server.URL
	}
	host := c.Server.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// CacheTTL returns the default cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMillis) * time.Millisecond
}

// SweepInterval returns the cache sweep interval as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Cache.SweepSeconds) * time.Second
}

// Load builds the configuration from viper's merged sources and
// applies defaults and validation.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set via viper (workaround for viper slice/bool
	// handling through Unmarshal).
	if viper.IsSet("server.port") {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.host") {
		config.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.environment") {
		config.Server.Environment = viper.GetString("server.environment")
	}
	if viper.IsSet("components.scan_paths") && len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = viper.GetStringSlice("components.scan_paths")
	}
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Environment == "" {
		config.Server.Environment = "production"
	}
	if config.Cache.TTLMillis == 0 {
		config.Cache.TTLMillis = 300000
	}
	if config.Cache.SweepSeconds == 0 {
		config.Cache.SweepSeconds = 60
	}
	if len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = []string{"./components", "./blueprints"}
	}
	if len(config.Components.ExcludePatterns) == 0 {
		config.Components.ExcludePatterns = []string{"*_test*", "*.bak"}
	}
	if config.Encapsulation.Tag == "" {
		config.Encapsulation.Tag = "div"
	}
	if len(config.Encapsulation.Classes) == 0 {
		config.Encapsulation.Classes = []string{"weaver-component"}
	}
	if !viper.IsSet("development.hot_reload") && config.Server.Environment == "development" {
		config.Development.HotReload = true
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// validateConfig validates configuration values for security and
// correctness.
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server config: port %d is not in valid range 0-65535", config.Server.Port)
	}

	if config.Server.Environment != "production" && config.Server.Environment != "development" {
		return fmt.Errorf("server config: environment must be production or development, got %q", config.Server.Environment)
	}

	if config.Server.URL != "" {
		if _, err := url.Parse(config.Server.URL); err != nil {
			return fmt.Errorf("server config: invalid url: %w", err)
		}
	}

	if config.Cache.TTLMillis < 0 {
		return fmt.Errorf("cache config: ttl_ms must not be negative")
	}

	for _, path := range config.Components.ScanPaths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("components config: invalid scan path %q: %w", path, err)
		}
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log config: unknown level %q", config.Log.Level)
	}

	return nil
}

// validatePath validates a file path for security.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}
	return nil
}
