package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/amlscreen/internal/screening"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1.0.0"

// supportedVersions is the schema range this build understands.
const supportedVersions = "^1.0.0"

// Output formats accepted by the search command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Environment variable overrides.
const (
	EnvHome       = "AMLSCREEN_HOME"
	EnvEndpoint   = "AMLSCREEN_ENDPOINT"
	EnvToken      = "AMLSCREEN_TOKEN"
	EnvLogLevel   = "AMLSCREEN_LOG_LEVEL"
	EnvLogFormat  = "AMLSCREEN_LOG_FORMAT"
	EnvOutput     = "AMLSCREEN_OUTPUT"
	EnvServerAddr = "AMLSCREEN_ADDR"
)

// Config is the amlscreen configuration.
type Config struct {
	Version  string         `yaml:"version"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Logging  LoggingConfig  `yaml:"logging"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`

	configPath string
}

// UpstreamConfig points at the screening API.
type UpstreamConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Token is the CRM credential forwarded on every lookup.
	Token string `yaml:"token,omitempty"`
	// Timeout bounds one lookup; 0 disables it.
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ServerConfig configures the browser front-end.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Upstream: UpstreamConfig{
			Endpoint: screening.DefaultEndpoint,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			DefaultFormat: OutputTable,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
	}
}

// New loads the global config file on top of the defaults and applies
// environment overrides. A missing file leaves defaults in place; so does a
// broken one, whose error only Load reports.
func New() *Config {
	cfg, _ := loadGlobal()
	return cfg
}

// loadGlobal builds defaults, merges the global config file when it exists
// and applies environment overrides. The returned Config is usable even when
// the file fails to parse; it then carries no values from the file.
func loadGlobal() (*Config, error) {
	cfg := Default()

	var mergeErr error
	dir, err := GetConfigDir()
	if err == nil {
		cfg.configPath = filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(cfg.configPath); statErr == nil {
			if err = ShallowMergeYAML(cfg, cfg.configPath); err != nil {
				mergeErr = fmt.Errorf("loading %s: %w", cfg.configPath, err)
			}
		}
	}

	cfg.ApplyEnv()
	return cfg, mergeErr
}

// Load builds a Config like New and then merges the overlay file at path.
// It fails when the global config file exists but cannot be applied.
func Load(path string) (*Config, error) {
	cfg, err := loadGlobal()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Upstream.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Upstream.Token = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	var errs []error

	if err := validateVersion(c.Version); err != nil {
		errs = append(errs, err)
	}

	u, err := url.Parse(c.Upstream.Endpoint)
	switch {
	case c.Upstream.Endpoint == "":
		errs = append(errs, errors.New("upstream.endpoint is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("upstream.endpoint: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("upstream.endpoint must use http or https, got %q", c.Upstream.Endpoint))
	}

	if c.Upstream.Timeout < 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be >= 0, got %s", c.Upstream.Timeout))
	}

	switch c.Output.DefaultFormat {
	case OutputTable, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be %q or %q, got %q",
			OutputTable, OutputJSON, c.Output.DefaultFormat))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	return errors.Join(errs...)
}

func validateVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("parsing supported version range: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("config version %s is not supported (want %s)", v, supportedVersions)
	}
	return nil
}

// ConfigPath returns the file this config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the save location.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML to its config path.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// RedactedToken returns the upstream token masked for display.
func (c *Config) RedactedToken() string {
	const visible = 4
	t := c.Upstream.Token
	if t == "" {
		return "(none)"
	}
	if len(t) <= visible {
		return strings.Repeat("*", len(t))
	}
	return t[:visible] + strings.Repeat("*", len(t)-visible)
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`) //nolint:gochecknoglobals // Compiled once.

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
