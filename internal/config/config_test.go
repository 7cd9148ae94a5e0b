package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/screening"
)

// isolateHome points AMLSCREEN_HOME at a fresh directory and clears the
// override variables.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, key := range []string{
		config.EnvEndpoint, config.EnvToken, config.EnvLogLevel,
		config.EnvLogFormat, config.EnvOutput, config.EnvServerAddr,
	} {
		t.Setenv(key, "")
	}
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func TestNew_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg := config.New()

	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, screening.DefaultEndpoint, cfg.Upstream.Endpoint)
	assert.Zero(t, cfg.Upstream.Timeout)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	require.NoError(t, cfg.Validate())
}

func TestNew_ReadsConfigFile(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
version: "1.2.0"
upstream:
  endpoint: https://file.example.com/aml
  token: file-token
`), 0o600))

	cfg := config.New()

	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "https://file.example.com/aml", cfg.Upstream.Endpoint)
	assert.Equal(t, "file-token", cfg.Upstream.Token)
	assert.Equal(t, "info", cfg.Logging.Level, "untouched sections keep defaults")
}

func TestNew_EnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvEndpoint, "http://localhost:9999/aml")
	t.Setenv(config.EnvToken, "env-token")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvOutput, "json")

	cfg := config.New()

	assert.Equal(t, "http://localhost:9999/aml", cfg.Upstream.Endpoint)
	assert.Equal(t, "env-token", cfg.Upstream.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
}

func TestLoad_Overlay(t *testing.T) {
	isolateHome(t)
	overlay := writeOverlay(t, "output:\n  default_format: json\n")

	cfg, err := config.Load(overlay)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvBeatsOverlay(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvToken, "env-token")
	overlay := writeOverlay(t, "upstream:\n  endpoint: https://x.example.com\n  token: overlay-token\n")

	cfg, err := config.Load(overlay)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Upstream.Token)
	assert.Equal(t, "https://x.example.com", cfg.Upstream.Endpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "empty version allowed", mutate: func(c *config.Config) { c.Version = "" }},
		{
			name:    "bad version",
			mutate:  func(c *config.Config) { c.Version = "one" },
			wantErr: "not a semantic version",
		},
		{
			name:    "unsupported major",
			mutate:  func(c *config.Config) { c.Version = "2.0.0" },
			wantErr: "not supported",
		},
		{
			name:    "missing endpoint",
			mutate:  func(c *config.Config) { c.Upstream.Endpoint = "" },
			wantErr: "upstream.endpoint is required",
		},
		{
			name:    "non http endpoint",
			mutate:  func(c *config.Config) { c.Upstream.Endpoint = "ftp://example.com" },
			wantErr: "http or https",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *config.Config) { c.Upstream.Timeout = -time.Second },
			wantErr: "upstream.timeout",
		},
		{
			name:    "bad output",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "xml" },
			wantErr: "output.default_format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "missing addr",
			mutate:  func(c *config.Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Default()
	cfg.Upstream.Token = "saved-token"
	cfg.SetConfigPath(path)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded := config.Default()
	require.NoError(t, config.ShallowMergeYAML(loaded, path))
	assert.Equal(t, "saved-token", loaded.Upstream.Token)
	assert.Equal(t, cfg.Server, loaded.Server)
}

func TestSave_NoPath(t *testing.T) {
	require.Error(t, config.Default().Save())
}

func TestRedactedToken(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "(none)", cfg.RedactedToken())

	cfg.Upstream.Token = "abc"
	assert.Equal(t, "***", cfg.RedactedToken())

	cfg.Upstream.Token = "abcdefgh"
	assert.Equal(t, "abcd****", cfg.RedactedToken())
}

func TestGlobalConfig(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvOutput, "json")

	assert.Equal(t, "json", config.GetOutputFormat(""))
	assert.Equal(t, "table", config.GetOutputFormat("table"))

	replacement := config.Default()
	replacement.Logging.Level = "warn"
	config.SetGlobalConfig(replacement)
	assert.Equal(t, "warn", config.GetLoggingConfig().Level)
}

func TestEnsureLogDir(t *testing.T) {
	isolateHome(t)

	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "amlscreen.log")
	config.SetGlobalConfig(cfg)

	require.NoError(t, config.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.File))
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(config.EnvHome, "/tmp/amlscreen-home")
	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/amlscreen-home", dir)
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	out := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, out.Output)
	assert.Equal(t, "debug", out.Level)

	lc.File = "/var/log/amlscreen.log"
	out = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, out.Output)
	assert.Equal(t, "/var/log/amlscreen.log", out.File)
}

func TestLoad_BrokenGlobalFile(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
upstream:
  endpoint: https://file.example.com/aml
  token: secret-token
server: not-a-map
`), 0o600))

	for range 50 {
		cfg, err := config.Load("")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "config.yaml")
	}

	cfg := config.New()
	assert.Empty(t, cfg.Upstream.Token, "nothing from a broken file is applied")
	assert.Equal(t, screening.DefaultEndpoint, cfg.Upstream.Endpoint)
}
