// Package config handles the XDG configuration directory, the optional config
// file and the environment variables read at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "faunatodo"

	// ConfigName is the config file name without extension (yaml, toml or json).
	ConfigName = "config"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "google_oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "google_token.json"

	// DefaultAddr is the default listen address of the server.
	DefaultAddr = ":3000"

	// DefaultAPIURL is the default proxy URL used by the CLI and TUI.
	DefaultAPIURL = "http://localhost:3000/api/fauna"
)

// Environment variables recognized at startup.
const (
	EnvEndpoint    = "FAUNA_API_ENDPOINT"
	EnvCredential  = "FAUNA_DB_KEY"
	EnvTimeout     = "FAUNATODO_TIMEOUT"
	EnvAddr        = "FAUNATODO_ADDR"
	EnvEnforcePOST = "FAUNATODO_ENFORCE_POST"
	EnvAPIURL      = "FAUNATODO_API_URL"
)

// DotenvFiles are loaded from the working directory, first match wins.
var DotenvFiles = []string{".env.local", ".env"}

// Config holds configuration paths and settings.
// It is read-only once loaded.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Endpoint is the Fauna GraphQL endpoint. Required by the proxy.
	Endpoint string

	// Credential is forwarded as the bearer token. Not validated locally.
	Credential string

	// Timeout bounds each outbound Fauna call. Zero means no timeout.
	Timeout time.Duration

	// Addr is the server listen address.
	Addr string

	// EnforcePOST rejects non-POST proxy requests with 405.
	EnforcePOST bool

	// APIURL is the proxy endpoint the CLI and TUI talk to.
	APIURL string
}

// New creates a Config with the default or specified config directory and
// built-in defaults. It reads neither files nor the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/faunatodo or $HOME/.config/faunatodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:    dir,
		Addr:   DefaultAddr,
		APIURL: DefaultAPIURL,
	}, nil
}

// Load creates a Config and fills it from, in increasing precedence, the
// config file in the config directory, dotenv files and the process
// environment.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if err := loadDotenv(DotenvFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(cfg.Dir)

	v.SetDefault("fauna.endpoint", "")
	v.SetDefault("fauna.key", "")
	v.SetDefault("fauna.timeout", time.Duration(0))
	v.SetDefault("server.addr", cfg.Addr)
	v.SetDefault("proxy.enforce_post", false)
	v.SetDefault("api.url", cfg.APIURL)

	bindings := map[string]string{
		"fauna.endpoint":     EnvEndpoint,
		"fauna.key":          EnvCredential,
		"fauna.timeout":      EnvTimeout,
		"server.addr":        EnvAddr,
		"proxy.enforce_post": EnvEnforcePOST,
		"api.url":            EnvAPIURL,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg.Endpoint = v.GetString("fauna.endpoint")
	cfg.Credential = v.GetString("fauna.key")
	cfg.Timeout = v.GetDuration("fauna.timeout")
	cfg.Addr = v.GetString("server.addr")
	cfg.EnforcePOST = v.GetBool("proxy.enforce_post")
	cfg.APIURL = v.GetString("api.url")

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %s", cfg.Timeout)
	}

	return cfg, nil
}

// loadDotenv loads each existing file. Variables already present in the
// environment are never overridden, so earlier files win over later ones.
func loadDotenv(files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// HasEndpoint reports whether the Fauna endpoint is configured.
func (c *Config) HasEndpoint() bool {
	return c.Endpoint != ""
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored Google OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
