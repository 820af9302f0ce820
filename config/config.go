// Package config loads repofiles settings from a YAML file and the
// environment.
//
// Values are layered: Default, then the YAML file, then environment
// variables (GITHUB_TOKEN, GITLAB_TOKEN, REPOFILES_SERVER). Command-line
// flags are applied on top by the caller.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/repofiles/hosting"
)

// Supported hosting servers.
const (
	ServerGitHub = "github"
	ServerGitLab = "gitlab"
)

// Config is the full runtime configuration.
type Config struct {
	Server   string         `yaml:"server"`
	GitHub   GitHubConfig   `yaml:"github"`
	GitLab   GitLabConfig   `yaml:"gitlab"`
	Commit   CommitConfig   `yaml:"commit"`
	Document DocumentConfig `yaml:"document"`
	Log      LogConfig      `yaml:"log"`
}

// GitHubConfig configures the GitHub backend.
type GitHubConfig struct {
	AccessToken    string `yaml:"access_token"`
	EnterpriseHost string `yaml:"enterprise_host"`
	BaseURL        string `yaml:"base_url"`
}

// GitLabConfig configures the GitLab backend.
type GitLabConfig struct {
	Host        string `yaml:"host"`
	AccessToken string `yaml:"access_token"`
}

// CommitConfig shapes the commits that get created.
type CommitConfig struct {
	MessageTemplate string `yaml:"message_template"`
	AuthorName      string `yaml:"author_name"`
	AuthorEmail     string `yaml:"author_email"`
	CommitterName   string `yaml:"committer_name"`
	CommitterEmail  string `yaml:"committer_email"`
}

// DocumentConfig configures document fetches.
type DocumentConfig struct {
	// Timeout is a Go duration string, e.g. "30s".
	Timeout string `yaml:"timeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   ServerGitHub,
		GitLab:   GitLabConfig{Host: "https://gitlab.com"},
		Document: DocumentConfig{Timeout: "30s"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over Default and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	const errCtx = "loading config"

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := yaml.UnmarshalWithOptions(
			data, &cfg, yaml.DisallowUnknownField(),
		); err != nil {
			return nil, fmt.Errorf(
				"%s: parse %s: %w", errCtx, path, err,
			)
		}
	}

	applyEnv(&cfg, os.Getenv)

	return &cfg, nil
}

// applyEnv overrides cfg with non-empty environment
// values.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("REPOFILES_SERVER"); v != "" {
		cfg.Server = v
	}

	if v := getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.AccessToken = v
	}

	if v := getenv("GITLAB_TOKEN"); v != "" {
		cfg.GitLab.AccessToken = v
	}
}

// Validate checks the settings the selected server
// needs.
func (c *Config) Validate() error {
	const errCtx = "validating config"

	switch c.Server {
	case ServerGitHub:
		if c.GitHub.AccessToken == "" {
			return fmt.Errorf(
				"%s: github access token must be set", errCtx,
			)
		}
	case ServerGitLab:
		if c.GitLab.AccessToken == "" {
			return fmt.Errorf(
				"%s: gitlab access token must be set", errCtx,
			)
		}
	default:
		return fmt.Errorf(
			"%s: unknown server %q", errCtx, c.Server,
		)
	}

	if _, err := c.DocumentTimeout(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf(
			"%s: unknown log format %q", errCtx, c.Log.Format,
		)
	}

	return nil
}

// DocumentTimeout parses Document.Timeout. Empty means
// no timeout.
func (c *Config) DocumentTimeout() (time.Duration, error) {
	if c.Document.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Document.Timeout)
	if err != nil {
		return 0, fmt.Errorf("document timeout: %w", err)
	}

	return d, nil
}

// LogLevel parses Log.Level. Empty means info.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level

	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}

	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}

	return lvl, nil
}

// Author returns the configured commit author, nil when
// no name is set.
func (c *Config) Author() *hosting.Signature {
	return signature(c.Commit.AuthorName, c.Commit.AuthorEmail)
}

// Committer returns the configured committer, nil when
// no name is set.
func (c *Config) Committer() *hosting.Signature {
	return signature(
		c.Commit.CommitterName, c.Commit.CommitterEmail,
	)
}

func signature(name string, email string) *hosting.Signature {
	if name == "" {
		return nil
	}

	return &hosting.Signature{Name: name, Email: email}
}
