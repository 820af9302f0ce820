// Command repofiles reads and writes files in hosted
// git repositories through the GitHub or GitLab REST
// APIs, without a local clone.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/byte4ever/repofiles/config"
	"github.com/byte4ever/repofiles/content"
	"github.com/byte4ever/repofiles/files"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

// globalOptions holds the persistent flag values shared
// by every subcommand. Empty values leave the config
// file and environment untouched.
type globalOptions struct {
	configPath      string
	server          string
	githubToken     string
	githubHost      string
	gitlabHost      string
	gitlabToken     string
	logLevel        string
	logFormat       string
	messageTmpl     string
	documentTimeout string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "repofiles",
		Short:         "Read and write files in hosted git repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(
		&opts.configPath, "config", "",
		"Path to a YAML config file",
	)
	pf.StringVar(
		&opts.server, "server", "",
		"Hosting platform: github or gitlab",
	)
	pf.StringVar(
		&opts.githubToken, "github-access-token", "",
		"GitHub access token (default $GITHUB_TOKEN)",
	)
	pf.StringVar(
		&opts.githubHost, "github-enterprise-host", "",
		"GitHub Enterprise hostname",
	)
	pf.StringVar(
		&opts.gitlabHost, "gitlab-host", "",
		"GitLab instance URL",
	)
	pf.StringVar(
		&opts.gitlabToken, "gitlab-access-token", "",
		"GitLab access token (default $GITLAB_TOKEN)",
	)
	pf.StringVar(
		&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn or error",
	)
	pf.StringVar(
		&opts.logFormat, "log-format", "",
		"Log format: text or json",
	)
	pf.StringVar(
		&opts.messageTmpl, "message-template", "",
		"Commit message template, e.g. '{{message}} ({{count}} files)'",
	)
	pf.StringVar(
		&opts.documentTimeout, "document-timeout", "",
		"Timeout for document fetches, e.g. 30s",
	)

	root.AddCommand(newGetCmd(opts))
	root.AddCommand(newPutCmd(opts))
	root.AddCommand(newPushCmd(opts))

	return root
}

// loadConfig layers flags over the config file and
// environment, validates the result and installs the
// slog handler on stderr.
func (o *globalOptions) loadConfig(
	stderr io.Writer,
) (*config.Config, error) {
	const errCtx = "loading configuration"

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	o.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.SetDefault(newLogger(stderr, cfg.Log.Format, lvl))

	return cfg, nil
}

// apply copies non-empty flag values into cfg.
func (o *globalOptions) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Server, o.server)
	set(&cfg.GitHub.AccessToken, o.githubToken)
	set(&cfg.GitHub.EnterpriseHost, o.githubHost)
	set(&cfg.GitLab.Host, o.gitlabHost)
	set(&cfg.GitLab.AccessToken, o.gitlabToken)
	set(&cfg.Log.Level, o.logLevel)
	set(&cfg.Log.Format, o.logFormat)
	set(&cfg.Commit.MessageTemplate, o.messageTmpl)
	set(&cfg.Document.Timeout, o.documentTimeout)
}

func newLogger(
	w io.Writer,
	format string,
	lvl slog.Level,
) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: lvl}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}

	return slog.New(slog.NewTextHandler(w, hopts))
}

// newService builds a files.Service for the configured
// backend.
func newService(cfg *config.Config) (*files.Service, error) {
	const errCtx = "creating service"

	b, err := newBackends(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	timeout, err := cfg.DocumentTimeout()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	svc, err := files.NewService(files.ServiceConfig{
		Contents:        b.contents,
		GitData:         b.gitData,
		Commits:         b.commits,
		Fetcher:         content.NewHTTPFetcher(timeout),
		MessageTemplate: cfg.Commit.MessageTemplate,
		Author:          cfg.Author(),
		Committer:       cfg.Committer(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return svc, nil
}
